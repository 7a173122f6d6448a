package uploader

import (
	"encoding/xml"
	"io"
	"strings"
)

// ErrorBody is the structured error document the service attaches to failed
// responses:
//
//	<Error><Code/><Message/><RequestId/><HostId/></Error>
//
// Absent fields are empty strings.
type ErrorBody struct {
	Code      string
	Message   string
	RequestID string
	HostID    string
}

// ParseErrorBody extracts the four known fields from an XML error document.
//
// The walk is streaming: character data for a recognized element is
// accumulated across chunks and trimmed at field boundaries; unrecognized
// elements are skipped. Returns nil when the document yields no non-empty
// Code, which covers malformed and non-error bodies alike.
func ParseErrorBody(r io.Reader) *ErrorBody {
	dec := xml.NewDecoder(r)

	var body ErrorBody
	var current *string
	var buf strings.Builder

	flush := func() {
		if current != nil {
			*current = strings.TrimSpace(buf.String())
		}
		current = nil
		buf.Reset()
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF ends a well-formed document; anything else means the
			// body was truncated or not XML at all. Either way we keep what
			// was already extracted.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			flush()
			switch t.Name.Local {
			case "Code":
				current = &body.Code
			case "Message":
				current = &body.Message
			case "RequestId":
				current = &body.RequestID
			case "HostId":
				current = &body.HostID
			}
		case xml.CharData:
			if current != nil {
				buf.Write(t)
			}
		case xml.EndElement:
			flush()
		}
	}
	flush()

	if body.Code == "" {
		return nil
	}
	return &body
}
