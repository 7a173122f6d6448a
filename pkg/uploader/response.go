package uploader

import (
	"strings"

	"github.com/noaccident/obsup/pkg/transport"
)

// Result is the outcome of a successful upload. Header-derived fields are
// empty when the service omitted them.
type Result struct {
	// StatusCode is the 2xx status of the final attempt.
	StatusCode int

	// ETag is the entity tag with surrounding quotes stripped.
	ETag string

	// VersionID is set when bucket versioning is enabled.
	VersionID string

	// StorageClass echoes the tier the object landed in.
	StorageClass string

	// SSEAlgorithm echoes the server-side encryption applied.
	SSEAlgorithm string
}

// mapResponse extracts the result fields from a successful response.
// Presence checks only; no validation.
func mapResponse(resp *transport.Response) *Result {
	return &Result{
		StatusCode:   resp.StatusCode,
		ETag:         strings.Trim(resp.Header.Get("ETag"), `"`),
		VersionID:    resp.Header.Get("x-obs-version-id"),
		StorageClass: resp.Header.Get("x-obs-storage-class"),
		SSEAlgorithm: resp.Header.Get("x-obs-server-side-encryption"),
	}
}
