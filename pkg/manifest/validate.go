package manifest

import (
	"fmt"
	"net/url"
	"strings"
)

// supportedVersion is the only manifest schema version this build accepts.
const supportedVersion = "1.0"

// Validate checks the manifest for structural problems. It is called by
// Load after defaults are applied; callers constructing manifests in code
// should call it themselves.
func (m *Manifest) Validate() error {
	if m.Version != supportedVersion {
		return fmt.Errorf("unsupported manifest version %q (want %q)", m.Version, supportedVersion)
	}

	if m.Connection.Endpoint == "" {
		return fmt.Errorf("connection.endpoint is required")
	}
	u, err := url.Parse(m.Connection.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("connection.endpoint %q is not an absolute http(s) URL", m.Connection.Endpoint)
	}
	if m.Connection.Bucket == "" {
		return fmt.Errorf("connection.bucket is required")
	}

	if m.Upload.MaxRetries < 0 {
		return fmt.Errorf("upload.max_retries must not be negative")
	}
	if m.Upload.Concurrency < 1 {
		return fmt.Errorf("upload.concurrency must be at least 1")
	}
	if m.Upload.RateLimit < 0 {
		return fmt.Errorf("upload.rate_limit must not be negative")
	}

	if len(m.Objects) == 0 {
		return fmt.Errorf("at least one object is required")
	}
	for i, obj := range m.Objects {
		if obj.Key == "" {
			return fmt.Errorf("objects[%d].key is required", i)
		}
		if strings.HasPrefix(obj.Key, "/") {
			return fmt.Errorf("objects[%d].key must not start with '/'", i)
		}
		if obj.File == "" {
			return fmt.Errorf("objects[%d].file is required", i)
		}
	}
	return nil
}
