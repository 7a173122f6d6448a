// Package manifest provides loading and validation of obsup upload job
// manifests.
//
// A job manifest is a YAML or JSON file that describes a batch of object
// uploads: the service connection, upload behavior, and the objects to send.
//
// Example manifest (YAML):
//
//	version: "1.0"
//	connection:
//	  endpoint: https://obs.eu-west-101.example.com
//	  bucket: my-data-bucket
//	upload:
//	  acl: private
//	  storage_class: STANDARD
//	  compute_md5: true
//	  max_retries: 3
//	  concurrency: 4
//	  rate_limit: 10
//	objects:
//	  - key: data/2024/report.parquet
//	    file: ./out/report.parquet
//	    content_type: application/octet-stream
package manifest

// Manifest represents a validated upload job manifest.
//
// Required fields are Version, Connection, and at least one object. Upload
// is optional with defaults applied by ApplyDefaults.
type Manifest struct {
	// Version is the manifest schema version. Must be "1.0".
	Version string `json:"version" yaml:"version"`

	// Connection configures the target service and bucket.
	Connection ConnectionConfig `json:"connection" yaml:"connection"`

	// Upload configures upload behavior (optional).
	Upload UploadConfig `json:"upload,omitempty" yaml:"upload,omitempty"`

	// Objects lists the uploads to perform. At least one is required.
	Objects []ObjectSpec `json:"objects" yaml:"objects"`
}

// ConnectionConfig configures the target service endpoint.
type ConnectionConfig struct {
	// Endpoint is the service URL, e.g. "https://obs.eu-west-101.example.com".
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Bucket is the bucket all objects are uploaded to.
	Bucket string `json:"bucket" yaml:"bucket"`
}

// UploadConfig configures upload behavior for the whole job.
type UploadConfig struct {
	// ACL applies a canned ACL to every object. Optional.
	ACL string `json:"acl,omitempty" yaml:"acl,omitempty"`

	// StorageClass selects the storage tier for every object. Optional.
	StorageClass string `json:"storage_class,omitempty" yaml:"storage_class,omitempty"`

	// ComputeMD5 enables Content-MD5 computation per object. Default: false.
	ComputeMD5 bool `json:"compute_md5,omitempty" yaml:"compute_md5,omitempty"`

	// MaxRetries bounds retries per object. Default: 3.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`

	// Concurrency is the number of parallel uploads. Default: 1.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// RateLimit caps upload starts per second. Zero disables limiting.
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// ObjectSpec describes one object upload.
type ObjectSpec struct {
	// Key is the destination object key.
	Key string `json:"key" yaml:"key"`

	// File is the local path of the body to upload.
	File string `json:"file" yaml:"file"`

	// ContentType sets the Content-Type header. Optional.
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`

	// Metadata is sent as user metadata headers. Optional.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ApplyDefaults fills optional fields with their documented defaults.
func (m *Manifest) ApplyDefaults() {
	if m.Upload.MaxRetries == 0 {
		m.Upload.MaxRetries = 3
	}
	if m.Upload.Concurrency == 0 {
		m.Upload.Concurrency = 1
	}
}
