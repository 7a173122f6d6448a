package signer

import (
	"net/url"
	"time"
)

// ACL selects a canned access control list for the uploaded object.
type ACL string

const (
	ACLPrivate         ACL = "private"
	ACLPublicRead      ACL = "public-read"
	ACLPublicReadWrite ACL = "public-read-write"
)

// StorageClass selects the storage tier for the uploaded object.
type StorageClass string

const (
	StorageStandard StorageClass = "STANDARD"
	StorageWarm     StorageClass = "WARM"
	StorageCold     StorageClass = "COLD"
)

// SigningContext describes one outgoing request to be signed.
//
// It is a pure value: signing the same context with the same credentials
// and timestamp always yields byte-identical headers.
type SigningContext struct {
	// Method is the HTTP verb, e.g. "PUT".
	Method string

	// Bucket and Key identify the target object.
	Bucket string
	Key    string

	// Timestamp overrides the clock when non-zero. Used for reproducible
	// signatures in tests; production callers leave it zero.
	Timestamp time.Time

	// ContentType and ContentMD5 participate in the string to sign when set.
	ContentType string
	ContentMD5  string

	// ContentLength is the declared body size in bytes. Negative means unset.
	ContentLength int64

	// Metadata entries are sent as one x-obs-meta-<key> header each.
	Metadata map[string]string

	// ACL and StorageClass are emitted as x-obs- headers when set.
	ACL          ACL
	StorageClass StorageClass

	// SSE configures server-side encryption for the object. Optional.
	SSE SSE

	// Query holds query parameters on the target resource. Whitelisted
	// subresources participate in the signature; everything else is sent
	// on the wire unsigned.
	Query url.Values
}
