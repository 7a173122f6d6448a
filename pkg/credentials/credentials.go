// Package credentials holds the access credentials used to sign requests.
//
// A Credentials value is immutable once constructed. The active credentials
// for a client live in a Store and are replaced as a whole, never mutated
// in place, so a signature computed from one snapshot can never observe a
// partial update.
package credentials

// Credentials identifies the caller to the storage service.
//
// Permanent credentials carry an access key and secret key. Temporary
// credentials additionally carry a security token that must accompany
// every signed request.
type Credentials struct {
	// AccessKey is the public identifier included in the Authorization header.
	AccessKey string

	// SecretKey is the HMAC signing key. It never appears on the wire.
	SecretKey string

	// SecurityToken is set only for temporary credentials.
	SecurityToken string
}

// New returns permanent credentials.
func New(accessKey, secretKey string) Credentials {
	return Credentials{AccessKey: accessKey, SecretKey: secretKey}
}

// NewTemporary returns temporary credentials with a security token.
func NewTemporary(accessKey, secretKey, securityToken string) Credentials {
	return Credentials{AccessKey: accessKey, SecretKey: secretKey, SecurityToken: securityToken}
}

// IsTemporary reports whether the credentials carry a security token.
func (c Credentials) IsTemporary() bool {
	return c.SecurityToken != ""
}
