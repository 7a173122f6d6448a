package signer

import (
	"crypto/md5" //nolint:gosec // protocol-mandated key digest
	"encoding/base64"
	"net/http"
)

// SSE configures server-side encryption for an upload.
//
// Implementations are SSEKMS and SSECustomer. The interface is sealed so the
// header set stays in step with what canonicalization expects.
type SSE interface {
	setHeaders(h http.Header)
}

// SSEKMS requests encryption with a service-managed KMS key.
type SSEKMS struct {
	// KeyID selects a specific KMS key. Empty uses the account default key.
	KeyID string
}

func (s SSEKMS) setHeaders(h http.Header) {
	h.Set(headerSSE, "kms")
	if s.KeyID != "" {
		h.Set(headerSSEKMSKeyID, s.KeyID)
	}
}

// SSECustomer requests encryption with a caller-supplied AES-256 key.
//
// The raw key is sent Base64-encoded together with the Base64 MD5 digest of
// the raw key bytes, per the SSE-C wire contract.
type SSECustomer struct {
	Key []byte
}

func (s SSECustomer) setHeaders(h http.Header) {
	sum := md5.Sum(s.Key) //nolint:gosec
	h.Set(headerSSECAlgorithm, "AES256")
	h.Set(headerSSECKey, base64.StdEncoding.EncodeToString(s.Key))
	h.Set(headerSSECKeyMD5, base64.StdEncoding.EncodeToString(sum[:]))
}
