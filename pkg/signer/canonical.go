package signer

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Header names used on the wire. The x-obs- prefix marks headers that
// participate in canonicalization.
const (
	headerPrefix   = "x-obs-"
	metadataPrefix = "x-obs-meta-"

	headerSecurityToken = "x-obs-security-token"
	headerACL           = "x-obs-acl"
	headerStorageClass  = "x-obs-storage-class"
	headerVersionID     = "x-obs-version-id"

	headerSSE           = "x-obs-server-side-encryption"
	headerSSEKMSKeyID   = "x-obs-server-side-encryption-kms-key-id"
	headerSSECAlgorithm = "x-obs-server-side-encryption-customer-algorithm"
	headerSSECKey       = "x-obs-server-side-encryption-customer-key"
	headerSSECKeyMD5    = "x-obs-server-side-encryption-customer-key-md5"
)

// subresources is the fixed set of query parameters that participate in the
// signed canonical resource. Parameters outside this set are still sent on
// the wire but never signed.
var subresources = map[string]struct{}{
	"acl":          {},
	"append":       {},
	"attname":      {},
	"cors":         {},
	"customdomain": {},
	"delete":       {},
	"encryption":   {},
	"inventory":    {},
	"length":       {},
	"lifecycle":    {},
	"location":     {},
	"logging":      {},
	"metadata":     {},
	"notification": {},
	"partNumber":   {},
	"policy":       {},
	"position":     {},
	"quota":        {},
	"rename":       {},
	"replication":  {},
	"restore":      {},
	"storageClass": {},
	"tagging":      {},
	"torrent":      {},
	"uploadId":     {},
	"uploads":      {},
	"versionId":    {},
	"website":      {},

	"response-cache-control":       {},
	"response-content-disposition": {},
	"response-content-encoding":    {},
	"response-content-language":    {},
	"response-content-type":        {},
	"response-expires":             {},

	"x-image-process":     {},
	"x-image-save-bucket": {},
	"x-image-save-object": {},
}

// canonicalizedHeaders renders the x-obs- headers as "key:value\n" lines,
// keys lowercased, values trimmed, sorted ascending by key. An empty header
// set renders as the empty string with no trailing separator.
func canonicalizedHeaders(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, headerPrefix) {
			keys = append(keys, lk)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vals := h.Values(k)
		trimmed := make([]string, len(vals))
		for i, v := range vals {
			trimmed[i] = strings.TrimSpace(v)
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(strings.Join(trimmed, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// canonicalizedResource renders "/bucket/key" plus the sorted, whitelisted
// subresources. Bare parameters render as the name alone.
func canonicalizedResource(bucket, key string, query url.Values) string {
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(bucket)
	b.WriteByte('/')
	b.WriteString(key)

	names := make([]string, 0, len(query))
	for name := range query {
		if _, ok := subresources[name]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return b.String()
	}
	sort.Strings(names)

	sep := byte('?')
	for _, name := range names {
		b.WriteByte(sep)
		sep = '&'
		b.WriteString(name)
		if v := query.Get(name); v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}
