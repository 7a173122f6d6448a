package signer

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizedHeaders(t *testing.T) {
	tests := []struct {
		name string
		set  func(h http.Header)
		want string
	}{
		{
			name: "empty set renders empty string",
			set:  func(h http.Header) {},
			want: "",
		},
		{
			name: "non-prefixed headers are excluded",
			set: func(h http.Header) {
				h.Set("Content-Type", "text/plain")
				h.Set("Date", "whenever")
			},
			want: "",
		},
		{
			name: "keys lowercased and sorted",
			set: func(h http.Header) {
				h.Set("x-obs-storage-class", "COLD")
				h.Set("X-Obs-Acl", "private")
				h.Set("x-obs-meta-owner", "me")
			},
			want: "x-obs-acl:private\nx-obs-meta-owner:me\nx-obs-storage-class:COLD\n",
		},
		{
			name: "values trimmed",
			set: func(h http.Header) {
				h.Set("x-obs-acl", "  private\t")
			},
			want: "x-obs-acl:private\n",
		},
		{
			name: "repeated header values joined with comma",
			set: func(h http.Header) {
				h.Add("x-obs-meta-tag", "a")
				h.Add("x-obs-meta-tag", " b")
			},
			want: "x-obs-meta-tag:a,b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := make(http.Header)
			tt.set(h)
			assert.Equal(t, tt.want, canonicalizedHeaders(h))
		})
	}
}

func TestCanonicalizedHeaders_OrderIndependent(t *testing.T) {
	first := make(http.Header)
	first.Set("x-obs-acl", "private")
	first.Set("x-obs-meta-a", "1")
	first.Set("x-obs-meta-b", "2")

	second := make(http.Header)
	second.Set("x-obs-meta-b", "2")
	second.Set("X-OBS-META-A", "1")
	second.Set("X-Obs-Acl", " private ")

	assert.Equal(t, canonicalizedHeaders(first), canonicalizedHeaders(second))
}

func TestCanonicalizedResource(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
		key    string
		query  url.Values
		want   string
	}{
		{
			name:   "no query",
			bucket: "b",
			key:    "dir/file.txt",
			want:   "/b/dir/file.txt",
		},
		{
			name:   "non-whitelisted parameters dropped",
			bucket: "b",
			key:    "k",
			query:  url.Values{"foo": {"1"}, "prefix": {"x"}},
			want:   "/b/k",
		},
		{
			name:   "whitelisted parameters sorted by name",
			bucket: "b",
			key:    "k",
			query:  url.Values{"versionId": {"v1"}, "acl": {""}, "partNumber": {"7"}},
			want:   "/b/k?acl&partNumber=7&versionId=v1",
		},
		{
			name:   "bare parameter preserved without equals",
			bucket: "b",
			key:    "k",
			query:  url.Values{"uploads": {""}},
			want:   "/b/k?uploads",
		},
		{
			name:   "mixed signed and unsigned",
			bucket: "b",
			key:    "k",
			query:  url.Values{"uploadId": {"u"}, "tracking": {"nope"}},
			want:   "/b/k?uploadId=u",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizedResource(tt.bucket, tt.key, tt.query))
		})
	}
}
