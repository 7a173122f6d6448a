package uploader

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noaccident/obsup/pkg/transport"
)

func TestMapResponse(t *testing.T) {
	h := make(http.Header)
	h.Set("ETag", `"9bb58f26192e4ba00f01e2e7b136bbd8"`)
	h.Set("x-obs-version-id", "v42")
	h.Set("x-obs-storage-class", "WARM")
	h.Set("x-obs-server-side-encryption", "kms")

	result := mapResponse(&transport.Response{StatusCode: 200, Header: h})

	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "9bb58f26192e4ba00f01e2e7b136bbd8", result.ETag)
	assert.Equal(t, "v42", result.VersionID)
	assert.Equal(t, "WARM", result.StorageClass)
	assert.Equal(t, "kms", result.SSEAlgorithm)
}

func TestMapResponse_AbsentHeaders(t *testing.T) {
	result := mapResponse(&transport.Response{StatusCode: 201, Header: make(http.Header)})

	assert.Equal(t, 201, result.StatusCode)
	assert.Empty(t, result.ETag)
	assert.Empty(t, result.VersionID)
	assert.Empty(t, result.StorageClass)
	assert.Empty(t, result.SSEAlgorithm)
}

func TestMapResponse_UnquotedETag(t *testing.T) {
	h := make(http.Header)
	h.Set("ETag", "bare-etag")
	assert.Equal(t, "bare-etag", mapResponse(&transport.Response{StatusCode: 200, Header: h}).ETag)
}
