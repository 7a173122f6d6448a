package signer

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noaccident/obsup/pkg/credentials"
)

var testTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestSigner(t *testing.T, creds credentials.Credentials) *Signer {
	t.Helper()
	sg, err := New("https://obs.eu-west-101.example.com", credentials.NewStore(creds))
	require.NoError(t, err)
	return sg
}

func signSHA1(secret, stringToSign string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestNew_Validation(t *testing.T) {
	store := credentials.NewStore(credentials.New("ak", "sk"))

	_, err := New("://bad", store)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New("ftp://host", store)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New("https://obs.example.com", nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSign_InvalidTarget(t *testing.T) {
	sg := newTestSigner(t, credentials.New("ak", "sk"))

	_, err := sg.Sign(SigningContext{Method: "PUT", Bucket: "", Key: "k"})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = sg.Sign(SigningContext{Method: "PUT", Bucket: "b", Key: ""})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = sg.Sign(SigningContext{Method: "PUT", Bucket: "b/c", Key: "k"})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestSign_KnownAnswer(t *testing.T) {
	sg := newTestSigner(t, credentials.New("AKID", "secret"))

	req, err := sg.Sign(SigningContext{
		Method:        "PUT",
		Bucket:        "logs",
		Key:           "2024/app.log",
		Timestamp:     testTime,
		ContentType:   "text/plain",
		ContentMD5:    "md5digest==",
		ContentLength: 11,
		ACL:           ACLPrivate,
	})
	require.NoError(t, err)

	// Assembled by hand from the documented string-to-sign layout.
	stringToSign := "PUT\n" +
		"md5digest==\n" +
		"text/plain\n" +
		"Fri, 01 Mar 2024 12:00:00 GMT\n" +
		"x-obs-acl:private\n" +
		"/logs/2024/app.log"
	want := "OBS AKID:" + signSHA1("secret", stringToSign)

	assert.Equal(t, want, req.Header.Get("Authorization"))
	assert.Equal(t, "Fri, 01 Mar 2024 12:00:00 GMT", req.Header.Get("Date"))
	assert.Equal(t, "logs.obs.eu-west-101.example.com", req.Header.Get("Host"))
	assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
	assert.Equal(t, "md5digest==", req.Header.Get("Content-MD5"))
	assert.Equal(t, "11", req.Header.Get("Content-Length"))

	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "https://logs.obs.eu-west-101.example.com/2024/app.log", req.URL.String())
}

func TestSign_Deterministic(t *testing.T) {
	sg := newTestSigner(t, credentials.New("ak", "sk"))

	sc := SigningContext{
		Method:    "PUT",
		Bucket:    "b",
		Key:       "k",
		Timestamp: testTime,
		Metadata:  map[string]string{"owner": "me", "team": "infra"},
		Query:     url.Values{"versionId": {"v1"}},
	}

	first, err := sg.Sign(sc)
	require.NoError(t, err)
	second, err := sg.Sign(sc)
	require.NoError(t, err)

	assert.Equal(t, first.Header.Get("Authorization"), second.Header.Get("Authorization"))
}

func TestSign_TemporaryCredentialsAddToken(t *testing.T) {
	perm := newTestSigner(t, credentials.New("ak", "sk"))
	temp := newTestSigner(t, credentials.NewTemporary("ak", "sk", "session-token"))

	sc := SigningContext{Method: "PUT", Bucket: "b", Key: "k", Timestamp: testTime}

	permReq, err := perm.Sign(sc)
	require.NoError(t, err)
	tempReq, err := temp.Sign(sc)
	require.NoError(t, err)

	assert.Empty(t, permReq.Header.Get("x-obs-security-token"))
	assert.Equal(t, "session-token", tempReq.Header.Get("x-obs-security-token"))

	// The token participates in canonicalization, so the signatures differ.
	assert.NotEqual(t,
		permReq.Header.Get("Authorization"),
		tempReq.Header.Get("Authorization"))
}

func TestSign_ReplaceAffectsOnlyLaterRequests(t *testing.T) {
	store := credentials.NewStore(credentials.New("old-ak", "old-sk"))
	sg, err := New("https://obs.example.com", store)
	require.NoError(t, err)

	sc := SigningContext{Method: "PUT", Bucket: "b", Key: "k", Timestamp: testTime}

	before, err := sg.Sign(sc)
	require.NoError(t, err)

	store.Replace(credentials.New("new-ak", "new-sk"))

	after, err := sg.Sign(sc)
	require.NoError(t, err)

	assert.Contains(t, before.Header.Get("Authorization"), "OBS old-ak:")
	assert.Contains(t, after.Header.Get("Authorization"), "OBS new-ak:")
}

func TestSign_SSEHeaders(t *testing.T) {
	sg := newTestSigner(t, credentials.New("ak", "sk"))

	t.Run("kms default key", func(t *testing.T) {
		req, err := sg.Sign(SigningContext{
			Method: "PUT", Bucket: "b", Key: "k", Timestamp: testTime,
			SSE: SSEKMS{},
		})
		require.NoError(t, err)
		assert.Equal(t, "kms", req.Header.Get("x-obs-server-side-encryption"))
		assert.Empty(t, req.Header.Get("x-obs-server-side-encryption-kms-key-id"))
	})

	t.Run("kms explicit key", func(t *testing.T) {
		req, err := sg.Sign(SigningContext{
			Method: "PUT", Bucket: "b", Key: "k", Timestamp: testTime,
			SSE: SSEKMS{KeyID: "key-1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "key-1", req.Header.Get("x-obs-server-side-encryption-kms-key-id"))
	})

	t.Run("customer key", func(t *testing.T) {
		key := []byte("0123456789abcdef0123456789abcdef")
		req, err := sg.Sign(SigningContext{
			Method: "PUT", Bucket: "b", Key: "k", Timestamp: testTime,
			SSE: SSECustomer{Key: key},
		})
		require.NoError(t, err)
		assert.Equal(t, "AES256", req.Header.Get("x-obs-server-side-encryption-customer-algorithm"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(key),
			req.Header.Get("x-obs-server-side-encryption-customer-key"))
		assert.NotEmpty(t, req.Header.Get("x-obs-server-side-encryption-customer-key-md5"))
	})
}

func TestSign_MetadataHeaders(t *testing.T) {
	sg := newTestSigner(t, credentials.New("ak", "sk"))

	req, err := sg.Sign(SigningContext{
		Method: "PUT", Bucket: "b", Key: "k", Timestamp: testTime,
		Metadata: map[string]string{"owner": "me"},
	})
	require.NoError(t, err)
	assert.Equal(t, "me", req.Header.Get("x-obs-meta-owner"))
}

func TestSign_KeyIsPercentEncodedOnWire(t *testing.T) {
	sg := newTestSigner(t, credentials.New("ak", "sk"))

	req, err := sg.Sign(SigningContext{
		Method: "PUT", Bucket: "b", Key: "dir/file with space.txt", Timestamp: testTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "/dir/file%20with%20space.txt", req.URL.EscapedPath())
}
