package uploader

import (
	"crypto/md5" //nolint:gosec // Content-MD5 is defined over MD5
	"encoding/base64"
	"io"
	"os"
)

// ContentMD5 returns the Base64 MD5 digest of an in-memory body, suitable
// for PutInput.ContentMD5.
func ContentMD5(body []byte) string {
	sum := md5.Sum(body) //nolint:gosec
	return base64.StdEncoding.EncodeToString(sum[:])
}

// FileContentMD5 computes the Base64 MD5 digest of the file at path by
// streaming it from disk.
func FileContentMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &FileAccessError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	h := md5.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return "", &FileAccessError{Path: path, Err: err}
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
