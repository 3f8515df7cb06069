package blobstore

import (
	"net/url"
	"strings"
)

var blobNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "?", "_", "#", "_")

// SanitizeBlobName replaces characters that would change the meaning of a
// blob URL with underscores. Apply it before uploading.
func SanitizeBlobName(name string) string {
	return blobNameReplacer.Replace(name)
}

// EncodeBlobName percent-encodes a blob name for the request path. The same
// encoded form goes into the signed canonical resource.
func EncodeBlobName(name string) string {
	return url.PathEscape(name)
}
