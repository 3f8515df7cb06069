package blobstore

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// parseBlobList extracts blob names, in document order, and the continuation
// marker from an EnumerationResults document.
func parseBlobList(data []byte) ([]string, string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, "", fmt.Errorf("parsing blob list: %w", err)
	}

	root := xmlquery.FindOne(doc, "/EnumerationResults")
	if root == nil {
		return nil, "", fmt.Errorf("parsing blob list: missing EnumerationResults")
	}

	var names []string
	for _, node := range xmlquery.Find(root, "Blobs/Blob/Name") {
		names = append(names, node.InnerText())
	}

	marker := ""
	if node := xmlquery.FindOne(root, "NextMarker"); node != nil {
		marker = strings.TrimSpace(node.InnerText())
	}
	return names, marker, nil
}
