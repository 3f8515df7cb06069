package blobstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jaki95/setlist-sync/internal/domain"
)

// SignRequest carries every request field that enters the shared-key string-to-sign.
type SignRequest struct {
	Method        string
	ContentLength int64
	ContentType   string
	// CanonicalHeaders is the newline-joined "name:value" block of x-ms-* headers.
	CanonicalHeaders string
	// CanonicalResource is "/<account>/<container>[/<blob>]" plus sorted query lines.
	CanonicalResource string
}

// Signer produces SharedKey authorization headers for one storage account.
type Signer struct {
	account string
	key     string
}

// NewSigner creates a signer. The key is the base64 account key; it is decoded
// on every Sign so a bad key surfaces as an authentication failure per request.
func NewSigner(account, key string) *Signer {
	return &Signer{account: account, key: key}
}

// StringToSign renders the fixed 14-line canonical string.
func (s *Signer) StringToSign(r SignRequest) string {
	length := ""
	if r.ContentLength > 0 {
		length = strconv.FormatInt(r.ContentLength, 10)
	}

	lines := []string{
		r.Method,
		"", // Content-Encoding
		"", // Content-Language
		length,
		"", // Content-MD5
		r.ContentType,
		"", // Date (x-ms-date is used instead)
		"", // If-Modified-Since
		"", // If-Match
		"", // If-None-Match
		"", // If-Unmodified-Since
		"", // Range
		r.CanonicalHeaders,
		r.CanonicalResource,
	}
	return strings.Join(lines, "\n")
}

// Sign returns "SharedKey <account>:<signature>".
func (s *Signer) Sign(r SignRequest) (string, error) {
	key, err := base64.StdEncoding.DecodeString(s.key)
	if err != nil {
		return "", &domain.SyncError{Kind: domain.KindAuthenticationFailed, Err: fmt.Errorf("decoding account key: %w", err)}
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(s.StringToSign(r)))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("SharedKey %s:%s", s.account, signature), nil
}

// CanonicalHeaders builds the x-ms-* header block: lowercase names, sorted,
// values trimmed.
func CanonicalHeaders(h http.Header) string {
	var names []string
	values := make(map[string]string)
	for name, vals := range h {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, "x-ms-") {
			continue
		}
		names = append(names, lower)
		values[lower] = strings.TrimSpace(strings.Join(vals, ","))
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + values[name]
	}
	return strings.Join(parts, "\n")
}

// CanonicalResource builds "/<account><escapedPath>" followed by one
// "\n<name>:<values>" line per query parameter, sorted by name.
func CanonicalResource(account, escapedPath string, query url.Values) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(account)
	b.WriteString(escapedPath)

	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		vals := append([]string(nil), query[name]...)
		sort.Strings(vals)
		b.WriteString("\n")
		b.WriteString(strings.ToLower(name))
		b.WriteString(":")
		b.WriteString(strings.Join(vals, ","))
	}
	return b.String()
}
