package blobstore_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/setlist-sync/internal/blobstore"
	"github.com/jaki95/setlist-sync/internal/domain"
)

func TestStringToSign(t *testing.T) {
	signer := blobstore.NewSigner("acct", base64.StdEncoding.EncodeToString([]byte("k")))

	got := signer.StringToSign(blobstore.SignRequest{
		Method:            "PUT",
		ContentLength:     11,
		ContentType:       "application/json",
		CanonicalHeaders:  "x-ms-blob-type:BlockBlob\nx-ms-date:Mon, 01 Jan 2024 00:00:00 GMT\nx-ms-version:2019-12-12",
		CanonicalResource: "/acct/setlists/Gig.json",
	})

	want := "PUT\n\n\n11\n\napplication/json\n\n\n\n\n\n\n" +
		"x-ms-blob-type:BlockBlob\nx-ms-date:Mon, 01 Jan 2024 00:00:00 GMT\nx-ms-version:2019-12-12\n" +
		"/acct/setlists/Gig.json"
	assert.Equal(t, want, got)
}

func TestStringToSignZeroLength(t *testing.T) {
	signer := blobstore.NewSigner("acct", "")

	got := signer.StringToSign(blobstore.SignRequest{
		Method:            "GET",
		CanonicalHeaders:  "x-ms-date:d\nx-ms-version:v",
		CanonicalResource: "/acct/c\ncomp:list\nrestype:container",
	})

	assert.Equal(t, "GET\n\n\n\n\n\n\n\n\n\n\n\nx-ms-date:d\nx-ms-version:v\n/acct/c\ncomp:list\nrestype:container", got)
}

func TestSign(t *testing.T) {
	key := []byte("super-secret")
	signer := blobstore.NewSigner("acct", base64.StdEncoding.EncodeToString(key))
	req := blobstore.SignRequest{
		Method:            "GET",
		CanonicalHeaders:  "x-ms-date:Mon, 01 Jan 2024 00:00:00 GMT\nx-ms-version:2019-12-12",
		CanonicalResource: "/acct/songlists/a.dat",
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("GET\n\n\n\n\n\n\n\n\n\n\n\nx-ms-date:Mon, 01 Jan 2024 00:00:00 GMT\nx-ms-version:2019-12-12\n/acct/songlists/a.dat"))
	want := "SharedKey acct:" + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	got, err := signer.Sign(req)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	again, err := signer.Sign(req)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSignInvalidKey(t *testing.T) {
	signer := blobstore.NewSigner("acct", "not base64!!")

	_, err := signer.Sign(blobstore.SignRequest{Method: "GET"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
}

func TestCanonicalHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-Ms-Version", "2019-12-12")
	h.Set("x-ms-date", " Mon, 01 Jan 2024 00:00:00 GMT ")
	h.Set("x-ms-blob-type", "BlockBlob")
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-cache")

	assert.Equal(t,
		"x-ms-blob-type:BlockBlob\nx-ms-date:Mon, 01 Jan 2024 00:00:00 GMT\nx-ms-version:2019-12-12",
		blobstore.CanonicalHeaders(h))
	assert.Empty(t, blobstore.CanonicalHeaders(http.Header{}))
}

func TestCanonicalResource(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		query url.Values
		want  string
	}{
		{
			name: "blob",
			path: "/setlists/My%20Gig.json",
			want: "/acct/setlists/My%20Gig.json",
		},
		{
			name:  "container create",
			path:  "/setlists",
			query: url.Values{"restype": {"container"}},
			want:  "/acct/setlists\nrestype:container",
		},
		{
			name:  "list sorted by name",
			path:  "/songlists",
			query: url.Values{"restype": {"container"}, "comp": {"list"}, "marker": {"2"}},
			want:  "/acct/songlists\ncomp:list\nmarker:2\nrestype:container",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blobstore.CanonicalResource("acct", tt.path, tt.query))
		})
	}
}

func TestBlobNames(t *testing.T) {
	assert.Equal(t, "AC_DC_Live_1_2.json", blobstore.SanitizeBlobName("AC/DC\\Live?1#2.json"))
	assert.Equal(t, "Sunday Service", blobstore.SanitizeBlobName("Sunday Service"))
	assert.Equal(t, "Sunday%20Service.json", blobstore.EncodeBlobName("Sunday Service.json"))
	assert.Equal(t, "a%2Fb", blobstore.EncodeBlobName("a/b"))
}
