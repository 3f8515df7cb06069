package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jaki95/setlist-sync/internal/domain"
)

const (
	// DefaultAPIVersion is sent as x-ms-version and signed with every request.
	DefaultAPIVersion = "2019-12-12"

	defaultTimeout = 60 * time.Second

	// Error bodies are kept for diagnostics only.
	maxErrorBody = 4096
)

// Config configures a Client.
type Config struct {
	Account    string
	AccountKey string
	// Endpoint defaults to https://<account>.blob.core.windows.net.
	Endpoint   string
	APIVersion string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the object storage REST API, signing every request with
// the account's shared key.
type Client struct {
	endpoint   string
	account    string
	apiVersion string
	signer     *Signer
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a blob store client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Account == "" {
		return nil, fmt.Errorf("storage account is required")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", cfg.Account)
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:   endpoint,
		account:    cfg.Account,
		apiVersion: apiVersion,
		signer:     NewSigner(cfg.Account, cfg.AccountKey),
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

// request describes one REST call before signing.
type request struct {
	method      string
	container   string
	blob        string // already encoded; empty for container operations
	query       url.Values
	body        []byte
	contentType string
	headers     map[string]string
}

func (r request) escapedPath() string {
	path := "/" + r.container
	if r.blob != "" {
		path += "/" + r.blob
	}
	return path
}

// EnsureContainer creates the container. An existing container is not an error.
func (c *Client) EnsureContainer(ctx context.Context, container string) error {
	resp, err := c.do(ctx, request{
		method:    http.MethodPut,
		container: container,
		query:     url.Values{"restype": {"container"}},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusConflict:
		return nil
	default:
		return domain.NewStatusError(domain.KindContainer, resp.StatusCode, "")
	}
}

// ListBlobs returns the names of all blobs in the container in server order,
// following continuation markers.
func (c *Client) ListBlobs(ctx context.Context, container string) ([]string, error) {
	var names []string
	marker := ""

	for {
		query := url.Values{"restype": {"container"}, "comp": {"list"}}
		if marker != "" {
			query.Set("marker", marker)
		}

		resp, err := c.do(ctx, request{method: http.MethodGet, container: container, query: query})
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, domain.NewStatusError(domain.KindList, resp.StatusCode, "")
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, domain.NewTransportError(fmt.Errorf("reading blob list: %w", err))
		}

		page, next, err := parseBlobList(data)
		if err != nil {
			return nil, &domain.SyncError{Kind: domain.KindList, Status: resp.StatusCode, Err: err}
		}
		names = append(names, page...)

		if next == "" {
			return names, nil
		}
		marker = next
	}
}

// GetBlob downloads a blob.
func (c *Client) GetBlob(ctx context.Context, container, name string) ([]byte, error) {
	resp, err := c.do(ctx, request{
		method:    http.MethodGet,
		container: container,
		blob:      EncodeBlobName(name),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewStatusError(domain.KindDownload, resp.StatusCode, readErrorBody(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("reading blob %s: %w", name, err))
	}
	return data, nil
}

// PutBlob uploads data as a block blob, replacing any existing blob of that name.
func (c *Client) PutBlob(ctx context.Context, container, name string, data []byte, contentType string) error {
	resp, err := c.do(ctx, request{
		method:      http.MethodPut,
		container:   container,
		blob:        EncodeBlobName(name),
		body:        data,
		contentType: contentType,
		headers:     map[string]string{"x-ms-blob-type": "BlockBlob"},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return domain.NewStatusError(domain.KindUpload, resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// DeleteBlob removes a blob.
func (c *Client) DeleteBlob(ctx context.Context, container, name string) error {
	resp, err := c.do(ctx, request{
		method:    http.MethodDelete,
		container: container,
		blob:      EncodeBlobName(name),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return domain.NewStatusError(domain.KindDelete, resp.StatusCode, "")
	}
	return nil
}

// do signs and sends r. The caller closes the response body.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	path := r.escapedPath()
	target := c.endpoint + path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if len(r.body) > 0 {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-ms-date", c.now().UTC().Format(http.TimeFormat))
	req.Header.Set("x-ms-version", c.apiVersion)
	for name, value := range r.headers {
		req.Header.Set(name, value)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Cache-Control", "no-cache")

	authorization, err := c.signer.Sign(SignRequest{
		Method:            r.method,
		ContentLength:     int64(len(r.body)),
		ContentType:       r.contentType,
		CanonicalHeaders:  CanonicalHeaders(req.Header),
		CanonicalResource: CanonicalResource(c.account, path, r.query),
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authorization)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(err)
	}

	slog.Debug("Blob store request", "method", r.method, "container", r.container, "blob", r.blob, "status", resp.StatusCode)
	return resp, nil
}

func readErrorBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(data))
}
