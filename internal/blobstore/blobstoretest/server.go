// Package blobstoretest provides an in-memory blob service that checks
// shared-key signatures the way the real service does.
package blobstoretest

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jaki95/setlist-sync/internal/blobstore"
)

const (
	Account = "devaccount"
	secret  = "blobstoretest-secret-key"
)

// Key is the base64 account key accepted by the server.
var Key = base64.StdEncoding.EncodeToString([]byte(secret))

// Server is a fake blob service backed by maps.
type Server struct {
	*httptest.Server

	// PageSize limits names per list response; 0 returns everything at once.
	PageSize int

	mu         sync.Mutex
	containers map[string]map[string][]byte
	failures   map[string]int
	blobFails  map[string]int
	requests   []string
	signer     *blobstore.Signer
}

// NewServer starts a fake blob service. Close it when done.
func NewServer() *Server {
	s := &Server{
		containers: make(map[string]map[string][]byte),
		failures:   make(map[string]int),
		blobFails:  make(map[string]int),
		signer:     blobstore.NewSigner(Account, Key),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Config returns client settings pointing at this server.
func (s *Server) Config() blobstore.Config {
	return blobstore.Config{
		Account:    Account,
		AccountKey: Key,
		Endpoint:   s.URL,
		HTTPClient: s.Client(),
	}
}

// FailNext makes the next request with the given method answer status.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = status
}

// FailNextBlob is FailNext restricted to blob requests, so that container
// requests with the same method still succeed.
func (s *Server) FailNextBlob(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobFails[method] = status
}

// Seed stores a blob directly, creating the container if needed.
func (s *Server) Seed(container, name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.containers[container] == nil {
		s.containers[container] = make(map[string][]byte)
	}
	s.containers[container][name] = append([]byte(nil), data...)
}

// Blob returns a stored blob.
func (s *Server) Blob(container, name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.containers[container][name]
	return data, ok
}

// HasContainer reports whether the container exists.
func (s *Server) HasContainer(container string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.containers[container]
	return ok
}

// Requests returns "METHOD path" for every request received.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, r.Method+" "+r.URL.EscapedPath())

	if !s.authorized(r, body) {
		writeError(w, http.StatusForbidden, "AuthenticationFailed")
		return
	}

	if status, ok := s.failures[r.Method]; ok {
		delete(s.failures, r.Method)
		writeError(w, status, "InjectedFailure")
		return
	}

	container, blob := splitPath(r.URL.Path)
	query := r.URL.Query()

	if status, ok := s.blobFails[r.Method]; ok && blob != "" {
		delete(s.blobFails, r.Method)
		writeError(w, status, "InjectedFailure")
		return
	}

	switch {
	case blob == "" && r.Method == http.MethodPut && query.Get("restype") == "container":
		s.createContainer(w, container)
	case blob == "" && r.Method == http.MethodGet && query.Get("comp") == "list":
		s.list(w, container, query.Get("marker"))
	case blob != "" && r.Method == http.MethodGet:
		s.get(w, container, blob)
	case blob != "" && r.Method == http.MethodPut:
		s.put(w, r, container, blob, body)
	case blob != "" && r.Method == http.MethodDelete:
		s.delete(w, container, blob)
	default:
		writeError(w, http.StatusBadRequest, "UnsupportedOperation")
	}
}

func (s *Server) authorized(r *http.Request, body []byte) bool {
	if r.Header.Get("x-ms-date") == "" || r.Header.Get("x-ms-version") == "" {
		return false
	}

	expected, err := s.signer.Sign(blobstore.SignRequest{
		Method:            r.Method,
		ContentLength:     int64(len(body)),
		ContentType:       r.Header.Get("Content-Type"),
		CanonicalHeaders:  blobstore.CanonicalHeaders(r.Header),
		CanonicalResource: blobstore.CanonicalResource(Account, r.URL.EscapedPath(), r.URL.Query()),
	})
	if err != nil {
		return false
	}
	return r.Header.Get("Authorization") == expected
}

func (s *Server) createContainer(w http.ResponseWriter, container string) {
	if _, ok := s.containers[container]; ok {
		writeError(w, http.StatusConflict, "ContainerAlreadyExists")
		return
	}
	s.containers[container] = make(map[string][]byte)
	w.WriteHeader(http.StatusCreated)
}

type enumerationResults struct {
	XMLName    xml.Name `xml:"EnumerationResults"`
	Blobs      []string `xml:"Blobs>Blob>Name"`
	NextMarker string   `xml:"NextMarker"`
}

func (s *Server) list(w http.ResponseWriter, container, marker string) {
	blobs, ok := s.containers[container]
	if !ok {
		writeError(w, http.StatusNotFound, "ContainerNotFound")
		return
	}

	names := make([]string, 0, len(blobs))
	for name := range blobs {
		names = append(names, name)
	}
	sort.Strings(names)

	start := 0
	if marker != "" {
		n, err := strconv.Atoi(marker)
		if err != nil || n < 0 || n > len(names) {
			writeError(w, http.StatusBadRequest, "InvalidMarker")
			return
		}
		start = n
	}

	result := enumerationResults{Blobs: names[start:]}
	if s.PageSize > 0 && len(names)-start > s.PageSize {
		result.Blobs = names[start : start+s.PageSize]
		result.NextMarker = strconv.Itoa(start + s.PageSize)
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, xml.Header)
	_ = xml.NewEncoder(w).Encode(result)
}

func (s *Server) get(w http.ResponseWriter, container, blob string) {
	data, ok := s.containers[container][blob]
	if !ok {
		writeError(w, http.StatusNotFound, "BlobNotFound")
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) put(w http.ResponseWriter, r *http.Request, container, blob string, body []byte) {
	if r.Header.Get("x-ms-blob-type") != "BlockBlob" {
		writeError(w, http.StatusBadRequest, "MissingRequiredHeader")
		return
	}
	blobs, ok := s.containers[container]
	if !ok {
		writeError(w, http.StatusNotFound, "ContainerNotFound")
		return
	}
	blobs[blob] = body
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) delete(w http.ResponseWriter, container, blob string) {
	if _, ok := s.containers[container][blob]; !ok {
		writeError(w, http.StatusNotFound, "BlobNotFound")
		return
	}
	delete(s.containers[container], blob)
	w.WriteHeader(http.StatusAccepted)
}

func splitPath(path string) (container, blob string) {
	path = strings.TrimPrefix(path, "/")
	container, blob, _ = strings.Cut(path, "/")
	return container, blob
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"utf-8\"?><Error><Code>%s</Code></Error>", code)
}
