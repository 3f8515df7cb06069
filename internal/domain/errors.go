package domain

import (
	"fmt"
)

// ErrorKind classifies a SyncError.
type ErrorKind string

const (
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindContainer            ErrorKind = "container"
	KindList                 ErrorKind = "list"
	KindDownload             ErrorKind = "download"
	KindUpload               ErrorKind = "upload"
	KindDelete               ErrorKind = "delete"
	KindInvalidFormat        ErrorKind = "invalid_format"
	KindDecompressionFailed  ErrorKind = "decompression_failed"
	KindTransport            ErrorKind = "transport"
)

// Format stages reported by invalid format errors.
const (
	StageOuterArchive = "outer archive"
	StageInnerArchive = "inner archive"
	StageJSON         = "json"
)

// SyncError is the typed failure surfaced by every sync operation.
type SyncError struct {
	Kind   ErrorKind
	Status int    // HTTP status for remote failures
	Body   string // response body, when the server sent one
	Stage  string // format stage for invalid format errors
	Err    error
}

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrAuthenticationFailed = &SyncError{Kind: KindAuthenticationFailed}
	ErrContainer            = &SyncError{Kind: KindContainer}
	ErrList                 = &SyncError{Kind: KindList}
	ErrDownload             = &SyncError{Kind: KindDownload}
	ErrUpload               = &SyncError{Kind: KindUpload}
	ErrDelete               = &SyncError{Kind: KindDelete}
	ErrInvalidFormat        = &SyncError{Kind: KindInvalidFormat}
	ErrDecompressionFailed  = &SyncError{Kind: KindDecompressionFailed}
	ErrTransport            = &SyncError{Kind: KindTransport}
)

func (e *SyncError) Error() string {
	msg := string(e.Kind)
	switch {
	case e.Stage != "":
		msg = fmt.Sprintf("%s (%s)", msg, e.Stage)
	case e.Status != 0:
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is matches any SyncError of the same kind.
func (e *SyncError) Is(target error) bool {
	if t, ok := target.(*SyncError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewStatusError builds a remote failure carrying the HTTP status and body.
func NewStatusError(kind ErrorKind, status int, body string) *SyncError {
	return &SyncError{Kind: kind, Status: status, Body: body}
}

// NewInvalidFormat reports a payload that could not be decoded at stage.
func NewInvalidFormat(stage string, cause error) *SyncError {
	return &SyncError{Kind: KindInvalidFormat, Stage: stage, Err: cause}
}

// NewTransportError wraps a network-layer failure (timeout, connection loss).
func NewTransportError(cause error) *SyncError {
	return &SyncError{Kind: KindTransport, Err: cause}
}
