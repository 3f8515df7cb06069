package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaki95/setlist-sync/internal/domain"
	"github.com/jaki95/setlist-sync/internal/library"
)

// statusFor maps a sync failure onto an HTTP status.
func statusFor(err error) int {
	var syncErr *domain.SyncError
	switch {
	case errors.Is(err, library.ErrSetlistNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidFormat), errors.Is(err, domain.ErrDecompressionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTransport):
		return http.StatusGatewayTimeout
	case errors.As(err, &syncErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var syncErr *domain.SyncError
	if errors.As(err, &syncErr) {
		resp.Kind = string(syncErr.Kind)
	}

	slog.Warn("Request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	c.JSON(status, resp)
}
