package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listLegacy godoc
// @Summary List legacy songlists
// @Tags Legacy
// @Produce json
// @Success 200 {object} ItemsResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/legacy [get]
func (s *Server) listLegacy(c *gin.Context) {
	names, err := s.svc.ListLegacyItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ItemsResponse{Items: nonNil(names)})
}

// previewLegacy godoc
// @Summary Decode a legacy songlist without importing it
// @Tags Legacy
// @Produce json
// @Param name path string true "Blob name"
// @Success 200 {object} LegacyPreviewResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/legacy/{name} [get]
func (s *Server) previewLegacy(c *gin.Context) {
	setlist, err := s.svc.PreviewLegacyItem(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLegacyPreview(setlist))
}

// importLegacy godoc
// @Summary Import a legacy songlist into the local library
// @Tags Legacy
// @Produce json
// @Param name path string true "Blob name"
// @Success 200 {object} ImportResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/legacy/{name}/import [post]
func (s *Server) importLegacy(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := s.svc.PreviewLegacyItem(ctx, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	setlist, report, err := s.svc.ImportLegacyItem(ctx, item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImportResponse{Setlist: setlist, Report: report})
}

// listRemote godoc
// @Summary List uploaded setlists
// @Tags Remote
// @Produce json
// @Success 200 {object} ItemsResponse
// @Router /api/v1/remote [get]
func (s *Server) listRemote(c *gin.Context) {
	names, err := s.svc.ListCurrentItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ItemsResponse{Items: nonNil(names)})
}

// importRemote godoc
// @Summary Download an uploaded setlist and import it
// @Tags Remote
// @Produce json
// @Param name path string true "Blob name"
// @Success 200 {object} ImportResponse
// @Router /api/v1/remote/{name}/import [post]
func (s *Server) importRemote(c *gin.Context) {
	setlist, report, err := s.svc.DownloadAndImportCurrentItem(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImportResponse{Setlist: setlist, Report: report})
}

// deleteRemote godoc
// @Summary Delete an uploaded setlist
// @Tags Remote
// @Produce json
// @Param name path string true "Blob name"
// @Success 200 {object} MessageResponse
// @Router /api/v1/remote/{name} [delete]
func (s *Server) deleteRemote(c *gin.Context) {
	name := c.Param("name")
	if err := s.svc.DeleteCurrentItem(c.Request.Context(), name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Deleted " + name})
}

// uploadSetlist godoc
// @Summary Upload a local setlist
// @Tags Setlists
// @Produce json
// @Param id path string true "Setlist ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/setlists/{id}/upload [post]
func (s *Server) uploadSetlist(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.UploadSetlistByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Uploaded setlist " + id})
}

// getProgress godoc
// @Summary Upload and download progress
// @Tags Utility
// @Produce json
// @Success 200 {object} ProgressResponse
// @Router /api/v1/progress [get]
func (s *Server) getProgress(c *gin.Context) {
	c.JSON(http.StatusOK, ProgressResponse{
		Upload:   s.svc.UploadProgress().Snapshot(),
		Download: s.svc.DownloadProgress().Snapshot(),
	})
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
