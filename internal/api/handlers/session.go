package handlers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/specplot/internal/export"
	"github.com/RMahshie/specplot/internal/processing"
	"github.com/RMahshie/specplot/pkg/models"
)

// SessionHandler handles session, upload and export requests
type SessionHandler struct {
	svc            processing.Service
	maxUploadBytes int64
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc processing.Service, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// CreateSession starts an empty session
func (h *SessionHandler) CreateSession(ctx context.Context, _ *struct{}) (*models.CreateSessionResponse, error) {
	session, err := h.svc.CreateSession(ctx)
	if err != nil {
		return nil, toHTTPError(err, "create session")
	}
	resp := &models.CreateSessionResponse{}
	resp.Body.ID = session.ID
	resp.Body.CreatedAt = session.CreatedAt
	return resp, nil
}

// UploadFiles replaces the session's tables with the uploaded files
func (h *SessionHandler) UploadFiles(ctx context.Context, req *models.UploadFilesRequest) (*models.TablesResponse, error) {
	headers := req.RawBody.File["files"]
	if len(headers) == 0 {
		return nil, huma.Error400BadRequest("No files provided. Attach one or more files under the \"files\" field.")
	}

	var total int64
	for _, fh := range headers {
		total += fh.Size
	}
	if h.maxUploadBytes > 0 && total > h.maxUploadBytes {
		return nil, huma.NewError(http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload too large: %d bytes exceeds the %d byte limit", total, h.maxUploadBytes))
	}

	uploads := make([]processing.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, huma.Error400BadRequest("Failed to read uploaded file "+fh.Filename, err)
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		uploads = append(uploads, processing.Upload{Name: fh.Filename, Reader: f})
	}

	log.Info().Str("session_id", req.ID).Int("files", len(uploads)).Int64("bytes", total).Msg("Upload received")
	summaries, err := h.svc.LoadUploads(ctx, req.ID, uploads)
	if err != nil {
		return nil, toHTTPError(err, "load files")
	}

	resp := &models.TablesResponse{}
	resp.Body.ID = req.ID
	resp.Body.Tables = summaries
	return resp, nil
}

// ListTables returns a summary per loaded table
func (h *SessionHandler) ListTables(ctx context.Context, req *models.SessionRequest) (*models.TablesResponse, error) {
	summaries, err := h.svc.Tables(ctx, req.ID)
	if err != nil {
		return nil, toHTTPError(err, "list tables")
	}
	resp := &models.TablesResponse{}
	resp.Body.ID = req.ID
	resp.Body.Tables = summaries
	return resp, nil
}

// ExportXLSX returns every table as one workbook
func (h *SessionHandler) ExportXLSX(ctx context.Context, req *models.SessionRequest) (*models.FileResponse, error) {
	data, err := h.svc.Export(ctx, req.ID)
	if err != nil {
		return nil, toHTTPError(err, "export tables")
	}
	return &models.FileResponse{
		ContentType:        export.ContentTypeXLSX,
		ContentDisposition: `attachment; filename="spectra.xlsx"`,
		Body:               data,
	}, nil
}

// DeleteSession drops a session and its tables
func (h *SessionHandler) DeleteSession(ctx context.Context, req *models.SessionRequest) (*struct{}, error) {
	if err := h.svc.DeleteSession(ctx, req.ID); err != nil {
		return nil, toHTTPError(err, "delete session")
	}
	return nil, nil
}
