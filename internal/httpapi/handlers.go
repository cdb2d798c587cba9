package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orceu/orceu-api-saas/internal/importer"
	"github.com/orceu/orceu-api-saas/internal/logging"
	"github.com/orceu/orceu-api-saas/pkg/orcamento"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/output"
)

// TenantHeader carries the tenant id of a request.
const TenantHeader = "X-Tenant-ID"

const (
	msgAnalyticsAccepted = "Arquivo Excel recebido e enfileirado para importação."
	msgMarkdownGenerated = "Markdown gerado."
)

// AnalyticsResponse is returned by the analytics import.
type AnalyticsResponse struct {
	ImportID     string           `json:"import_id"`
	Message      string           `json:"message"`
	EstimateData *models.Estimate `json:"estimate_data"`
}

// MarkdownResponse is returned by the Markdown import.
type MarkdownResponse struct {
	ImportID    string `json:"import_id"`
	Mode        string `json:"mode"`
	EngineUsed  string `json:"engine_used"`
	Message     string `json:"message"`
	Markdown    string `json:"markdown"`
	DownloadURL string `json:"download_url"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Uploads importer.LimiterStatus `json:"uploads"`
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer cleanup()

	res, err := s.svc.ImportAnalytics(r.Context(), up)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusAccepted, AnalyticsResponse{
		ImportID:     res.ImportID,
		Message:      msgAnalyticsAccepted,
		EstimateData: res.Estimate,
	})
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	mode, err := orcamento.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	up, cleanup, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer cleanup()

	res, err := s.svc.ImportMarkdown(r.Context(), up, mode)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, MarkdownResponse{
		ImportID:    res.ImportID,
		Mode:        string(res.Mode),
		EngineUsed:  res.Engine,
		Message:     msgMarkdownGenerated,
		Markdown:    res.Markdown,
		DownloadURL: downloadURL(r, res.ImportID),
	})
}

func (s *Server) handleMarkdownDownload(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")

	path, err := s.svc.MarkdownPath(importID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="orcamento_%s.md"`, importID))
	http.ServeFile(w, r, path)
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Get(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Uploads: s.svc.LimiterStatus(),
	})
}

// readUpload extracts the "file" part of a multipart request. The returned
// cleanup closes the part and removes temporary form files.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (importer.Upload, func(), error) {
	if s.opts.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxFileSize+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return importer.Upload{}, nil, importer.ErrFileTooLarge
		}
		return importer.Upload{}, nil, fmt.Errorf("%w: %v", errBadMultipart, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		if errors.Is(err, http.ErrMissingFile) {
			return importer.Upload{}, nil, errMissingFile
		}
		return importer.Upload{}, nil, fmt.Errorf("%w: %v", errBadMultipart, err)
	}

	cleanup := func() {
		file.Close()
		_ = r.MultipartForm.RemoveAll()
	}
	return importer.Upload{
		FileName: header.Filename,
		Size:     header.Size,
		Body:     file,
		TenantID: tenantID(r),
	}, cleanup, nil
}

func tenantID(r *http.Request) string {
	return r.Header.Get(TenantHeader)
}

// downloadURL builds the absolute URL of the Markdown download route.
func downloadURL(r *http.Request, importID string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/v1/imports/estimate_markdown/%s", scheme, r.Host, importID)
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := output.ToJSON(v, false)
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Error("encode response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"` + msgInternalError + `"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
