// Package importer runs uploaded estimate files through parsing, validation,
// persistence and queueing.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orceu/orceu-api-saas/internal/logging"
	"github.com/orceu/orceu-api-saas/internal/metrics"
	"github.com/orceu/orceu-api-saas/internal/queue"
	"github.com/orceu/orceu-api-saas/internal/store"
	"github.com/orceu/orceu-api-saas/pkg/orcamento"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/output"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/parser"
	"github.com/sirupsen/logrus"
)

// Endpoint names used in logs and metrics.
const (
	EndpointAnalytics = "estimate_analytics"
	EndpointMarkdown  = "estimate_markdown"
)

// Markdown engines reported to clients.
const (
	EngineParser = "semantic-parser"
	EngineSheets = "excelize-tables"
)

// Config holds the service limits.
type Config struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
	// TmpDir receives generated Markdown under markdown/.
	TmpDir string
}

// Upload is a file received from a client.
type Upload struct {
	FileName string
	// Size is the declared size in bytes, or -1 when unknown.
	Size     int64
	Body     io.Reader
	TenantID string
}

// AnalyticsResult is the outcome of an analytics import.
type AnalyticsResult struct {
	ImportID  string
	SheetName string
	Estimate  *models.Estimate
	Stats     parser.Stats
}

// MarkdownResult is the outcome of a Markdown import.
type MarkdownResult struct {
	ImportID string
	Mode     orcamento.Mode
	Engine   string
	Markdown string
	Path     string
}

// Service imports estimate files.
type Service struct {
	store   store.Store
	queue   queue.Queue
	metrics *metrics.Metrics
	limiter *UploadLimiter
	cfg     Config

	now   func() time.Time
	newID func() string
}

// NewService creates a Service.
func NewService(st store.Store, q queue.Queue, m *metrics.Metrics, cfg Config) *Service {
	return &Service{
		store:   st,
		queue:   q,
		metrics: m,
		limiter: NewUploadLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		cfg:     cfg,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// ImportAnalytics parses an upload, validates and stores the estimate, and
// enqueues it for downstream processing.
func (s *Service) ImportAnalytics(ctx context.Context, up Upload) (res *AnalyticsResult, err error) {
	defer func() { s.observe(EndpointAnalytics, err) }()

	if err := s.checkUpload(up); err != nil {
		return nil, err
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	data, err := s.readUpload(up)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parse(data, up.FileName)
	if err != nil {
		return nil, err
	}
	if err := orcamento.Validate(parsed.Estimate); err != nil {
		return nil, err
	}

	id := s.newID()
	log := logging.WithFields(ctx, logrus.Fields{
		"import_id": id,
		"tenant_id": up.TenantID,
		"file":      up.FileName,
		"sheet":     parsed.SheetName,
	})

	rec := &store.Record{
		ImportID:  id,
		TenantID:  up.TenantID,
		Kind:      store.KindAnalytics,
		FileName:  up.FileName,
		SheetName: parsed.SheetName,
		Estimate:  parsed.Estimate,
		Stats:     parsed.Stats,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store import: %w", err)
	}

	task := queue.Task{
		ImportID:   id,
		TenantID:   up.TenantID,
		Kind:       store.KindAnalytics,
		FileName:   up.FileName,
		EnqueuedAt: rec.CreatedAt,
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("enqueue import: %w", err)
	}
	s.observeQueue()

	s.observeStats(parsed.Stats)
	entry := log.WithFields(statsFields(parsed.Stats))
	if parsed.Stats.Dropped > 0 {
		entry.Warn("import parsed with dropped rows")
	} else {
		entry.Info("import parsed")
	}

	return &AnalyticsResult{
		ImportID:  id,
		SheetName: parsed.SheetName,
		Estimate:  parsed.Estimate,
		Stats:     parsed.Stats,
	}, nil
}

// ImportMarkdown renders an upload as Markdown, writes it under the tmp
// directory, records the import and enqueues it.
func (s *Service) ImportMarkdown(ctx context.Context, up Upload, mode orcamento.Mode) (res *MarkdownResult, err error) {
	defer func() { s.observe(EndpointMarkdown, err) }()

	if strings.EqualFold(filepath.Ext(up.FileName), ".pdf") {
		return nil, ErrPDFNotSupported
	}
	if err := s.checkUpload(up); err != nil {
		return nil, err
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	data, err := s.readUpload(up)
	if err != nil {
		return nil, err
	}

	rec := &store.Record{
		TenantID: up.TenantID,
		Kind:     store.KindMarkdown,
		FileName: up.FileName,
	}

	var md, engine string
	switch mode {
	case orcamento.ModeRaw:
		wb, err := orcamento.ReadWorkbookReader(bytes.NewReader(data), up.FileName)
		if err != nil {
			return nil, err
		}
		md, engine = output.SheetsMarkdown(wb), EngineSheets
	default:
		mode = orcamento.ModeSemantic
		parsed, err := s.parse(data, up.FileName)
		if err != nil {
			return nil, err
		}
		if err := orcamento.Validate(parsed.Estimate); err != nil {
			return nil, err
		}
		md, engine = output.Markdown(parsed.Estimate), EngineParser
		rec.SheetName = parsed.SheetName
		rec.Estimate = parsed.Estimate
		rec.Stats = parsed.Stats
		s.observeStats(parsed.Stats)
	}

	id := s.newID()
	path := s.markdownFile(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create markdown dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("write markdown: %w", err)
	}

	rec.ImportID = id
	rec.CreatedAt = s.now().UTC()
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store import: %w", err)
	}
	task := queue.Task{
		ImportID:   id,
		TenantID:   up.TenantID,
		Kind:       store.KindMarkdown,
		FileName:   up.FileName,
		EnqueuedAt: rec.CreatedAt,
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("enqueue import: %w", err)
	}
	s.observeQueue()

	logging.WithFields(ctx, logrus.Fields{
		"import_id": id,
		"tenant_id": up.TenantID,
		"file":      up.FileName,
		"mode":      mode,
	}).Info("markdown generated")

	return &MarkdownResult{
		ImportID: id,
		Mode:     mode,
		Engine:   engine,
		Markdown: md,
		Path:     path,
	}, nil
}

// MarkdownPath returns the Markdown file generated for an import.
func (s *Service) MarkdownPath(importID string) (string, error) {
	if _, err := uuid.Parse(importID); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidImportID, importID)
	}
	path := s.markdownFile(importID)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", ErrMarkdownNotFound
	} else if err != nil {
		return "", err
	}
	return path, nil
}

// Get returns a stored import.
func (s *Service) Get(ctx context.Context, importID string) (*store.Record, error) {
	if _, err := uuid.Parse(importID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImportID, importID)
	}
	return s.store.Get(ctx, importID)
}

// LimiterStatus reports the upload limiter state.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) markdownFile(importID string) string {
	return filepath.Join(s.cfg.TmpDir, "markdown", importID+".md")
}

func (s *Service) checkUpload(up Upload) error {
	if !orcamento.IsSupported(up.FileName) {
		return fmt.Errorf("%w: %q (accepted: %s)", orcamento.ErrUnsupportedFormat,
			filepath.Ext(up.FileName), strings.Join(orcamento.SupportedExtensions, ", "))
	}
	if up.Size == 0 {
		return ErrEmptyFile
	}
	if s.cfg.MaxFileSize > 0 && up.Size > s.cfg.MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

func (s *Service) readUpload(up Upload) ([]byte, error) {
	body := up.Body
	if s.cfg.MaxFileSize > 0 {
		body = io.LimitReader(up.Body, s.cfg.MaxFileSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.cfg.MaxFileSize > 0 && int64(len(data)) > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func (s *Service) parse(data []byte, fileName string) (*orcamento.Result, error) {
	start := s.now()
	res, err := orcamento.ParseReader(bytes.NewReader(data), fileName, orcamento.DefaultOptions())
	if s.metrics != nil {
		s.metrics.ObserveParse(strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."), s.now().Sub(start))
	}
	return res, err
}

func (s *Service) observe(endpoint string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveImport(endpoint, resultOf(err))
}

func (s *Service) observeStats(st parser.Stats) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRows(parser.KindStage.String(), st.Stages)
	s.metrics.ObserveRows(parser.KindComposition.String(), st.Compositions)
	s.metrics.ObserveRows(parser.KindResource.String(), st.Resources)
	s.metrics.ObserveRows(parser.KindBlank.String(), st.Blank)
	s.metrics.ObserveRows(parser.KindHeader.String(), st.Headers)
	s.metrics.ObserveRows("dropped", st.Dropped)
}

func (s *Service) observeQueue() {
	sized, ok := s.queue.(interface{ Len() int })
	if !ok || s.metrics == nil {
		return
	}
	s.metrics.SetQueueDepth(sized.Len())
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, orcamento.ErrInvalidEstimate):
		return metrics.ResultInvalid
	case IsClientError(err):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

// IsClientError reports whether err was caused by the upload itself rather
// than by the service.
func IsClientError(err error) bool {
	for _, target := range []error{
		orcamento.ErrUnsupportedFormat,
		orcamento.ErrInvalidFormat,
		orcamento.ErrNoSheets,
		orcamento.ErrSheetNotFound,
		orcamento.ErrInvalidMode,
		orcamento.ErrInvalidEstimate,
		ErrFileTooLarge,
		ErrEmptyFile,
		ErrPDFNotSupported,
		ErrInvalidImportID,
		ErrTooManyUploads,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func statsFields(st parser.Stats) logrus.Fields {
	return logrus.Fields{
		"rows":         st.Rows,
		"stages":       st.Stages,
		"compositions": st.Compositions,
		"resources":    st.Resources,
		"dropped":      st.Dropped,
	}
}
