// Package store persists import records keyed by import id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/parser"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("import not found")

// ErrAlreadyExists is returned when a record with the same id was already stored.
var ErrAlreadyExists = errors.New("import already exists")

// Kinds of import.
const (
	KindAnalytics = "analytics"
	KindMarkdown  = "markdown"
)

// Record is one processed upload.
type Record struct {
	ImportID  string           `json:"import_id"`
	TenantID  string           `json:"tenant_id,omitempty"`
	Kind      string           `json:"kind"`
	FileName  string           `json:"file_name"`
	SheetName string           `json:"sheet_name,omitempty"`
	Estimate  *models.Estimate `json:"estimate_data,omitempty"`
	Stats     parser.Stats     `json:"stats"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store saves and loads import records.
type Store interface {
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, importID string) (*Record, error)
}

func encodeEstimate(est *models.Estimate) ([]byte, error) {
	if est == nil {
		return nil, nil
	}
	data, err := json.Marshal(est)
	if err != nil {
		return nil, fmt.Errorf("encode estimate: %w", err)
	}
	return data, nil
}

func decodeEstimate(data []byte) (*models.Estimate, error) {
	if len(data) == 0 {
		return nil, nil
	}
	est := &models.Estimate{}
	if err := json.Unmarshal(data, est); err != nil {
		return nil, fmt.Errorf("decode estimate: %w", err)
	}
	return est, nil
}
