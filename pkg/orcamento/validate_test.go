package orcamento

import (
	"errors"
	"strings"
	"testing"

	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
)

func TestValidate(t *testing.T) {
	if err := Validate(&models.Estimate{}); err != nil {
		t.Errorf("Expected an empty estimate to pass, got %v", err)
	}
	if err := Validate(&models.Estimate{BdiGlobal: models.Float64Ptr(0.25)}); err != nil {
		t.Errorf("Expected a positive BDI to pass, got %v", err)
	}

	err := Validate(&models.Estimate{BdiGlobal: models.Float64Ptr(-0.1)})
	if !errors.Is(err, ErrInvalidEstimate) {
		t.Fatalf("Expected ErrInvalidEstimate, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 1 {
		t.Fatalf("Expected one field error, got %v", err)
	}
	if verr.Fields[0].Field != "bdi_global" || verr.Fields[0].Rule != "gte" {
		t.Errorf("Unexpected field error: %+v", verr.Fields[0])
	}
	if !strings.Contains(err.Error(), "bdi_global failed gte=0") {
		t.Errorf("Unexpected message: %v", err)
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrInvalidEstimate) {
		t.Errorf("Expected ErrInvalidEstimate, got %v", err)
	}
}
