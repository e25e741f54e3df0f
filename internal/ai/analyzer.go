package ai

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

// Request carries the supplier fields the analysis capability sees.
type Request struct {
	SupplierID     uuid.UUID
	Name           string
	Domain         string
	Category       models.Category
	Notes          string
	OrganizationID uuid.UUID
}

// Result is a risk verdict: a 0–100 score plus the structured narrative.
type Result struct {
	Score    float64
	Analysis models.AIAnalysis
}

// Analyzer is the external analysis capability. Implementations may fail;
// the worker records failures on the supplier rather than crashing.
type Analyzer interface {
	AnalyzeSupplier(ctx context.Context, req Request) (*Result, error)
	Name() string
}

func riskFactor(factor, level, description string) models.RiskFactor {
	riskLevel, ok := models.ParseRiskLevel(level)
	if !ok {
		riskLevel = models.RiskMedium
	}
	return models.RiskFactor{Factor: factor, RiskLevel: riskLevel, Description: description}
}
