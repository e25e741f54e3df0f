package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

// MockAnalyzer produces deterministic verdicts from the supplier's category
// and notes. It is the default when no provider API key is configured, and
// the analyzer of choice in tests.
type MockAnalyzer struct{}

func NewMockAnalyzer() *MockAnalyzer { return &MockAnalyzer{} }

func (m *MockAnalyzer) Name() string { return "mock" }

func (m *MockAnalyzer) AnalyzeSupplier(_ context.Context, req Request) (*Result, error) {
	score := m.deriveScore(req)
	return &Result{
		Score: score,
		Analysis: models.AIAnalysis{
			Summary: fmt.Sprintf("Mock analysis for %s (%s) in category %q. Overall risk score: %.0f/100.",
				req.Name, req.Domain, req.Category, score),
			RiskFactors:     m.deriveRiskFactors(req),
			Recommendations: m.deriveRecommendations(req, score),
			Confidence:      0.82,
			AnalyzedAt:      time.Now().UTC(),
			ModelVersion:    "mock-v1",
		},
	}, nil
}

func (m *MockAnalyzer) deriveScore(req Request) float64 {
	score := 50.0

	switch req.Category {
	case models.CategoryInfrastructure:
		score += 10
	case models.CategoryConsulting:
		score -= 5
	}

	notes := strings.ToLower(req.Notes)
	if strings.Contains(notes, "legacy") {
		score += 20
	}
	if len(req.Notes) > 300 {
		score += 5
	}
	if len(req.Notes) < 20 {
		// not enough information is itself a risk signal
		score += 5
	}

	return clampScore(score)
}

func (m *MockAnalyzer) deriveRiskFactors(req Request) []models.RiskFactor {
	var factors []models.RiskFactor
	notes := strings.ToLower(req.Notes)

	if strings.Contains(notes, "legacy") || strings.Contains(notes, "end-of-life") {
		factors = append(factors, riskFactor("Legacy technology", "High",
			"Supplier references legacy or end-of-life technology, which can increase security and support risks."))
	}
	if strings.Contains(notes, "third-party") {
		factors = append(factors, riskFactor("Third-party dependencies", "Medium",
			"Reliance on third-party components may increase the surface for supply-chain vulnerabilities."))
	}
	if len(factors) == 0 {
		factors = append(factors, riskFactor("No obvious high-risk indicators in notes", "Low",
			"Based on the limited information available, no major risk factors were detected."))
	}
	return factors
}

func (m *MockAnalyzer) deriveRecommendations(req Request, score float64) []string {
	var recs []string
	switch {
	case score >= 70:
		recs = append(recs, "Perform a detailed security assessment and request recent penetration test reports.")
	case score >= 40:
		recs = append(recs, "Monitor the supplier annually and review their security questionnaires.")
	default:
		recs = append(recs, "Maintain a lightweight monitoring schedule; reassess only if their scope expands.")
	}
	if len(req.Notes) < 50 {
		recs = append(recs, "Collect more detailed information about data flows, hosting regions, and sub-processors.")
	}
	return recs
}
