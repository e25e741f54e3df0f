package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of supplier categories.
type Category string

const (
	CategorySaaS           Category = "SaaS"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryConsulting     Category = "Consulting"
	CategoryOther          Category = "Other"
)

func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategorySaaS, CategoryInfrastructure, CategoryConsulting, CategoryOther:
		return Category(s), true
	}
	return "", false
}

// RiskLevel is the manually assigned risk classification.
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
)

func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow:
		return RiskLevel(s), true
	}
	return "", false
}

// SupplierStatus values match the stored representation, including the space
// in "Under Review".
type SupplierStatus string

const (
	StatusActive      SupplierStatus = "Active"
	StatusUnderReview SupplierStatus = "Under Review"
	StatusInactive    SupplierStatus = "Inactive"
)

func ParseSupplierStatus(s string) (SupplierStatus, bool) {
	switch SupplierStatus(s) {
	case StatusActive, StatusUnderReview, StatusInactive:
		return SupplierStatus(s), true
	}
	return "", false
}

// AIStatus tracks one enrichment cycle. A nil *AIStatus on Supplier means
// analysis was never requested.
type AIStatus string

const (
	AIPending    AIStatus = "pending"
	AIProcessing AIStatus = "processing"
	AIComplete   AIStatus = "complete"
	AIError      AIStatus = "error"
)

// AIAnalysis is the structured result produced by the analysis capability.
type AIAnalysis struct {
	Summary         string       `json:"summary"`
	RiskFactors     []RiskFactor `json:"riskFactors"`
	Recommendations []string     `json:"recommendations"`
	Confidence      float64      `json:"confidence"`
	AnalyzedAt      time.Time    `json:"analyzedAt"`
	ModelVersion    string       `json:"modelVersion"`
}

type RiskFactor struct {
	Factor      string    `json:"factor"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	Description string    `json:"description"`
}

type Supplier struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	OrganizationID  uuid.UUID      `json:"organizationId" db:"organization_id"`
	Name            string         `json:"name" db:"name"`
	Domain          string         `json:"domain" db:"domain"`
	Category        Category       `json:"category" db:"category"`
	RiskLevel       RiskLevel      `json:"riskLevel" db:"risk_level"`
	Status          SupplierStatus `json:"status" db:"status"`
	ContractEndDate *time.Time     `json:"contractEndDate" db:"contract_end_date"`
	Notes           *string        `json:"notes" db:"notes"`

	AIStatus          *AIStatus       `json:"aiStatus" db:"ai_status"`
	AIRiskScore       *float64        `json:"aiRiskScore" db:"ai_risk_score"`
	AIAnalysis        json.RawMessage `json:"aiAnalysis" db:"ai_analysis"`
	AILastRequestedAt *time.Time      `json:"aiLastRequestedAt" db:"ai_last_requested_at"`
	AILastCompletedAt *time.Time      `json:"aiLastCompletedAt" db:"ai_last_completed_at"`
	AIError           *string         `json:"aiError" db:"ai_error"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
