package queue

const TypeSupplierAnalyze = "supplier:analyze"

// SupplierAnalyzePayload keys one analysis job. Delivery is at-least-once and
// unordered between jobs for the same supplier; the worker tolerates both.
type SupplierAnalyzePayload struct {
	SupplierID     string `json:"supplier_id"`
	OrganizationID string `json:"organization_id"`
}
