package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const analysisSystemPrompt = `You are a third-party vendor risk analyst. Given a supplier's name, domain, category and internal notes, assess its cyber risk. Respond with a single JSON object and nothing else, using this shape:
{"score": <number 0-100>, "summary": "<2-3 sentences>", "riskFactors": [{"factor": "...", "riskLevel": "Critical|High|Medium|Low", "description": "..."}], "recommendations": ["..."], "confidence": <number 0-1>}`

type AnthropicAnalyzer struct {
	client anthropic.Client
	model  string
}

func NewAnthropicAnalyzer(apiKey, model string) *AnthropicAnalyzer {
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &AnthropicAnalyzer{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *AnthropicAnalyzer) Name() string { return "anthropic" }

func (a *AnthropicAnalyzer) AnalyzeSupplier(ctx context.Context, req Request) (*Result, error) {
	userPrompt := fmt.Sprintf("Supplier: %s\nDomain: %s\nCategory: %s\nNotes: %s",
		req.Name, req.Domain, req.Category, req.Notes)

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analysisSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic analyze: %w", err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	result, err := parseAnalysisJSON(content)
	if err != nil {
		return nil, err
	}
	result.Analysis.ModelVersion = a.model
	result.Analysis.AnalyzedAt = time.Now().UTC()
	return result, nil
}

// parseAnalysisJSON extracts the verdict from a model response, tolerating
// text around the JSON object.
func parseAnalysisJSON(content string) (*Result, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in analysis response")
	}

	var raw struct {
		Score       float64 `json:"score"`
		Summary     string  `json:"summary"`
		RiskFactors []struct {
			Factor      string `json:"factor"`
			RiskLevel   string `json:"riskLevel"`
			Description string `json:"description"`
		} `json:"riskFactors"`
		Recommendations []string `json:"recommendations"`
		Confidence      float64  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	result := &Result{Score: clampScore(raw.Score)}
	result.Analysis.Summary = raw.Summary
	result.Analysis.Recommendations = raw.Recommendations
	result.Analysis.Confidence = raw.Confidence
	for _, f := range raw.RiskFactors {
		result.Analysis.RiskFactors = append(result.Analysis.RiskFactors, riskFactor(f.Factor, f.RiskLevel, f.Description))
	}
	return result, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
