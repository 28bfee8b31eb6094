package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

func TestParse_WellFormed(t *testing.T) {
	parser := NewAnalysisParser()
	raw := `SUMMARY: The report covers quarterly revenue growth.
CONFIDENCE: 0.85
BETTER_PROMPT: What was the revenue growth in Q3?
KEY_PDFS: revenue.pdf, quarterly_2.pdf`

	analysis := parser.Parse(raw)

	assert.Equal(t, "The report covers quarterly revenue growth.", analysis.Summary)
	assert.InDelta(t, 0.85, analysis.ConfidenceProbability, 1e-9)
	assert.Equal(t, "What was the revenue growth in Q3?", analysis.SuggestedBetterPrompt)
	assert.Equal(t, []string{"revenue.pdf", "quarterly_2.pdf"}, analysis.KeySourcePDFs)
}

func TestParse_PercentageConfidenceClampsToOne(t *testing.T) {
	parser := NewAnalysisParser()
	raw := "SUMMARY: X\nCONFIDENCE: 150\nBETTER_PROMPT: Y\nKEY_PDFS: a.pdf, a.pdf, b.PDF"

	analysis := parser.Parse(raw)

	assert.Equal(t, "X", analysis.Summary)
	assert.InDelta(t, 1.0, analysis.ConfidenceProbability, 1e-9)
	assert.Equal(t, "Y", analysis.SuggestedBetterPrompt)
	assert.Equal(t, []string{"a.pdf", "b.PDF"}, analysis.KeySourcePDFs)
}

func TestParse_PercentageConfidence(t *testing.T) {
	parser := NewAnalysisParser()

	analysis := parser.Parse("CONFIDENCE: 85")

	assert.InDelta(t, 0.85, analysis.ConfidenceProbability, 1e-9)
}

func TestParse_NegativeConfidenceClampsToZero(t *testing.T) {
	parser := NewAnalysisParser()

	analysis := parser.Parse("CONFIDENCE: -0.4")

	assert.Equal(t, 0.0, analysis.ConfidenceProbability)
}

func TestParse_ConfidenceWithProse(t *testing.T) {
	parser := NewAnalysisParser()

	analysis := parser.Parse("CONFIDENCE: I would estimate around 0.7 given the context.")

	assert.InDelta(t, 0.7, analysis.ConfidenceProbability, 1e-9)
}

func TestParse_MissingSectionsFallBack(t *testing.T) {
	parser := NewAnalysisParser()
	defaults := domain.DefaultAnalysisFallbacks()

	analysis := parser.Parse("no labelled sections at all")

	assert.Equal(t, defaults.Confidence, analysis.ConfidenceProbability)
	assert.Equal(t, defaults.BetterPrompt, analysis.SuggestedBetterPrompt)
	assert.NotNil(t, analysis.KeySourcePDFs)
	assert.Empty(t, analysis.KeySourcePDFs)
}

func TestParse_EmptyInput(t *testing.T) {
	parser := NewAnalysisParser()
	defaults := domain.DefaultAnalysisFallbacks()

	analysis := parser.Parse("")

	assert.Equal(t, defaults.Summary, analysis.Summary)
	assert.Equal(t, defaults.Confidence, analysis.ConfidenceProbability)
	assert.Equal(t, defaults.BetterPrompt, analysis.SuggestedBetterPrompt)
	assert.NotNil(t, analysis.KeySourcePDFs)
	assert.Empty(t, analysis.KeySourcePDFs)
}

func TestParse_NonNumericConfidenceFallsBack(t *testing.T) {
	parser := NewAnalysisParser()

	analysis := parser.Parse("CONFIDENCE: fairly sure")

	assert.Equal(t, domain.DefaultAnalysisFallbacks().Confidence, analysis.ConfidenceProbability)
}

func TestParse_CaseInsensitiveLabels(t *testing.T) {
	parser := NewAnalysisParser()
	raw := "summary: lowercase labels work\nconfidence: 0.6"

	analysis := parser.Parse(raw)

	assert.Equal(t, "lowercase labels work", analysis.Summary)
	assert.InDelta(t, 0.6, analysis.ConfidenceProbability, 1e-9)
}

func TestParse_SummaryTruncated(t *testing.T) {
	parser := NewAnalysisParser()
	long := strings.Repeat("a", domain.MaxSummaryLength+100)

	analysis := parser.Parse("SUMMARY: " + long + "\nCONFIDENCE: 0.5")

	assert.Len(t, analysis.Summary, domain.MaxSummaryLength)
}

func TestParse_KeyPDFsCapped(t *testing.T) {
	parser := NewAnalysisParser()
	raw := "KEY_PDFS: a.pdf, b.pdf, c.pdf, d.pdf, e.pdf, f.pdf, g.pdf"

	analysis := parser.Parse(raw)

	require.Len(t, analysis.KeySourcePDFs, domain.MaxKeySourcePDFs)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}, analysis.KeySourcePDFs)
}

func TestParse_KeyPDFsDedupIsCaseSensitive(t *testing.T) {
	parser := NewAnalysisParser()

	analysis := parser.Parse("KEY_PDFS: report.pdf, Report.pdf, report.pdf")

	assert.Equal(t, []string{"report.pdf", "Report.pdf"}, analysis.KeySourcePDFs)
}

func TestParse_MultilineSummaryStopsAtNextLabel(t *testing.T) {
	parser := NewAnalysisParser()
	raw := "SUMMARY: first line\nsecond line\nCONFIDENCE: 0.9\nBETTER_PROMPT: Z"

	analysis := parser.Parse(raw)

	assert.Equal(t, "first line\nsecond line", analysis.Summary)
	assert.InDelta(t, 0.9, analysis.ConfidenceProbability, 1e-9)
	assert.Equal(t, "Z", analysis.SuggestedBetterPrompt)
}
