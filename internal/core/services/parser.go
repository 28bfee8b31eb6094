package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
	"github.com/custodia-labs/askpdf-cli/internal/logger"
)

// Section labels expected in generative output, in order. Each field is
// delimited by the next label or end of text, so the model may pad sections
// with prose without breaking extraction.
var (
	summaryRe      = regexp.MustCompile(`(?is)SUMMARY\s*:?\s*(.*?)\s*(?:CONFIDENCE\s*:|BETTER_PROMPT\s*:|KEY_PDFS\s*:|$)`)
	confidenceRe   = regexp.MustCompile(`(?is)CONFIDENCE\s*:?\s*(.*?)\s*(?:BETTER_PROMPT\s*:|KEY_PDFS\s*:|$)`)
	betterPromptRe = regexp.MustCompile(`(?is)BETTER_PROMPT\s*:?\s*(.*?)\s*(?:KEY_PDFS\s*:|$)`)
	keyPDFsRe      = regexp.MustCompile(`(?is)KEY_PDFS\s*:?\s*(.*)$`)

	floatTokenRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	pdfTokenRe   = regexp.MustCompile(`(?i)[^\s,]+\.pdf`)
)

// AnalysisParser extracts the four labelled fields from free-form
// generative output. It never fails past its boundary: malformed input
// produces the fallback defaults and a fully-populated result.
type AnalysisParser struct {
	defaults domain.AnalysisDefaults
}

// NewAnalysisParser creates a parser with the standard fallback table.
func NewAnalysisParser() *AnalysisParser {
	return &AnalysisParser{defaults: domain.DefaultAnalysisFallbacks()}
}

// Parse extracts a structured analysis from raw model output.
func (p *AnalysisParser) Parse(raw string) (analysis domain.StructuredAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Analysis parse panic: %v", r)
			analysis = domain.StructuredAnalysis{
				Summary:               p.defaults.Summary,
				ConfidenceProbability: p.defaults.ConfidenceOnError,
				SuggestedBetterPrompt: p.defaults.BetterPrompt,
				KeySourcePDFs:         []string{},
			}
		}
	}()

	analysis = domain.StructuredAnalysis{
		Summary:               p.parseSection(summaryRe, raw, p.defaults.Summary, domain.MaxSummaryLength),
		ConfidenceProbability: p.parseConfidence(raw),
		SuggestedBetterPrompt: p.parseSection(betterPromptRe, raw, p.defaults.BetterPrompt, domain.MaxBetterPromptLength),
		KeySourcePDFs:         p.parseKeyPDFs(raw),
	}
	return analysis
}

// parseSection captures one labelled section, trimmed and truncated.
func (p *AnalysisParser) parseSection(re *regexp.Regexp, raw, fallback string, maxLen int) string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return fallback
	}
	text := strings.TrimSpace(m[1])
	if text == "" {
		return fallback
	}
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// parseConfidence extracts the first float after the CONFIDENCE label.
// Values above 1.0 are read as percentages and divided by 100, then the
// result is clamped to [0.0, 1.0].
func (p *AnalysisParser) parseConfidence(raw string) float64 {
	m := confidenceRe.FindStringSubmatch(raw)
	if m == nil {
		return p.defaults.Confidence
	}

	token := floatTokenRe.FindString(m[1])
	if token == "" {
		return p.defaults.Confidence
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return p.defaults.Confidence
	}

	if value > 1.0 {
		value /= 100.0
	}
	if value < 0.0 {
		value = 0.0
	}
	if value > 1.0 {
		value = 1.0
	}
	return value
}

// parseKeyPDFs scans the KEY_PDFS section for file-name tokens,
// deduplicated as captured (case-sensitive), at most MaxKeySourcePDFs.
func (p *AnalysisParser) parseKeyPDFs(raw string) []string {
	m := keyPDFsRe.FindStringSubmatch(raw)
	if m == nil {
		return []string{}
	}

	seen := make(map[string]bool)
	pdfs := make([]string, 0, domain.MaxKeySourcePDFs)
	for _, token := range pdfTokenRe.FindAllString(m[1], -1) {
		if seen[token] {
			continue
		}
		seen[token] = true
		pdfs = append(pdfs, token)
		if len(pdfs) == domain.MaxKeySourcePDFs {
			break
		}
	}
	return pdfs
}
