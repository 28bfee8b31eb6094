package domain

// Limits applied to parsed analysis fields.
const (
	// MaxSummaryLength caps the summary field in characters.
	MaxSummaryLength = 500

	// MaxBetterPromptLength caps the suggested prompt in characters.
	MaxBetterPromptLength = 300

	// MaxKeySourcePDFs caps the deduplicated source list.
	MaxKeySourcePDFs = 5
)

// StructuredAnalysis is the typed result parsed from generative output.
// Every field is always populated; parsing failures substitute the
// documented defaults from AnalysisDefaults.
type StructuredAnalysis struct {
	// Summary is the analysis summary, at most MaxSummaryLength characters.
	Summary string `json:"summary"`

	// ConfidenceProbability is in [0.0, 1.0].
	ConfidenceProbability float64 `json:"confidence_probability"`

	// SuggestedBetterPrompt is an alternate query phrasing, at most
	// MaxBetterPromptLength characters.
	SuggestedBetterPrompt string `json:"suggested_better_prompt"`

	// KeySourcePDFs is a deduplicated list of up to MaxKeySourcePDFs
	// source file names mentioned by the model.
	KeySourcePDFs []string `json:"key_source_pdfs"`
}

// AnalysisDefaults is the fallback value table for analysis parsing.
// Keeping the fallbacks as data rather than scattered literals makes the
// degradation behaviour reviewable in one place.
type AnalysisDefaults struct {
	// Summary replaces a missing or empty summary section.
	Summary string

	// Confidence replaces an unparsable confidence value.
	Confidence float64

	// ConfidenceOnError replaces confidence when parsing panics outright.
	ConfidenceOnError float64

	// BetterPrompt replaces a missing suggestion section.
	BetterPrompt string
}

// DefaultAnalysisFallbacks returns the standard fallback table.
func DefaultAnalysisFallbacks() AnalysisDefaults {
	return AnalysisDefaults{
		Summary:           "No summary could be extracted from the model output.",
		Confidence:        0.5,
		ConfidenceOnError: 0.3,
		BetterPrompt:      "Try rephrasing the question with more specific terms.",
	}
}
