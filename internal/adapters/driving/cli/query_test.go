package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askpdf-cli/internal/core/domain"
)

func testResponse() *domain.QueryResponse {
	return &domain.QueryResponse{
		Question: "what changed",
		Results: []domain.SearchHit{
			{
				Document:        "The quarterly numbers improved.",
				SourcePDF:       "report_2.pdf",
				PageNumber:      4,
				SimilarityScore: 0.9123,
			},
		},
		ContextUsed:    "[report_2.pdf | page 4 | similarity 0.9123]\nThe quarterly numbers improved.",
		TotalResults:   1,
		ProcessingTime: 0.42,
	}
}

func captureCmd() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	return cmd, buf
}

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [question]", queryCmd.Use)
}

func TestQueryCmd_Flags(t *testing.T) {
	assert.NotNil(t, queryCmd.Flags().Lookup("top-k"))
	assert.NotNil(t, queryCmd.Flags().Lookup("cutoff"))
	assert.NotNil(t, queryCmd.Flags().Lookup("no-analysis"))
	assert.NotNil(t, queryCmd.Flags().Lookup("json"))
}

func TestOutputQueryText_NoResults(t *testing.T) {
	cmd, buf := captureCmd()

	err := outputQueryText(cmd, &domain.QueryResponse{})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No matching passages found.")
}

func TestOutputQueryText_Results(t *testing.T) {
	cmd, buf := captureCmd()

	err := outputQueryText(cmd, testResponse())

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "report_2.pdf, page 4")
	assert.Contains(t, output, "0.9123")
	assert.Contains(t, output, "The quarterly numbers improved.")
	assert.NotContains(t, output, "Analysis:")
}

func TestOutputQueryText_WithAnalysis(t *testing.T) {
	cmd, buf := captureCmd()
	response := testResponse()
	response.Analysis = &domain.StructuredAnalysis{
		Summary:               "Revenue grew.",
		ConfidenceProbability: 0.8,
		SuggestedBetterPrompt: "Ask about Q3 revenue.",
		KeySourcePDFs:         []string{"report_2.pdf"},
	}

	err := outputQueryText(cmd, response)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Analysis:")
	assert.Contains(t, output, "Revenue grew.")
	assert.Contains(t, output, "0.80")
	assert.Contains(t, output, "Ask about Q3 revenue.")
}

func TestOutputQueryJSON(t *testing.T) {
	cmd, buf := captureCmd()

	err := outputQueryJSON(cmd, testResponse())

	require.NoError(t, err)

	var decoded domain.QueryResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "what changed", decoded.Question)
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "report_2.pdf", decoded.Results[0].SourcePDF)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))
	assert.Equal(t, "abcde...", snippet("abcdefghij", 5))
}
