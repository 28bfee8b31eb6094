package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func commandNames() []string {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	return names
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "askpdf", rootCmd.Use)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := commandNames()

	assert.Contains(t, names, "ingest")
	assert.Contains(t, names, "query")
	assert.Contains(t, names, "status")
	assert.Contains(t, names, "watch")
	assert.Contains(t, names, "version")
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestIngestCmd_ForceFlag(t *testing.T) {
	assert.NotNil(t, ingestCmd.Flags().Lookup("force"))
}
