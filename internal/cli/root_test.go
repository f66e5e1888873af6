package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instawp/twowaysync-sample/internal/config"
)

var testConfig = config.Config{DBPath: "iwpsync.db", Format: "text"}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(testConfig)
	require.NotNil(t, cmd)
	assert.Equal(t, "iwpsync", cmd.Use)
	assert.Contains(t, cmd.Long, "linked site")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig)
	commands := [][]string{
		{"providers"},
		{"settings", "set"},
		{"post", "create"},
		{"term", "create"},
		{"meta", "add"},
		{"meta", "update"},
		{"events"},
		{"export"},
		{"apply"},
		{"test"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "iwpsync.db", dbFlag.DefValue)
}

func TestGlobalFlags_DefaultsFromConfig(t *testing.T) {
	cmd := NewRootCommand(config.Config{DBPath: "/srv/site.db", Format: "json", Verbose: true})

	assert.Equal(t, "/srv/site.db", cmd.PersistentFlags().Lookup("db").DefValue)
	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "true", cmd.PersistentFlags().Lookup("verbose").DefValue)
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig)
	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)

	outputFlag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	assert.NotNil(t, exportCmd.Flags().Lookup("after"))
}

func TestPostCreateRequiresName(t *testing.T) {
	cmd := NewRootCommand(config.Config{DBPath: t.TempDir() + "/site.db", Format: "text"})
	cmd.SetArgs([]string{"post", "create"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand(testConfig)
	cmd.SetArgs([]string{"--format", "invalid", "providers"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
