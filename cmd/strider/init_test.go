package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/strider/internal/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag values persist across Execute calls; reset the ones these
	// tests exercise.
	homeDir = ""
	initForce = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	home := t.TempDir()

	out, err := runCommand(t, "init", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")

	configPath := config.DefaultConfigPath(home)
	_, err = os.Stat(configPath)
	require.NoError(t, err)

	for _, dir := range []string{"data", "checkpoints"} {
		info, err := os.Stat(filepath.Join(home, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// The written file must load back through the normal config path.
	loader := config.NewConfigLoader(config.NewValidator())
	cfg, err := loader.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().AI, cfg.AI)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	home := t.TempDir()

	_, err := runCommand(t, "init", "--home", home)
	require.NoError(t, err)

	_, err = runCommand(t, "init", "--home", home)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCommand(t, "init", "--home", home, "--force")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Strider")
}
