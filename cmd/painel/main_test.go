package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/dm/painel/cmd/painel/commands"
)

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"version"}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "painel version")
	assert.Empty(t, errOut.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"bogus"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "Error:")
}

func TestRun_DashboardError(t *testing.T) {
	var out, errOut bytes.Buffer
	failing := commands.WithProgram(func(context.Context, tea.Model) error {
		return errors.New("no terminal")
	})
	noEnv := commands.WithEnv(func(string) string { return "" })

	dir := t.TempDir()
	cfg := filepath.Join(dir, "painel.yaml")
	body := "cache:\n  dir: " + filepath.Join(dir, "cache") + "\nlog:\n  file: " + filepath.Join(dir, "painel.log") + "\n"
	if err := os.WriteFile(cfg, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	code := run([]string{"--config", cfg}, &out, &errOut, failing, noEnv)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "no terminal")
}
