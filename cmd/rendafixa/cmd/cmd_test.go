package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/rendafixa/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, dir string, jc config.JournalConfig) string {
	t.Helper()
	cfg := config.Default()
	cfg.Journal = jc
	path := filepath.Join(dir, "carteira.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	return path
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carteira.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Configuration valid")
	assert.Contains(t, out, "Window: 2024-01 to 2027-12")
}

func TestRunWithCSVJournal(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, config.JournalConfig{
		Type:    "csv",
		Dir:     filepath.Join(dir, "journal"),
		OrgPath: filepath.Join(dir, "run.org"),
	})
	table := filepath.Join(dir, "values.csv")

	out, err := execute(t, "run", "-q", "-f", path, "--coupons", "--csv", table, "--env", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "Coupons:")
	assert.Contains(t, out, "Results saved to: "+filepath.Join(dir, "journal"))

	for _, f := range []string{table, filepath.Join(dir, "run.org"), filepath.Join(dir, "journal", "snapshots.csv")} {
		_, err := os.Stat(f)
		assert.NoError(t, err, f)
	}
	org, err := os.ReadFile(filepath.Join(dir, "run.org"))
	require.NoError(t, err)
	assert.Contains(t, string(org), "* SIMULATION: ")
}

func TestScenariosAndJournal(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "rendafixa.db")
	path := writeConfig(t, dir, config.JournalConfig{Type: "sqlite", DBPath: db})

	out, err := execute(t, "scenarios", "-q", "-f", path, "--env", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "base")
	assert.Contains(t, out, "pessimista")
	assert.Contains(t, out, "otimista")

	out, err = execute(t, "journal", "list", "-d", db)
	require.NoError(t, err)
	assert.Contains(t, out, "pessimista")

	_, err = execute(t, "journal", "show", "nope", "-d", db)
	assert.Error(t, err)

	_, err = execute(t, "journal", "list", "-d", filepath.Join(dir, "absent.db"))
	assert.Error(t, err)
}
