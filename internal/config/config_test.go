package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evosocial/internal/evosocial"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLegacy(t *testing.T) {
	path := writeTemp(t, "DATOS.DAT", "30\n0.05\n\n0.65\n500\n250\nignored\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	want := evosocial.Config{Runs: 30, MutationProb: 0.05, CrossoverProb: 0.65, MaxGenerations: 500, PopulationSize: 250}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLUsesDefaults(t *testing.T) {
	path := writeTemp(t, "run.yaml", "runs: 3\npopulationSize: 40\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	want := evosocial.DefaultConfig()
	want.Runs = 3
	want.PopulationSize = 40
	assert.Equal(t, want, cfg)
}

func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "run.json", `{"mutationProb": 0.2, "maxGenerations": 10}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.MutationProb)
	assert.Equal(t, 10, cfg.MaxGenerations)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"too few lines", "DATOS.DAT", "30\n0.05\n0.65\n"},
		{"bad number", "DATOS.DAT", "30\nabc\n0.65\n500\n250\n"},
		{"invalid probability", "DATOS.DAT", "30\n1.5\n0.65\n500\n250\n"},
		{"unknown field", "run.yaml", "runs: 3\npopsize: 10\n"},
		{"zero population", "run.yaml", "populationSize: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.DAT"))
	assert.Error(t, err)
}

func TestWriteLegacyRoundTrip(t *testing.T) {
	cfg := evosocial.Config{Runs: 7, MutationProb: 0.125, CrossoverProb: 1, MaxGenerations: 60, PopulationSize: 12}

	var buf bytes.Buffer
	require.NoError(t, WriteLegacy(&buf, cfg))
	assert.Equal(t, "7\n0.125\n1\n60\n12\n", buf.String())

	got, err := ReadLegacy(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestOverridesApply(t *testing.T) {
	runs, pm := 5, 0.3
	cfg := Overrides{Runs: &runs, MutationProb: &pm}.Apply(evosocial.DefaultConfig())

	want := evosocial.DefaultConfig()
	want.Runs = 5
	want.MutationProb = 0.3
	assert.Equal(t, want, cfg)
	assert.Equal(t, evosocial.DefaultConfig(), Overrides{}.Apply(evosocial.DefaultConfig()))
}
