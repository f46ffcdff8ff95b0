package pet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesValid(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
}

func TestParseRules(t *testing.T) {
	t.Run("partial document keeps defaults", func(t *testing.T) {
		rules, err := ParseRules([]byte("thresholds:\n  child: 5\n  adult: 10\n  reset: 25\nhunger_zero: reset\n"))
		require.NoError(t, err)
		assert.Equal(t, Thresholds{Child: 5, Adult: 10, Reset: 25}, rules.Thresholds)
		assert.Equal(t, PolicyReset, rules.HungerZero)
		assert.Equal(t, DefaultRules().Species, rules.Species)
	})

	t.Run("species palette replaces default", func(t *testing.T) {
		rules, err := ParseRules([]byte("species: [axolotl, owl]\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"axolotl", "owl"}, rules.Species)
	})

	t.Run("descending thresholds rejected", func(t *testing.T) {
		_, err := ParseRules([]byte("thresholds:\n  child: 20\n  adult: 10\n  reset: 30\n"))
		assert.Error(t, err)
	})

	t.Run("unknown policy rejected", func(t *testing.T) {
		_, err := ParseRules([]byte("hunger_zero: explode\n"))
		assert.Error(t, err)
	})

	t.Run("empty palette rejected", func(t *testing.T) {
		_, err := ParseRules([]byte("species: []\n"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseRules([]byte("thresholds: [1, 2"))
		assert.Error(t, err)
	})
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  child: 10\n  adult: 20\n  reset: 50\n"), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 50, rules.Thresholds.Reset)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
