package appsettings

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anomalyTLS struct {
	ConfigSectionBase
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

type anomalyServer struct {
	ConfigSectionBase
	Host string     `toml:"host"`
	TLS  anomalyTLS `toml:"tls"`
}

type anomalyRoot struct {
	ConfigSectionBase
	Name   string        `toml:"name"`
	Server anomalyServer `toml:"server"`
}

// TestAnomalyDefaulted tests the defaulted-parameter advisory
func TestAnomalyDefaulted(t *testing.T) {
	resetState(t)
	logs := captureAdvisories(t)

	_, err := Set[anomalyRoot](map[string]any{
		"name": "x",
		"server": map[string]any{
			"host": "h",
			"tls":  map[string]any{"cert": "c"},
		},
	})
	require.NoError(t, err)

	records := logs.byMessage("parameter initialized with default value")
	require.Len(t, records, 1)
	assert.Equal(t, "key", records[0].attrs["parameter"])
	assert.Equal(t, "server.tls", records[0].attrs["section"])
}

// TestAnomalyExtra tests the extra-parameter advisory
func TestAnomalyExtra(t *testing.T) {
	resetState(t)
	logs := captureAdvisories(t)

	// Extras are advisories, never errors.
	_, err := Set[anomalyRoot](map[string]any{
		"name":  "x",
		"bogus": 1,
		"server": map[string]any{
			"host":  "h",
			"ghost": 2,
			"tls":   map[string]any{"cert": "c", "key": "k"},
		},
	})
	require.NoError(t, err)

	records := logs.byMessage("extra parameter not used for initialization")
	require.Len(t, records, 2)

	seen := map[string]string{}
	for _, r := range records {
		seen[r.attrs["parameter"].(string)] = r.attrs["section"].(string)
	}
	assert.Equal(t, "root", seen["bogus"])
	assert.Equal(t, "server", seen["ghost"])
}

// TestAnomalyZeroConfExempt tests that defaults-only construction is silent
func TestAnomalyZeroConfExempt(t *testing.T) {
	resetState(t)
	logs := captureAdvisories(t)

	_, err := Set[anomalyRoot](nil)
	require.NoError(t, err)
	_, err = Set[anomalyRoot](map[string]any{})
	require.NoError(t, err)

	assert.Empty(t, logs.byMessage("parameter initialized with default value"))
	assert.Empty(t, logs.byMessage("extra parameter not used for initialization"))
}

// TestAnomalyNestedNotExempt tests that only the top level is exempt:
// a non-empty input with a missing subsection reports every field of it.
func TestAnomalyNestedNotExempt(t *testing.T) {
	resetState(t)
	logs := captureAdvisories(t)

	_, err := Set[anomalyRoot](map[string]any{"name": "x"})
	require.NoError(t, err)

	records := logs.byMessage("parameter initialized with default value")
	params := map[string]string{}
	for _, r := range records {
		params[r.attrs["section"].(string)+"/"+r.attrs["parameter"].(string)] = ""
	}
	assert.Contains(t, params, "server/host")
	assert.Contains(t, params, "server.tls/cert")
	assert.Contains(t, params, "server.tls/key")
}

// TestAnomalySeverity tests strict mode switching advisories to warnings
func TestAnomalySeverity(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		resetState(t)
		logs := captureAdvisories(t)

		_, err := Set[anomalyTLS](map[string]any{"cert": "c"})
		require.NoError(t, err)

		records := logs.byMessage("parameter initialized with default value")
		require.Len(t, records, 1)
		assert.Equal(t, slog.LevelDebug, records[0].level)
	})

	t.Run("Strict", func(t *testing.T) {
		resetState(t)
		logs := captureAdvisories(t)

		_, err := Set[ApplicationConfigSection](map[string]any{
			"config_container_class": "test.anomalyTLS",
			"strict_mode":            true,
		})
		require.NoError(t, err)

		_, err = Set[anomalyTLS](map[string]any{"cert": "c"})
		require.NoError(t, err)

		records := logs.byMessage("parameter initialized with default value")
		require.Len(t, records, 1)
		assert.Equal(t, slog.LevelWarn, records[0].level)
	})
}
