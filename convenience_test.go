package appsettings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliAppConfig struct {
	ConfigBase
	Value string `toml:"value"`
}

type cliAppSettings struct {
	SettingsBase
	Label string `json:"label"`
}

// TestScanPathOption tests command-line option extraction
func TestScanPathOption(t *testing.T) {
	t.Run("ShortSeparate", func(t *testing.T) {
		value, ok := scanPathOption([]string{"cmd", "-c", "/tmp/a.toml"}, "-c", "--config_filepath")
		assert.True(t, ok)
		assert.Equal(t, "/tmp/a.toml", value)
	})

	t.Run("LongSeparate", func(t *testing.T) {
		value, ok := scanPathOption([]string{"--config_filepath", "/tmp/b.toml"}, "-c", "--config_filepath")
		assert.True(t, ok)
		assert.Equal(t, "/tmp/b.toml", value)
	})

	t.Run("ShortEquals", func(t *testing.T) {
		value, ok := scanPathOption([]string{"-c=/tmp/c.toml"}, "-c", "--config_filepath")
		assert.True(t, ok)
		assert.Equal(t, "/tmp/c.toml", value)
	})

	t.Run("LongEquals", func(t *testing.T) {
		value, ok := scanPathOption([]string{"--config_filepath=/tmp/d.toml"}, "-c", "--config_filepath")
		assert.True(t, ok)
		assert.Equal(t, "/tmp/d.toml", value)
	})

	t.Run("Absent", func(t *testing.T) {
		_, ok := scanPathOption([]string{"cmd", "--verbose"}, "-c", "--config_filepath")
		assert.False(t, ok)
	})

	t.Run("TrailingWithoutValue", func(t *testing.T) {
		_, ok := scanPathOption([]string{"cmd", "-c"}, "-c", "--config_filepath")
		assert.False(t, ok)
	})
}

// TestContainerClassRegistry tests registration and kind-checked resolution
func TestContainerClassRegistry(t *testing.T) {
	RegisterContainerClass[cliAppConfig]("clitest.cliAppConfig")
	RegisterContainerClass[cliAppSettings]("clitest.cliAppSettings")

	t.Run("Resolve", func(t *testing.T) {
		handle, err := resolveContainerClass(KindConfig, "clitest.cliAppConfig")
		require.NoError(t, err)
		assert.Equal(t, KindConfig, handle.kind)
		assert.False(t, handle.updateable)
		assert.Equal(t, "config.toml", handle.defaultFilename())

		handle, err = resolveContainerClass(KindSettings, "clitest.cliAppSettings")
		require.NoError(t, err)
		assert.True(t, handle.updateable)
		assert.Equal(t, "settings.json", handle.defaultFilename())
	})

	t.Run("KindMismatch", func(t *testing.T) {
		_, err := resolveContainerClass(KindSettings, "clitest.cliAppConfig")
		assert.ErrorIs(t, err, ErrUnknownContainerClass)
		assert.Contains(t, err.Error(), "rather than")

		_, err = resolveContainerClass(KindConfig, "clitest.cliAppSettings")
		assert.ErrorIs(t, err, ErrUnknownContainerClass)
	})

	t.Run("Unregistered", func(t *testing.T) {
		_, err := resolveContainerClass(KindConfig, "clitest.Nobody")
		assert.ErrorIs(t, err, ErrUnknownContainerClass)
	})
}

// TestFilepathFromCLI tests the single-file command-line options
func TestFilepathFromCLI(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	t.Run("ConfigOption", func(t *testing.T) {
		resetState(t)

		path := filepath.Join(tmpDir, "from-cli.toml")
		require.NoError(t, ConfigFilepathFromCLI[cliAppConfig]([]string{"-c", path}, false))
		assert.Equal(t, path, Filepath[cliAppConfig]())
	})

	t.Run("SettingsOption", func(t *testing.T) {
		resetState(t)

		path := filepath.Join(tmpDir, "from-cli.json")
		require.NoError(t, SettingsFilepathFromCLI[cliAppSettings]([]string{"--settings_filepath=" + path}, false))
		assert.Equal(t, path, Filepath[cliAppSettings]())
	})

	t.Run("NoOption", func(t *testing.T) {
		resetState(t)

		require.NoError(t, ConfigFilepathFromCLI[cliAppConfig]([]string{"cmd"}, false))
		assert.Equal(t, DefaultFilepath[cliAppConfig](), Filepath[cliAppConfig]())
	})
}

// TestParametersFolderpathFromCLI tests folder-based dynamic resolution
func TestParametersFolderpathFromCLI(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	RegisterContainerClass[cliAppConfig]("clitest.cliAppConfig")
	RegisterContainerClass[cliAppSettings]("clitest.cliAppSettings")

	writeFolder := func(t *testing.T, withSettings bool) string {
		t.Helper()
		folder := t.TempDir()

		config := "value = \"from-folder\"\n"
		config += "\n[application_settings]\nconfig_container_class = \"clitest.cliAppConfig\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(folder, "config.toml"), []byte(config), 0644))

		if withSettings {
			settings := `{"application_settings": {"settings_container_class": "clitest.cliAppSettings"}, "label": "from-folder"}`
			require.NoError(t, os.WriteFile(filepath.Join(folder, "settings.json"), []byte(settings), 0644))
		}
		return folder
	}

	t.Run("BothKinds", func(t *testing.T) {
		resetState(t)
		captureAdvisories(t)
		folder := writeFolder(t, true)

		require.NoError(t, ParametersFolderpathFromCLI([]string{"-p", folder}, true))

		assert.Equal(t, "from-folder", Get[cliAppConfig]().Value)
		assert.Equal(t, "from-folder", Get[cliAppSettings]().Label)
		assert.Equal(t, filepath.Join(folder, "config.toml"), Filepath[cliAppConfig]())
		assert.Equal(t, filepath.Join(folder, "settings.json"), Filepath[cliAppSettings]())
	})

	t.Run("MissingKindSkipped", func(t *testing.T) {
		resetState(t)
		logs := captureAdvisories(t)
		folder := writeFolder(t, false)

		require.NoError(t, ParametersFolderpathFromCLI([]string{"--parameters_folderpath", folder}, true))

		assert.Equal(t, "from-folder", Get[cliAppConfig]().Value)
		assert.Len(t, logs.byMessage("no parameter file in folder, skipping"), 1)
	})

	t.Run("UnregisteredClass", func(t *testing.T) {
		resetState(t)
		captureAdvisories(t)

		folder := t.TempDir()
		config := "[application_settings]\nconfig_container_class = \"clitest.Nobody\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(folder, "config.toml"), []byte(config), 0644))

		err := ParametersFolderpathFromCLI([]string{"-p", folder}, true)
		assert.ErrorIs(t, err, ErrUnknownContainerClass)
	})

	t.Run("NoOption", func(t *testing.T) {
		resetState(t)
		require.NoError(t, ParametersFolderpathFromCLI([]string{"cmd"}, true))
	})
}
