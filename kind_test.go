package appsettings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParameterKind(t *testing.T) {
	assert.Equal(t, "Config", KindConfig.String())
	assert.Equal(t, "Settings", KindSettings.String())

	assert.Equal(t, FormatTOML, KindConfig.DefaultFormat())
	assert.Equal(t, FormatJSON, KindSettings.DefaultFormat())
}

func TestFileFormat(t *testing.T) {
	assert.Equal(t, ".toml", FormatTOML.Ext())
	assert.Equal(t, ".json", FormatJSON.Ext())
}
