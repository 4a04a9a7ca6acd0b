package appsettings

// ParameterKind distinguishes the two container flavors.
type ParameterKind int

const (
	// KindConfig marks immutable, read-mostly configuration.
	KindConfig ParameterKind = iota
	// KindSettings marks configuration that the application may update and
	// persist at runtime.
	KindSettings
)

// String returns the display label, "Config" or "Settings".
func (k ParameterKind) String() string {
	switch k {
	case KindConfig:
		return "Config"
	case KindSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// DefaultFormat returns the serialization format associated with the kind:
// TOML for configs, JSON for settings.
func (k ParameterKind) DefaultFormat() FileFormat {
	if k == KindSettings {
		return FormatJSON
	}
	return FormatTOML
}

// FileFormat identifies an on-disk serialization format.
type FileFormat string

const (
	// FormatTOML is the TOML file format.
	FormatTOML FileFormat = "toml"
	// FormatJSON is the JSON file format.
	FormatJSON FileFormat = "json"
)

// Ext returns the file extension for the format, including the dot.
func (f FileFormat) Ext() string {
	return "." + string(f)
}
