package appsettings

import "log/slog"

// The library configures itself through the same mechanism it provides:
// each root container carries a meta-section under the key
// "application_settings" naming the application's concrete container type
// (for dynamic resolution from a data file) and the strict-mode flag.

// ApplicationConfigSection is the library's own parameter section carried
// by every config container.
type ApplicationConfigSection struct {
	ConfigSectionBase

	// ConfigContainerClass is the qualified name of the application's root
	// config container type, used to resolve the type from a data file.
	ConfigContainerClass string `toml:"config_container_class"`

	// StrictMode elevates zero-load and anomaly advisories from debug to
	// warning severity.
	StrictMode bool `toml:"strict_mode"`
}

// ApplyDefaults implements Defaulter.
func (s *ApplicationConfigSection) ApplyDefaults() {
	s.ConfigContainerClass = "appsettings.ConfigBase"
}

// GetWithoutLoad implements ZeroLoadHandler as a no-op: accessing the
// meta-section before a load is routine (logLevel itself does it), so the
// default advisory would loop.
func (ApplicationConfigSection) GetWithoutLoad() {}

// ApplicationSettingsSection is the library's own parameter section carried
// by every settings container.
type ApplicationSettingsSection struct {
	SettingsSectionBase

	// SettingsContainerClass is the qualified name of the application's
	// root settings container type.
	SettingsContainerClass string `json:"settings_container_class"`

	// StrictMode elevates zero-load and anomaly advisories from debug to
	// warning severity.
	StrictMode bool `json:"strict_mode"`
}

// ApplyDefaults implements Defaulter.
func (s *ApplicationSettingsSection) ApplyDefaults() {
	s.SettingsContainerClass = "appsettings.SettingsBase"
}

// GetWithoutLoad implements ZeroLoadHandler as a no-op.
func (ApplicationSettingsSection) GetWithoutLoad() {}

// logLevel returns the advisory severity for a kind: warning when the
// corresponding meta-section enables strict mode, debug otherwise.
func logLevel(kind ParameterKind) slog.Level {
	var strict bool
	switch kind {
	case KindConfig:
		strict = Get[ApplicationConfigSection]().StrictMode
	case KindSettings:
		strict = Get[ApplicationSettingsSection]().StrictMode
	}
	if strict {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}
