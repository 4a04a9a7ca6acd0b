// Package appsettings provides typed, file-backed configuration and
// settings containers for Go applications. Applications define nested,
// strongly-typed parameter sections as tagged structs; the package loads
// them from TOML or JSON files, validates and coerces the values, keeps a
// process-wide singleton per container type, reports missing and extra
// parameters, and persists runtime updates of settings back to disk.
//
// Features:
//   - Config (immutable, TOML) and Settings (updateable, JSON) containers
//   - Nested sections, each independently retrievable as a typed singleton
//   - TOML cross-file inclusion via a reserved __include__ key
//   - Defaults via ApplyDefaults hooks; anomaly advisories for defaulted
//     and unknown parameters
//   - Atomic, lock-guarded file writes
//   - Container class resolution from a data file for CLI glue
//
// Quick start:
//
//	type ServerSection struct {
//	    appsettings.ConfigSectionBase
//	    Host string `toml:"host"`
//	    Port int    `toml:"port"`
//	}
//
//	func (s *ServerSection) ApplyDefaults() {
//	    s.Host = "localhost"
//	    s.Port = 8080
//	}
//
//	type MyAppConfig struct {
//	    appsettings.ConfigBase
//	    Server ServerSection `toml:"server"`
//	}
//
//	cfg, err := appsettings.Load[MyAppConfig]()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = cfg.Server.Port
//
//	// anywhere else in the application:
//	port := appsettings.Get[ServerSection]().Port
//
// The default file location is derived from the container type name:
// MyAppConfig loads ~/.my_app/config.toml, MyAppSettings loads
// ~/.my_app/settings.json. SetFilepath overrides the location.
//
// Settings may be updated at runtime; the change is validated, the
// singleton replaced whole, and the file rewritten atomically:
//
//	_, err = appsettings.Update[MyAppSettings](map[string]any{"name": "new"})
//
// Concurrency: the package assumes single-threaded configuration during
// application startup. Registered instances are never mutated in place, so
// a reader holding an instance across a reload keeps a consistent value;
// repeated Get calls observe a whole-instance jump from old to new.
package appsettings
