package appsettings

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// Container is the contract for a root section: a Section additionally
// bound to a file path and a serialization format. Concrete containers
// embed ConfigBase or SettingsBase.
type Container interface {
	Section
	// DefaultFileFormat returns the format used to derive the default
	// filename. Fixed per concrete container type.
	DefaultFileFormat() FileFormat
}

// DefaultFilepathProvider may be implemented by a container type to
// override the derived default path. Returning "" signals "no default; the
// path must be set explicitly".
type DefaultFilepathProvider interface {
	DefaultFilepath() string
}

// ConfigBase is the embeddable base for root config containers. Configs
// are immutable after load: they expose no update or save surface and are
// edited out-of-band by changing the file and reloading.
type ConfigBase struct {
	ConfigSectionBase

	// ApplicationConfig is the library's meta-section.
	ApplicationConfig ApplicationConfigSection `toml:"application_settings"`
}

// DefaultFileFormat returns FormatTOML.
func (ConfigBase) DefaultFileFormat() FileFormat { return FormatTOML }

// SettingsBase is the embeddable base for root settings containers.
type SettingsBase struct {
	SettingsSectionBase

	// ApplicationSettings is the library's meta-section.
	ApplicationSettings ApplicationSettingsSection `json:"application_settings"`
}

// DefaultFileFormat returns FormatJSON.
func (SettingsBase) DefaultFileFormat() FileFormat { return FormatJSON }

func (SettingsBase) updateableContainer() {}

// LoadOptions configures how a container is loaded from file.
type LoadOptions struct {
	// RequireFile converts a missing parameter file (or a missing included
	// file) into ErrFileNotFound instead of falling back to defaults.
	RequireFile bool
}

// DefaultFoldername derives the hidden-folder name for C: the type name
// with the kind label stripped, CamelCase converted to snake_case,
// prefixed with a dot. A type named exactly after its kind yields
// ".config" or ".settings".
func DefaultFoldername[C Container]() string {
	return defaultFoldernameFor(typeOf[C]().Name(), kindOf[C]())
}

func defaultFoldernameFor(name string, kind ParameterKind) string {
	kindString := kind.String()
	if name == kindString {
		return "." + strings.ToLower(kindString)
	}
	return "." + camelToSnake(strings.ReplaceAll(name, kindString, ""))
}

// DefaultFilename returns the kind label, lower-cased, with the extension
// of the container's default format: "config.toml" or "settings.json".
func DefaultFilename[C Container]() string {
	var zero C
	return defaultFilenameFor(kindOf[C](), zero.DefaultFileFormat())
}

func defaultFilenameFor(kind ParameterKind, format FileFormat) string {
	return strings.ToLower(kind.String()) + format.Ext()
}

// DefaultFilepath returns the home-relative default path for C, e.g.
// "~/.example/config.toml". Returns "" when the container type opts out via
// DefaultFilepathProvider or no home directory can be resolved.
func DefaultFilepath[C Container]() string {
	var zero C
	return defaultFilepathFor(zero, typeOf[C]())
}

func defaultFilepathFor(zero Container, t reflect.Type) string {
	if p, ok := zero.(DefaultFilepathProvider); ok {
		return p.DefaultFilepath()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home,
		defaultFoldernameFor(t.Name(), zero.Kind()),
		defaultFilenameFor(zero.Kind(), zero.DefaultFileFormat()))
}

// SetFilepath records the file path for C in the path table, replacing any
// previous entry. An empty path removes the entry instead, reverting
// Filepath to the default. The path must be syntactically valid for the
// current OS (ErrInvalidPath otherwise, before any state change) and is
// stored absolute.
//
// When load is true the container is loaded immediately; otherwise, if a
// singleton is already registered, an advisory notes that the new path has
// not yet been reflected by a (re)load.
func SetFilepath[C Container](path string, load bool) error {
	t := typeOf[C]()

	if path == "" {
		store.removePath(t)
	} else {
		if err := checkValidPath(path); err != nil {
			return err
		}
		absolute, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidPath, path, err)
		}
		store.setPath(t, absolute)
	}

	if load {
		_, err := Load[C]()
		return err
	}

	if _, registered := store.section(t); registered {
		logAdvisory(kindOf[C](), "file path set but not loaded into the container",
			"kind", kindOf[C]().String(),
			"container", t.Name(),
			"path", Filepath[C]())
	}
	return nil
}

// Filepath returns the path for the file that holds the parameters of C:
// the explicitly set path when present, else the default. "" means none.
func Filepath[C Container]() string {
	var zero C
	return containerPath(typeOf[C](), zero)
}

func containerPath(t reflect.Type, zero Container) string {
	if path, ok := store.path(t); ok {
		return path
	}
	return defaultFilepathFor(zero, t)
}

// Load creates a new singleton for C from its parameter file. A missing
// file degrades to a defaults-only instance with an advisory.
func Load[C Container]() (C, error) {
	return LoadWithOptions[C](LoadOptions{})
}

// LoadWithOptions is Load with explicit options. It resolves Filepath,
// parses the file according to its extension (TOML with include
// resolution, or plain JSON), and passes the resulting mapping through
// Set, which validates, reports anomalies, and registers the singleton
// tree.
func LoadWithOptions[C Container](opts LoadOptions) (C, error) {
	var zero C
	inst, err := loadContainer(typeOf[C](), zero, opts)
	if err != nil {
		return zero, err
	}
	return inst.(C), nil
}

// loadContainer is the non-generic core of the load pipeline, keyed by the
// concrete container type. Get uses it directly when first access to a
// container type happens before any explicit Load.
func loadContainer(t reflect.Type, zero Container, opts LoadOptions) (any, error) {
	kind := zero.Kind()
	path := containerPath(t, zero)

	data := map[string]any{}

	if path == "" || !isFile(path) {
		if opts.RequireFile {
			return nil, fmt.Errorf("%w: path %q not valid for %s file",
				ErrFileNotFound, path, strings.ToLower(kind.String()))
		}
		logAdvisory(kind, "parameter file not found, continuing with defaults",
			"kind", kind.String(),
			"container", t.Name(),
			"path", path)
	} else {
		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case FormatTOML.Ext():
			data, err = loadTOMLWithIncludes(kind, path, opts.RequireFile)
		case FormatJSON.Ext():
			data, err = loadJSONFile(path)
		default:
			logAdvisory(kind, "unsupported parameter file format, continuing with defaults",
				"path", path, "extension", filepath.Ext(path))
		}
		if err != nil {
			return nil, err
		}
	}

	return setAny(t, kind, data)
}

// saveContainer persists the full field tree of inst to its resolved path.
// ErrNoFilePath when no path is resolvable; an unsupported extension logs
// an advisory and skips the write.
func saveContainer[C Container](inst C) error {
	kind := kindOf[C]()
	path := Filepath[C]()
	if path == "" {
		return fmt.Errorf("%w: %s cannot be saved",
			ErrNoFilePath, strings.ToLower(kind.String()))
	}

	data := sectionToMap(reflect.ValueOf(inst), tagName(kind))

	switch strings.ToLower(filepath.Ext(path)) {
	case FormatTOML.Ext():
		return writeTOMLFile(path, data)
	case FormatJSON.Ext():
		return writeJSONFile(path, data)
	default:
		logAdvisory(kind, "unsupported parameter file format, not saved",
			"path", path, "extension", filepath.Ext(path))
		return nil
	}
}

// sectionToMap derives the plain nested mapping for a section tree, named
// by serialization tags.
func sectionToMap(rv reflect.Value, tag string) map[string]any {
	out := make(map[string]any)
	for _, spec := range collectFields(rv, tag) {
		if spec.isSection {
			out[spec.name] = sectionToMap(spec.value, tag)
		} else {
			out[spec.name] = spec.value.Interface()
		}
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
