package appsettings

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Dynamic container resolution. A data file can name the concrete container
// type that should be instantiated for it (meta-section entry); since Go
// has no dynamic import, applications register their container types under
// a qualified name and the convenience layer resolves through this
// registry.

// containerHandle is the registered capability set of a container type.
type containerHandle struct {
	name            string
	kind            ParameterKind
	updateable      bool
	defaultFilename func() string
	setFilepath     func(path string, load bool) error
}

var classRegistry = struct {
	mutex   sync.RWMutex
	handles map[string]containerHandle
}{handles: make(map[string]containerHandle)}

// RegisterContainerClass makes the container type C resolvable under
// qualifiedName, typically the value the application writes into its
// meta-section (e.g. "myapp.MyAppConfig"). Re-registering a name replaces
// the previous entry.
func RegisterContainerClass[C Container](qualifiedName string) {
	var zero C
	_, updateable := any(zero).(interface{ updateableContainer() })

	handle := containerHandle{
		name:            qualifiedName,
		kind:            kindOf[C](),
		updateable:      updateable,
		defaultFilename: DefaultFilename[C],
		setFilepath:     SetFilepath[C],
	}

	classRegistry.mutex.Lock()
	defer classRegistry.mutex.Unlock()
	classRegistry.handles[qualifiedName] = handle
}

// resolveContainerClass returns the handle for qualifiedName, checked
// against the expected kind: a Settings type is not acceptable where a
// Config is required, and vice versa.
func resolveContainerClass(kind ParameterKind, qualifiedName string) (containerHandle, error) {
	classRegistry.mutex.RLock()
	handle, ok := classRegistry.handles[qualifiedName]
	classRegistry.mutex.RUnlock()

	if !ok {
		return containerHandle{}, fmt.Errorf("%w: %q is not registered", ErrUnknownContainerClass, qualifiedName)
	}
	if wantUpdateable := kind == KindSettings; handle.updateable != wantUpdateable {
		return containerHandle{}, fmt.Errorf("%w: %q implements a %s rather than a %s",
			ErrUnknownContainerClass, qualifiedName, handle.kind, kind)
	}
	return handle, nil
}

// ConfigFilepathFromCLI applies the `-c` / `--config_filepath` command-line
// option to the config container C. Arguments without the option are a
// no-op.
func ConfigFilepathFromCLI[C Container](args []string, load bool) error {
	path, ok := scanPathOption(args, "-c", "--config_filepath")
	if !ok {
		return nil
	}
	return SetFilepath[C](path, load)
}

// SettingsFilepathFromCLI applies the `-s` / `--settings_filepath`
// command-line option to the settings container S.
func SettingsFilepathFromCLI[S SettingsContainer](args []string, load bool) error {
	path, ok := scanPathOption(args, "-s", "--settings_filepath")
	if !ok {
		return nil
	}
	return SetFilepath[S](path, load)
}

// ParametersFolderpathFromCLI applies the `-p` / `--parameters_folderpath`
// option: for each kind, the default-named file inside the folder is peeked
// for its container class entry, the class is resolved through the
// registry, and the file path is applied to it. A kind whose default file
// is absent from the folder is skipped with an advisory.
func ParametersFolderpathFromCLI(args []string, load bool) error {
	folder, ok := scanPathOption(args, "-p", "--parameters_folderpath")
	if !ok {
		return nil
	}

	for _, kind := range []ParameterKind{KindConfig, KindSettings} {
		file := filepath.Join(folder, kindDefaultFilename(kind))
		if !isFile(file) {
			logAdvisory(kind, "no parameter file in folder, skipping",
				"kind", kind.String(), "path", file)
			continue
		}

		className, err := ContainerClassFromFile(kind, file)
		if err != nil {
			return err
		}
		handle, err := resolveContainerClass(kind, className)
		if err != nil {
			return err
		}
		if err := handle.setFilepath(filepath.Join(folder, handle.defaultFilename()), load); err != nil {
			return err
		}
	}
	return nil
}

// kindDefaultFilename is the default file name for a kind before the
// concrete container type is known: "config.toml" or "settings.json".
func kindDefaultFilename(kind ParameterKind) string {
	return strings.ToLower(kind.String()) + kind.DefaultFormat().Ext()
}

// scanPathOption finds the value of a `-x value`, `--xlong value`,
// `-x=value` or `--xlong=value` option in args.
func scanPathOption(args []string, short, long string) (string, bool) {
	for i, arg := range args {
		if arg == short || arg == long {
			if i+1 < len(args) {
				return args[i+1], true
			}
			return "", false
		}
		if value, found := strings.CutPrefix(arg, short+"="); found {
			return value, true
		}
		if value, found := strings.CutPrefix(arg, long+"="); found {
			return value, true
		}
	}
	return "", false
}
