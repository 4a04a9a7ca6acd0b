package appsettings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"
)

// includeKey is the reserved top-level TOML key naming other TOML files
// whose top-level tables are merged into the primary file.
const includeKey = "__include__"

// metaSectionKey is the top-level key of the library's own meta-section.
const metaSectionKey = "application_settings"

// maxParameterFileSize bounds reads of parameter files. A parameter file
// larger than this is misconfiguration, not configuration.
const maxParameterFileSize = 10 << 20

// readParameterFile reads a parameter file with the size limit applied.
// A missing file is reported as ErrFileNotFound.
func readParameterFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat parameter file '%s': %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	if info.Size() > maxParameterFileSize {
		return nil, fmt.Errorf("parameter file '%s' exceeds maximum size %d bytes", path, maxParameterFileSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parameter file '%s': %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxParameterFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file '%s': %w", path, err)
	}
	return data, nil
}

// parseTOMLFile reads and parses a single TOML file into a nested mapping.
func parseTOMLFile(path string) (map[string]any, error) {
	data, err := readParameterFile(path)
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]any)
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse TOML parameter file '%s': %w", path, err)
	}
	return parsed, nil
}

// loadTOMLWithIncludes parses the primary TOML file and resolves its
// __include__ directive: each referenced file, taken relative to the
// primary file's directory when not absolute, is shallow-merged at the top
// level. Precedence: the primary file wins over includes; among includes,
// the later listed wins. Missing included files are fatal only when
// requireFile is set; otherwise they are skipped with an advisory.
func loadTOMLWithIncludes(kind ParameterKind, path string, requireFile bool) (map[string]any, error) {
	primary, err := parseTOMLFile(path)
	if err != nil {
		return nil, err
	}

	directive, hasIncludes := primary[includeKey]
	if !hasIncludes {
		return primary, nil
	}
	delete(primary, includeKey)

	includes, err := includeList(directive)
	if err != nil {
		return nil, fmt.Errorf("in parameter file '%s': %w", path, err)
	}

	baseDir := filepath.Dir(path)
	merged := make(map[string]any)

	for _, include := range includes {
		if err := checkValidPath(include); err != nil {
			return nil, err
		}
		includePath := include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, includePath)
		}

		included, err := parseTOMLFile(includePath)
		if err != nil {
			if errors.Is(err, ErrFileNotFound) {
				if requireFile {
					return nil, err
				}
				logAdvisory(kind, "included parameter file not found, skipping",
					"path", includePath)
				continue
			}
			return nil, err
		}

		// No nested inclusion; a stray directive key in an included file
		// must not surface as an extra parameter.
		delete(included, includeKey)
		for key, value := range included {
			merged[key] = value
		}
	}

	for key, value := range primary {
		merged[key] = value
	}
	return merged, nil
}

// includeList normalizes the __include__ value to a list of path strings.
// The TOML parser hands arrays to a map[string]any target as []any.
func includeList(directive any) ([]string, error) {
	switch v := directive.(type) {
	case string:
		return []string{v}, nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string or an array of strings, got %T element", includeKey, item)
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%s must be a string or an array of strings, got %T", includeKey, directive)
	}
}

// loadJSONFile reads and parses a JSON parameter file into a nested
// mapping. Numbers are preserved as json.Number; the decoder's weak typing
// coerces them into the declared field types.
func loadJSONFile(path string) (map[string]any, error) {
	data, err := readParameterFile(path)
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]any)
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON parameter file '%s': %w", path, err)
	}
	return parsed, nil
}

// writeTOMLFile serializes data and writes it atomically.
func writeTOMLFile(path string, data map[string]any) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("failed to marshal parameter data to TOML: %w", err)
	}
	return atomicWriteFile(path, buf.Bytes())
}

// writeJSONFile serializes data and writes it atomically.
func writeJSONFile(path string, data map[string]any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal parameter data to JSON: %w", err)
	}
	return atomicWriteFile(path, append(encoded, '\n'))
}

// atomicWriteFile writes data through a temporary file in the target
// directory and renames it into place, under a sidecar advisory lock so
// that two processes persisting the same settings file do not interleave.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parameter directory '%s': %w", dir, err)
	}

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("failed to lock parameter file '%s': %w", path, err)
	}
	defer fileLock.Unlock()

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary parameter file in '%s': %w", dir, err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary parameter file '%s': %w", tempPath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary parameter file '%s': %w", tempPath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary parameter file '%s': %w", tempPath, err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on '%s': %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file to '%s': %w", path, err)
	}

	return nil
}

// checkValidPath verifies that a caller-supplied path is syntactically
// legal for the current operating system. It never touches the filesystem.
func checkValidPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidPath, path)
	}

	if runtime.GOOS == "windows" {
		rest := path
		if len(rest) >= 2 && rest[1] == ':' {
			rest = rest[2:] // drive prefix
		}
		if strings.ContainsAny(rest, `<>:"|?*`) {
			return fmt.Errorf("%w: %q contains characters not allowed on this OS", ErrInvalidPath, path)
		}
	}

	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if len(segment) > 255 {
			return fmt.Errorf("%w: path component exceeds 255 bytes", ErrInvalidPath)
		}
	}
	return nil
}

// ContainerClassFromFile peeks a parameter file for the qualified name of
// the concrete container type to use, without validating the rest of the
// document. The entry is read from the meta-section:
// "application_settings.config_container_class" for configs,
// "application_settings.settings_container_class" for settings.
func ContainerClassFromFile(kind ParameterKind, path string) (string, error) {
	data, err := readParameterFile(path)
	if err != nil {
		return "", err
	}

	key := metaSectionKey + "." + classFieldKey(kind)

	switch strings.ToLower(filepath.Ext(path)) {
	case FormatJSON.Ext():
		result := gjson.GetBytes(data, key)
		if !result.Exists() {
			return "", fmt.Errorf("%w: no %s entry in %s", ErrUnknownContainerClass, key, path)
		}
		return result.String(), nil

	case FormatTOML.Ext():
		parsed := make(map[string]any)
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return "", fmt.Errorf("failed to parse TOML parameter file '%s': %w", path, err)
		}
		name, ok := navigateMap(parsed, key).(string)
		if !ok {
			return "", fmt.Errorf("%w: no %s entry in %s", ErrUnknownContainerClass, key, path)
		}
		return name, nil

	default:
		return "", fmt.Errorf("unsupported parameter file format %q in %s", filepath.Ext(path), path)
	}
}

func classFieldKey(kind ParameterKind) string {
	if kind == KindSettings {
		return "settings_container_class"
	}
	return "config_container_class"
}
