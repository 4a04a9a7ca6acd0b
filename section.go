package appsettings

import (
	"errors"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Section is the contract for a parameter container section: a typed,
// nested-capable record whose kind is fixed at type-definition time.
// Concrete sections embed ConfigSectionBase or SettingsSectionBase and
// declare exported, tag-named fields (`toml` tags for config sections,
// `json` tags for settings sections). Each field is a scalar, a value with
// a declared default, or a nested section.
//
// Sections are immutable by convention: a new instance replaces, never
// mutates, a registered one.
type Section interface {
	// Kind returns either KindConfig or KindSettings.
	Kind() ParameterKind
}

// Defaulter is implemented by sections that declare non-zero field
// defaults. ApplyDefaults is invoked on a freshly allocated instance before
// any data is decoded over it. Hooks run bottom-up: nested sections first,
// the enclosing section last, so a parent may override its children.
type Defaulter interface {
	ApplyDefaults()
}

// ConfigSectionBase is the embeddable base for config sections.
type ConfigSectionBase struct{}

// Kind returns KindConfig.
func (ConfigSectionBase) Kind() ParameterKind { return KindConfig }

// SettingsSectionBase is the embeddable base for settings sections.
type SettingsSectionBase struct{}

// Kind returns KindSettings.
func (SettingsSectionBase) Kind() ParameterKind { return KindSettings }

// Get returns the current singleton for S. If none is registered yet, an
// advisory is logged (severity per strict mode) and an instance is
// created, registered, and returned. Creation happens from the parameter
// file when S is a root container whose file resolves, so that the first
// access to a container sees the stored values; plain sections are
// synthesized from declared defaults only.
//
// In Go every field has at least its zero value as default, so
// zero-configuration construction cannot fail for a well-formed section
// type; a failure to load or decode the container file is logged and the
// defaults-only value returned.
func Get[S Section]() S {
	if v, ok := store.section(typeOf[S]()); ok {
		return v.(S)
	}

	getWithoutLoad[S]()

	var zero S
	if c, ok := any(zero).(Container); ok {
		inst, err := loadContainer(typeOf[S](), c, LoadOptions{})
		if err == nil {
			return inst.(S)
		}
		logger().Error("loading parameter file on first access failed, continuing with defaults",
			"container", typeOf[S]().Name(), "error", err)
	}

	s, err := Set[S](nil)
	if err != nil {
		logger().Error("zero-configuration construction failed",
			"section", typeOf[S]().Name(), "error", err)
	}
	return s
}

// ZeroLoadHandler may be implemented by a section type to replace the
// default handling of a Get that found no singleton. The default logs an
// advisory naming the type and the command-line remedy; an implementation
// may reduce that to a no-op.
type ZeroLoadHandler interface {
	GetWithoutLoad()
}

// getWithoutLoad runs exactly when Get finds no singleton for S.
func getWithoutLoad[S Section]() {
	var zero S
	if h, ok := any(zero).(ZeroLoadHandler); ok {
		h.GetWithoutLoad()
		return
	}

	name := typeOf[S]().Name()
	logAdvisory(zero.Kind(), "parameter section accessed before data has been loaded",
		"kind", zero.Kind().String(),
		"section", name,
		"cli_hint", "--"+name+"_file")
}

// Set constructs a new instance of S from data, detects anomalies, and
// registers the instance (and every nested section value, recursively) as
// the singleton for its type. Unknown keys and absent fields are reported
// as advisories; a value that cannot be coerced to its declared field type
// aborts the whole construction with a ValidationError.
//
// Construction from an empty map is the zero-configuration path and skips
// anomaly detection so that defaults-only instances do not produce a
// spurious "all fields defaulted" report.
func Set[S Section](data map[string]any) (S, error) {
	inst, err := setAny(typeOf[S](), kindOf[S](), data)
	if err != nil {
		var zero S
		return zero, err
	}
	return inst.(S), nil
}

// setAny is the non-generic core of Set, keyed by the concrete section
// type: allocate, apply declared defaults bottom-up, decode data over the
// instance, report anomalies, register the tree. The load pipeline calls
// it directly for container types resolved at runtime.
func setAny(t reflect.Type, kind ParameterKind, data map[string]any) (any, error) {
	ptr := reflect.New(t)
	applyDefaultsTree(ptr.Elem())

	if err := decodeSection(ptr.Interface(), data, kind); err != nil {
		return nil, newValidationError(t.Name(), err)
	}
	inst := ptr.Elem().Interface()

	if len(data) > 0 {
		reportAnomalies(inst, data, "")
	}

	registerTree(inst)
	return inst, nil
}

// decodeSection decodes a raw mapping over target. The decoder is the
// validation/coercion collaborator: weakly typed input, duration and
// comma-separated-slice hooks, embedded bases squashed into their parent.
func decodeSection(target any, data map[string]any, kind ParameterKind) error {
	if data == nil {
		data = map[string]any{}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName(kind),
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}

// tagName selects the struct tag consulted for a kind: config sections are
// tagged for TOML, settings sections for JSON.
func tagName(kind ParameterKind) string {
	if kind == KindSettings {
		return "json"
	}
	return "toml"
}

func kindOf[S Section]() ParameterKind {
	var zero S
	return zero.Kind()
}

// applyDefaultsTree walks an addressable struct value depth-first and runs
// every ApplyDefaults hook it finds, children before parents.
func applyDefaultsTree(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Type.Kind() != reflect.Struct {
			continue
		}
		if field.Anonymous || isSectionType(field.Type) {
			applyDefaultsTree(v.Field(i))
		}
	}

	if v.CanAddr() {
		if d, ok := v.Addr().Interface().(Defaulter); ok {
			d.ApplyDefaults()
		}
	}
}

// registerTree stores v as the singleton for its exact type and recursively
// registers every nested section field value under its own type, so that a
// sub-section is independently retrievable via its own Get.
func registerTree(v any) {
	store.setSection(reflect.TypeOf(v), v)
	registerSubsections(reflect.ValueOf(v))
}

func registerSubsections(rv reflect.Value) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Type.Kind() != reflect.Struct {
			continue
		}

		fv := rv.Field(i)
		if field.Anonymous {
			// Embedded bases are markers, not sections of their own; their
			// promoted fields still participate.
			registerSubsections(fv)
			continue
		}
		if isSectionType(field.Type) {
			store.setSection(field.Type, fv.Interface())
			registerSubsections(fv)
		}
	}
}

var sectionIface = reflect.TypeOf((*Section)(nil)).Elem()

// isSectionType reports whether t is a struct type implementing Section.
func isSectionType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(sectionIface)
}

// newValidationError converts the decoder's aggregate error into a
// ValidationError enumerating every violating field.
func newValidationError(section string, err error) error {
	ve := &ValidationError{Section: section, err: err}

	var merr *mapstructure.Error
	if errors.As(err, &merr) {
		for _, msg := range merr.Errors {
			ve.Fields = append(ve.Fields, FieldError{
				Field:   quotedField(msg),
				Message: msg,
			})
		}
	} else {
		ve.Fields = []FieldError{{Message: err.Error()}}
	}
	return ve
}

// quotedField extracts the first single-quoted token of a decoder message,
// which is how mapstructure names the offending field.
func quotedField(msg string) string {
	start := strings.IndexByte(msg, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
