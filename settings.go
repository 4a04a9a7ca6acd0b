package appsettings

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// SettingsContainer is the contract for updateable containers: containers
// embedding SettingsBase. Config containers do not satisfy it, which keeps
// Update unavailable for them at compile time.
type SettingsContainer interface {
	Container
	updateableContainer()
}

// Update produces a new instance of S with the named top-level fields
// replaced by the corresponding values in changes, re-registers it as the
// singleton, and persists it to the resolved file path.
//
// Replacement is shallow: a change targets a whole top-level field, never
// an individual field inside a nested section. A change naming a nested
// section constructs that section anew from its declared defaults plus the
// given mapping; the previous section values do not carry over. Unlisted
// fields retain their prior values. A change key matching no declared
// field is an error, as is an unresolvable file path (ErrNoFilePath).
// Readers holding the previous instance are unaffected; the singleton jump
// from old to new is whole-instance.
func Update[S SettingsContainer](changes map[string]any) (S, error) {
	var zero S

	updated := Get[S]()
	resetReplacedSections(&updated, changes)
	if err := decodeChanges(&updated, changes); err != nil {
		return zero, newValidationError(typeOf[S]().Name(), err)
	}

	registerTree(updated)

	if err := saveContainer[S](updated); err != nil {
		return zero, err
	}
	return updated, nil
}

// resetReplacedSections zeroes every nested section named in changes and
// re-applies its declared defaults, so that the decoder fills a fresh
// section instead of merging into the previous one. Scalar fields need no
// reset; the decoder overwrites them directly.
func resetReplacedSections(target any, changes map[string]any) {
	rv := reflect.ValueOf(target).Elem()
	for _, spec := range collectFields(rv, tagName(KindSettings)) {
		if !spec.isSection {
			continue
		}
		if _, listed := changes[spec.name]; !listed {
			continue
		}
		spec.value.Set(reflect.Zero(spec.value.Type()))
		applyDefaultsTree(spec.value)
	}
}

// decodeChanges decodes changes over a copy of the current instance.
// ZeroFields gives whole-value replacement for slice and map fields;
// ErrorUnused rejects keys that match no declared field.
func decodeChanges(target any, changes map[string]any) error {
	if changes == nil {
		changes = map[string]any{}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName(KindSettings),
		Squash:           true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}

	return decoder.Decode(changes)
}
