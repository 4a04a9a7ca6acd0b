package appsettings

import (
	"reflect"
	"strings"
)

// Anomaly detection compares a section's declared fields against the raw
// input mapping it was constructed from. Declared non-subsection fields
// absent from the input are reported as defaulted; input keys matching no
// declared field are reported as extra. The check recurses into every
// nested section with a dotted-path label and never fails: it only logs,
// at the severity selected by the strict-mode flag.

// fieldSpec describes one declared field of a section type, named by its
// serialization tag.
type fieldSpec struct {
	name      string
	isSection bool
	value     reflect.Value
}

// reportAnomalies runs the check for inst against data. label is the dotted
// path of the section within its tree; the root section uses "".
func reportAnomalies(inst any, data map[string]any, label string) {
	sec, ok := inst.(Section)
	if !ok {
		return
	}
	kind := sec.Kind()

	specs := collectFields(reflect.ValueOf(inst), tagName(kind))

	declared := make(map[string]bool, len(specs))
	for _, spec := range specs {
		declared[spec.name] = true
	}

	for _, spec := range specs {
		if spec.isSection {
			continue
		}
		if _, present := data[spec.name]; !present {
			logAdvisory(kind, "parameter initialized with default value",
				"parameter", spec.name, "section", sectionLabel(label))
		}
	}

	for key := range data {
		if !declared[key] {
			logAdvisory(kind, "extra parameter not used for initialization",
				"parameter", key, "section", sectionLabel(label))
		}
	}

	for _, spec := range specs {
		if !spec.isSection {
			continue
		}
		childLabel := spec.name
		if label != "" {
			childLabel = label + "." + spec.name
		}
		reportAnomalies(spec.value.Interface(), subMapping(data, spec.name), childLabel)
	}
}

// collectFields lists the declared fields of a struct value under the given
// tag name, promoting the fields of anonymous embedded structs the same way
// the decoder squashes them.
func collectFields(rv reflect.Value, tag string) []fieldSpec {
	t := rv.Type()
	specs := make([]fieldSpec, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			specs = append(specs, collectFields(rv.Field(i), tag)...)
			continue
		}

		name := field.Name
		if tagValue := field.Tag.Get(tag); tagValue != "" {
			tagName, _, _ := strings.Cut(tagValue, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		specs = append(specs, fieldSpec{
			name:      name,
			isSection: isSectionType(field.Type),
			value:     rv.Field(i),
		})
	}

	return specs
}

func sectionLabel(label string) string {
	if label == "" {
		return "root"
	}
	return label
}
