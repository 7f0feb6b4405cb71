package predictor

import (
	"errors"
	"strconv"
)

// CheckFields validates raw form input against the field table and returns the
// parsed values keyed by display key.
//
// The first empty field (in table order) stops the check with a
// *MissingFieldError and no formats are inspected. Otherwise every field that
// is not a number is collected into one *InvalidFormatError.
func CheckFields(fields []FieldDescriptor, raw RawInput) (map[string]float64, error) {
	for _, f := range fields {
		if NormalizeRaw(raw[f.Display]) == "" {
			return nil, &MissingFieldError{Field: f}
		}
	}
	values := make(map[string]float64, len(fields))
	var invalid []FieldDescriptor
	for _, f := range fields {
		text := NormalizeRaw(raw[f.Display])
		if !IsNumeric(text) {
			invalid = append(invalid, f)
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			// Grammar matched but the exponent overflows float64.
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				invalid = append(invalid, f)
				continue
			}
			return nil, err
		}
		values[f.Display] = v
	}
	if len(invalid) > 0 {
		return nil, &InvalidFormatError{Fields: invalid}
	}
	return values, nil
}

// MapFeatures renames parsed display values to canonical feature names and
// lays them out in expected order. A feature the table fails to produce is a
// configuration fault, reported as *FeatureConfigError.
func MapFeatures(fields []FieldDescriptor, expected []string, values map[string]float64) (FeatureVector, error) {
	byCanonical := make(map[string]float64, len(fields))
	for _, f := range fields {
		v, ok := values[f.Display]
		if !ok {
			continue
		}
		byCanonical[f.Canonical] = v
	}
	vec := FeatureVector{
		Names:  make([]string, 0, len(expected)),
		Values: make([]float64, 0, len(expected)),
	}
	var missing []string
	for _, name := range expected {
		v, ok := byCanonical[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		vec.Names = append(vec.Names, name)
		vec.Values = append(vec.Values, v)
	}
	if len(missing) > 0 {
		return FeatureVector{}, &FeatureConfigError{Missing: missing}
	}
	return vec, nil
}

// echoInputs pairs each field with its parsed value in display order.
func echoInputs(fields []FieldDescriptor, values map[string]float64) []FieldValue {
	out := make([]FieldValue, 0, len(fields))
	for _, f := range fields {
		if v, ok := values[f.Display]; ok {
			out = append(out, FieldValue{Field: f, Value: v})
		}
	}
	return out
}
