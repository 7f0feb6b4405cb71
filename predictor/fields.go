package predictor

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DerivedFeature carries the classifier code into the regressor input.
const DerivedFeature = "predicted_m"

var expectedFeatures = [...]string{
	"L", "b", "h", "d", "fc", "Ag", "pl%", "fy", "ps%", "Asl", "fyt", "s", "Ast", "P", "n", "λ", "L/h",
}

var fieldTable = [...]FieldDescriptor{
	{Display: "L(mm)", Canonical: "L", Description: "Height of the column (mm)"},
	{Display: "b(mm)", Canonical: "b", Description: "Width of column section (mm)"},
	{Display: "h(mm)", Canonical: "h", Description: "Height of column section (mm)"},
	{Display: "d(mm)", Canonical: "d", Description: "Section effective depth (mm)"},
	{Display: "fc(mm)", Canonical: "fc", Description: "Compressive strength of concrete (mm)"},
	{Display: "Ag(mm)", Canonical: "Ag", Description: "Gross area of column section (mm)"},
	{Display: "pl(%)", Canonical: "pl%", Description: "Longitudinal reinforcement ratio (%)"},
	{Display: "fy(Mpa)", Canonical: "fy", Description: "Yield strength of longitudinal bar (Mpa)"},
	{Display: "ps(%)", Canonical: "ps%", Description: "Transverse reinforcement volumetric ratio (%)"},
	{Display: "Asl(mm²)", Canonical: "Asl", Description: "Area of a single longitudinal bar (mm²)"},
	{Display: "fyt(Mpa)", Canonical: "fyt", Description: "Yield strength of transverse steel (Mpa)"},
	{Display: "s(mm)", Canonical: "s", Description: "Spacing of transverse reinforcement (mm)"},
	{Display: "Ast(mm²)", Canonical: "Ast", Description: "Area of transverse reinforcement bar (mm²)"},
	{Display: "P(kN)", Canonical: "P", Description: "Applied axial load (kN)"},
	{Display: "n", Canonical: "n", Description: "Axial compression ratio"},
	{Display: "λ", Canonical: "λ", Description: "Shear span ratio"},
	{Display: "L/h", Canonical: "L/h", Description: "Span-to-Depth Ratio"},
}

// ExpectedFeatures returns the canonical feature order the models were trained on.
func ExpectedFeatures() []string {
	out := make([]string, len(expectedFeatures))
	copy(out, expectedFeatures[:])
	return out
}

// Fields returns the form field table in display order.
func Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(fieldTable))
	copy(out, fieldTable[:])
	return out
}

// LookupField resolves a display or canonical key to its descriptor. Keys are
// compared in NFKC form, so "Asl(mm2)" finds "Asl(mm²)".
func LookupField(fields []FieldDescriptor, key string) (FieldDescriptor, bool) {
	key = foldKey(key)
	for _, f := range fields {
		if foldKey(f.Display) == key || foldKey(f.Canonical) == key {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

func foldKey(key string) string {
	return strings.TrimSpace(norm.NFKC.String(key))
}

// ValidateFieldTable checks that the table covers every expected feature exactly
// once and maps nothing the models do not know about.
func ValidateFieldTable(fields []FieldDescriptor, expected []string) error {
	known := make(map[string]struct{}, len(expected))
	for _, name := range expected {
		known[name] = struct{}{}
	}
	seenDisplay := make(map[string]struct{}, len(fields))
	seenCanonical := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Display == "" || f.Canonical == "" {
			return &FeatureConfigError{Detail: fmt.Sprintf("field %q has an empty key", f.Description)}
		}
		if _, dup := seenDisplay[f.Display]; dup {
			return &FeatureConfigError{Detail: fmt.Sprintf("display key %q is listed twice", f.Display)}
		}
		seenDisplay[f.Display] = struct{}{}
		if _, ok := known[f.Canonical]; !ok {
			return &FeatureConfigError{Detail: fmt.Sprintf("field %q maps to unknown feature %q", f.Display, f.Canonical)}
		}
		if _, dup := seenCanonical[f.Canonical]; dup {
			return &FeatureConfigError{Detail: fmt.Sprintf("feature %q is mapped twice", f.Canonical)}
		}
		seenCanonical[f.Canonical] = struct{}{}
	}
	var missing []string
	for _, name := range expected {
		if _, ok := seenCanonical[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &FeatureConfigError{Missing: missing}
	}
	return nil
}
