package predictor

import "math"

// RawInput maps a display field key to the text typed into it.
type RawInput map[string]string

// FailureMode is the classifier's categorical prediction.
type FailureMode string

const (
	// FlexureFailure is reported for classifier code 0.
	FlexureFailure FailureMode = "Flexure failure"
	// ShearFailure is reported for classifier code 1.
	ShearFailure FailureMode = "Shear failure"
	// FlexureShearFailure is reported for every other code.
	FlexureShearFailure FailureMode = "Flexure-shear failure"
)

// FailureModeFromCode maps a raw classifier code to its label. Any value other
// than 0 or 1, NaN included, falls through to FlexureShearFailure.
func FailureModeFromCode(code float64) FailureMode {
	switch code {
	case 0:
		return FlexureFailure
	case 1:
		return ShearFailure
	default:
		return FlexureShearFailure
	}
}

// FieldDescriptor ties a form field to the feature name the models expect.
type FieldDescriptor struct {
	Display     string `json:"display" yaml:"display"`
	Canonical   string `json:"canonical" yaml:"canonical"`
	Description string `json:"description" yaml:"description"`
}

// FieldValue is a parsed input echoed back with the result.
type FieldValue struct {
	Field FieldDescriptor `json:"field"`
	Value float64         `json:"value"`
}

// FeatureVector is an ordered set of named model inputs.
type FeatureVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Len returns the number of features.
func (v FeatureVector) Len() int {
	return len(v.Names)
}

// Get returns the value stored under name.
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Augment returns a copy of the vector with one extra feature appended.
func (v FeatureVector) Augment(name string, value float64) FeatureVector {
	out := FeatureVector{
		Names:  make([]string, len(v.Names), len(v.Names)+1),
		Values: make([]float64, len(v.Values), len(v.Values)+1),
	}
	copy(out.Names, v.Names)
	copy(out.Values, v.Values)
	out.Names = append(out.Names, name)
	out.Values = append(out.Values, value)
	return out
}

// Float32s converts the values for float tensors.
func (v FeatureVector) Float32s() []float32 {
	out := make([]float32, len(v.Values))
	for i, x := range v.Values {
		out[i] = float32(x)
	}
	return out
}

// PredictionResult is the outcome of a single prediction request.
type PredictionResult struct {
	RequestID     string       `json:"requestId"`
	FailureMode   FailureMode  `json:"failureMode"`
	Code          float64      `json:"code"`
	ShearStrength float64      `json:"ultimateShearStrength"`
	Inputs        []FieldValue `json:"inputs"`
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
