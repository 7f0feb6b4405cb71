package predictor

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every concrete error below matches exactly one of these
// through errors.Is.
var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidFormat = errors.New("invalid format")
	ErrFeatureConfig = errors.New("feature configuration fault")
	ErrInference     = errors.New("inference failure")
	ErrModelLoad     = errors.New("model load failure")
)

// MissingFieldError reports the first empty field in display order.
type MissingFieldError struct {
	Field FieldDescriptor
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("please fill in field: %s", e.Field.Description)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// InvalidFormatError lists every field whose text is not a number.
type InvalidFormatError struct {
	Fields []FieldDescriptor
}

func (e *InvalidFormatError) Error() string {
	return "please enter valid numbers in the following fields: " + strings.Join(e.Descriptions(), ", ")
}

func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidFormat }

// Descriptions returns the human readable names of the offending fields.
func (e *InvalidFormatError) Descriptions() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Description
	}
	return out
}

// FeatureConfigError signals a broken field table rather than bad user input.
type FeatureConfigError struct {
	Missing []string
	Detail  string
}

func (e *FeatureConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing expected feature: %s", strings.Join(e.Missing, ", "))
	}
	return "feature configuration: " + e.Detail
}

func (e *FeatureConfigError) Is(target error) bool { return target == ErrFeatureConfig }

// Stage names an inference step.
type Stage string

const (
	StageClassify Stage = "classify"
	StageRegress  Stage = "regress"
)

// InferenceError wraps a failure raised by one of the models.
type InferenceError struct {
	Stage Stage
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

func (e *InferenceError) Is(target error) bool { return target == ErrInference }

// ModelLoadError reports a model artifact that could not be opened.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load the model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

func (e *ModelLoadError) Is(target error) bool { return target == ErrModelLoad }
