package predictor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatResult(t *testing.T) {
	fields := Fields()
	res := PredictionResult{
		FailureMode:   FlexureShearFailure,
		Code:          2,
		ShearStrength: 412.123456,
		Inputs: []FieldValue{
			{Field: fields[0], Value: 3000},
			{Field: fields[14], Value: 0.3},
		},
	}

	out := FormatResult(res, 4)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{
		"Prediction Results:",
		"Failure mode: Flexure-shear failure",
		"Ultimate shear strength: 412.1235 kN",
		"",
		"Input Parameters:",
		"Height of the column (mm): 3000",
		"Axial compression ratio: 0.3",
	}, lines)
}

func TestFormatStrength(t *testing.T) {
	assert.Equal(t, "12.50 kN", FormatStrength(12.5, 2))
	assert.Equal(t, "13 kN", FormatStrength(12.5001, 0))
}
