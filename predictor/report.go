package predictor

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatStrength renders a strength value with the given number of decimals.
func FormatStrength(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64) + " kN"
}

// FormatValue renders an input the way it was parsed, without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatResult produces the plain-text result block shown after a prediction.
func FormatResult(res PredictionResult, precision int) string {
	var b strings.Builder
	b.WriteString("Prediction Results:\n")
	fmt.Fprintf(&b, "Failure mode: %s\n", res.FailureMode)
	fmt.Fprintf(&b, "Ultimate shear strength: %s\n\n", FormatStrength(res.ShearStrength, precision))
	b.WriteString("Input Parameters:\n")
	for _, in := range res.Inputs {
		fmt.Fprintf(&b, "%s: %s\n", in.Field.Description, FormatValue(in.Value))
	}
	return b.String()
}
