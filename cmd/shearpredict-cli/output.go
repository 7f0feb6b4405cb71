package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"yashubustudio/shearpredict/predictor"
)

var (
	colorHighlight = lipgloss.Color("#E74C3C")
	colorMuted     = lipgloss.Color("#7F8C8D")

	styleTitle     = lipgloss.NewStyle().Bold(true)
	styleHighlight = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
	styleMuted     = lipgloss.NewStyle().Foreground(colorMuted)
)

// styled reports whether w is an interactive terminal.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func paint(w io.Writer, s lipgloss.Style, text string) string {
	if !styled(w) {
		return text
	}
	return s.Render(text)
}

// renderResult returns predictor.FormatResult, with the failure mode and the
// strength emphasized when w is a terminal.
func renderResult(w io.Writer, res predictor.PredictionResult, precision int) string {
	if !styled(w) {
		return predictor.FormatResult(res, precision)
	}
	var b strings.Builder
	b.WriteString(paint(w, styleTitle, "Prediction Results:") + "\n")
	fmt.Fprintf(&b, "Failure mode: %s\n", paint(w, styleHighlight, string(res.FailureMode)))
	fmt.Fprintf(&b, "Ultimate shear strength: %s\n\n", paint(w, styleHighlight, predictor.FormatStrength(res.ShearStrength, precision)))
	b.WriteString(paint(w, styleTitle, "Input Parameters:") + "\n")
	for _, in := range res.Inputs {
		fmt.Fprintf(&b, "%s: %s\n", paint(w, styleMuted, in.Field.Description), predictor.FormatValue(in.Value))
	}
	return b.String()
}

func renderBatchLine(w io.Writer, rec batchRecord, precision int) string {
	label := fmt.Sprintf("line %d", rec.Line)
	if rec.ID != "" {
		label = fmt.Sprintf("%s (line %d)", rec.ID, rec.Line)
	}
	if rec.Result == nil {
		return fmt.Sprintf("%s: %s", label, paint(w, styleHighlight, "error: "+rec.Error))
	}
	return fmt.Sprintf("%s: %s, %s", label, rec.Result.FailureMode,
		predictor.FormatStrength(rec.Result.ShearStrength, precision))
}
