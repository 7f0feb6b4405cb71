package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/shearpredict/predictor"
)

// fieldsPerColumn is how many inputs are stacked in one form column.
const fieldsPerColumn = 6

type uiState struct {
	service *predictor.Service
	cfg     predictor.Config
	fields  []predictor.FieldDescriptor

	w          fyne.Window
	entries    map[string]*widget.Entry
	result     *widget.RichText
	logo       fyne.CanvasObject
	status     *widget.Label
	statusBind binding.String
	logBind    binding.String

	predictBtn *widget.Button
	clearBtn   *widget.Button
}

func buildUI(a fyne.App, w fyne.Window, svc *predictor.Service, cfg predictor.Config, logBind binding.String) *uiState {
	u := &uiState{service: svc, cfg: cfg, fields: predictor.Fields(), w: w, logBind: logBind}
	if svc != nil {
		u.cfg = svc.Config()
		u.fields = svc.Fields()
	}
	if u.w == nil {
		u.w = a.NewWindow(Title)
	}
	if u.logBind == nil {
		u.logBind = binding.NewString()
	}

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Ready")
	u.status = widget.NewLabelWithData(u.statusBind)

	u.result = widget.NewRichText()
	u.result.Wrapping = fyne.TextWrapWord

	u.predictBtn = widget.NewButtonWithIcon("Predict", theme.ConfirmIcon(), u.onPredict)
	u.predictBtn.Importance = widget.HighImportance
	u.clearBtn = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), u.onClear)

	inputCard := widget.NewCard("Input Parameters", "", u.buildForm())
	buttons := container.NewHBox(layout.NewSpacer(), u.predictBtn, u.clearBtn)
	resultCard := widget.NewCard("Prediction Result", "", container.NewVScroll(u.result))

	logLabel := widget.NewLabelWithData(u.logBind)
	logLabel.Wrapping = fyne.TextWrapWord
	logLabel.TextStyle = fyne.TextStyle{Monospace: true}
	logCard := widget.NewCard("Log", "", container.NewVScroll(logLabel))

	left := container.NewBorder(
		container.NewVBox(inputCard, buttons),
		u.status,
		nil, nil,
		container.NewVSplit(resultCard, logCard),
	)
	u.logo = u.buildLogo()
	right := container.NewBorder(nil,
		container.NewHBox(layout.NewSpacer(), u.logo),
		nil, nil,
		widget.NewCard("Schematic Diagram", "", u.buildSchematic()),
	)
	split := container.NewHSplit(left, right)
	split.Offset = 0.65

	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1400, 800))
	return u
}

// buildForm lays the inputs out in columns of fieldsPerColumn label/entry rows.
func (u *uiState) buildForm() fyne.CanvasObject {
	u.entries = make(map[string]*widget.Entry, len(u.fields))
	var columns []fyne.CanvasObject
	var current *fyne.Container
	for i, f := range u.fields {
		if i%fieldsPerColumn == 0 {
			current = container.New(layout.NewFormLayout())
			columns = append(columns, current)
		}
		entry := widget.NewEntry()
		entry.SetPlaceHolder(f.Display)
		entry.OnSubmitted = func(string) { u.onPredict() }
		u.entries[f.Display] = entry
		current.Add(widget.NewLabel(f.Description + ":"))
		current.Add(entry)
	}
	return container.NewGridWithColumns(len(columns), columns...)
}

func (u *uiState) buildSchematic() fyne.CanvasObject {
	if u.cfg.SchematicPath == "" {
		return widget.NewLabel("No schematic configured")
	}
	img, err := u.resourceImage(u.cfg.SchematicPath, fyne.NewSize(450, 500))
	if err != nil {
		msg := widget.NewLabel(fmt.Sprintf("Failed to load image: %v", err))
		msg.Wrapping = fyne.TextWrapWord
		return msg
	}
	return img
}

// buildLogo returns the corner logo, or a muted placeholder when the file is
// missing.
func (u *uiState) buildLogo() fyne.CanvasObject {
	img, err := u.resourceImage(u.cfg.LogoPath, fyne.NewSize(100, 100))
	if err != nil {
		return widget.NewRichText(&widget.TextSegment{
			Text: "Logo not found",
			Style: widget.RichTextStyle{
				ColorName: theme.ColorNameDisabled,
				SizeName:  theme.SizeNameText,
			},
		})
	}
	return img
}

func (u *uiState) resourceImage(name string, minSize fyne.Size) (*canvas.Image, error) {
	path, err := predictor.ResolveResource(u.cfg.Models.ResourceDir, name)
	if err != nil {
		return nil, err
	}
	img := canvas.NewImageFromFile(path)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(minSize)
	return img, nil
}

// collect reads every entry as typed; validation happens in the service.
func (u *uiState) collect() predictor.RawInput {
	raw := make(predictor.RawInput, len(u.entries))
	for key, e := range u.entries {
		raw[key] = e.Text
	}
	return raw
}

func (u *uiState) onPredict() {
	if u.service == nil {
		return
	}
	res, err := u.service.Predict(context.Background(), u.collect())
	if err != nil {
		u.showPredictError(err)
		return
	}
	u.result.Segments = resultSegments(res, u.cfg.Precision)
	u.result.Refresh()
	_ = u.statusBind.Set(fmt.Sprintf("%s, %s", res.FailureMode, predictor.FormatStrength(res.ShearStrength, u.cfg.Precision)))
}

func (u *uiState) showPredictError(err error) {
	var missing *predictor.MissingFieldError
	var invalid *predictor.InvalidFormatError
	switch {
	case errors.As(err, &missing):
		_ = u.statusBind.Set("Incomplete input")
		dialog.ShowInformation("Incomplete Input", fmt.Sprintf("Please fill in: %s", missing.Field.Description), u.w)
	case errors.As(err, &invalid):
		_ = u.statusBind.Set("Invalid input")
		dialog.ShowInformation("Invalid Input",
			"Please enter valid numbers in the following fields:\n"+strings.Join(invalid.Descriptions(), "\n"), u.w)
	default:
		_ = u.statusBind.Set("Prediction failed")
		dialog.ShowError(fmt.Errorf("an error occurred during prediction: %w", err), u.w)
	}
}

func (u *uiState) onClear() {
	for _, e := range u.entries {
		e.SetText("")
	}
	u.result.Segments = nil
	u.result.Refresh()
	_ = u.statusBind.Set("Ready")
}

// blockPredictions leaves the form usable for typing but disables Predict.
func (u *uiState) blockPredictions(err error) {
	u.predictBtn.Disable()
	_ = u.statusBind.Set("Models unavailable")
	dialog.ShowError(fmt.Errorf("failed to load models: %w", err), u.w)
}

// resultSegments renders the result like predictor.FormatResult, with the
// failure mode and the strength emphasized.
func resultSegments(res predictor.PredictionResult, precision int) []widget.RichTextSegment {
	label := widget.RichTextStyleInline
	heading := widget.RichTextStyle{
		ColorName: theme.ColorNameForeground,
		SizeName:  theme.SizeNameText,
		TextStyle: fyne.TextStyle{Bold: true},
	}
	strong := widget.RichTextStyle{
		ColorName: theme.ColorNameError,
		SizeName:  theme.SizeNameText,
		TextStyle: fyne.TextStyle{Bold: true},
	}
	segs := []widget.RichTextSegment{
		&widget.TextSegment{Text: "Prediction Results:", Style: heading},
		&widget.TextSegment{Text: "Failure mode: ", Style: label},
		&widget.TextSegment{Text: string(res.FailureMode), Style: strong},
		&widget.TextSegment{Text: "Ultimate shear strength: ", Style: label},
		&widget.TextSegment{Text: predictor.FormatStrength(res.ShearStrength, precision), Style: strong},
		&widget.TextSegment{Text: "Input Parameters:", Style: heading},
	}
	for _, in := range res.Inputs {
		segs = append(segs, &widget.TextSegment{
			Text:  fmt.Sprintf("%s: %s", in.Field.Description, predictor.FormatValue(in.Value)),
			Style: widget.RichTextStyleParagraph,
		})
	}
	return segs
}
