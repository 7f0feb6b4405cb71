package app

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/shearpredict/predictor"
)

type stubClassifier struct{ code float64 }

func (s stubClassifier) Classify(context.Context, predictor.FeatureVector) (float64, error) {
	return s.code, nil
}

type stubRegressor struct{}

func (stubRegressor) Regress(_ context.Context, v predictor.FeatureVector) (float64, error) {
	p, _ := v.Get("P")
	return p * 0.5, nil
}

// sample holds one valid specimen keyed by feature name.
var sample = map[string]string{
	"L": "3000", "b": "300", "h": "300", "d": "260", "fc": "30", "Ag": "90000",
	"pl%": "1.5", "fy": "400", "ps%": "0.8", "Asl": "200", "fyt": "400", "s": "100",
	"Ast": "78", "P": "500", "n": "0.3", "λ": "2.0", "L/h": "10",
}

func newTestUI(t *testing.T) *uiState {
	t.Helper()
	a := test.NewTempApp(t)
	cfg := predictor.DefaultConfig()
	svc, err := predictor.NewService(predictor.Models{
		Classifier: stubClassifier{code: 1},
		Regressor:  stubRegressor{},
	}, cfg, nil)
	require.NoError(t, err)
	return buildUI(a, nil, svc, cfg, nil)
}

func fill(t *testing.T, u *uiState) {
	t.Helper()
	for _, f := range predictor.Fields() {
		e, ok := u.entries[f.Display]
		require.True(t, ok, f.Display)
		e.SetText(sample[f.Canonical])
	}
}

func TestBuildForm_OneEntryPerField(t *testing.T) {
	u := newTestUI(t)
	assert.Len(t, u.entries, len(predictor.Fields()))
}

func TestPredictAndClear(t *testing.T) {
	u := newTestUI(t)
	fill(t, u)

	u.onPredict()
	text := u.result.String()
	assert.Contains(t, text, "Shear failure")
	assert.Contains(t, text, "250.0000 kN")
	assert.Contains(t, text, "Span-to-Depth Ratio: 10")
	status, _ := u.statusBind.Get()
	assert.Equal(t, "Shear failure, 250.0000 kN", status)

	u.onClear()
	assert.Empty(t, u.result.String())
	for key, e := range u.entries {
		assert.Empty(t, e.Text, key)
	}
}

func TestPredict_RejectsIncompleteInput(t *testing.T) {
	u := newTestUI(t)
	fill(t, u)
	u.entries["P(kN)"].SetText("")

	u.onPredict()
	assert.Empty(t, u.result.String())
	status, _ := u.statusBind.Get()
	assert.Equal(t, "Incomplete input", status)

	u.entries["P(kN)"].SetText("abc")
	u.onPredict()
	status, _ = u.statusBind.Get()
	assert.Equal(t, "Invalid input", status)
}

func TestBlockPredictions(t *testing.T) {
	a := test.NewTempApp(t)
	u := buildUI(a, nil, nil, predictor.DefaultConfig(), nil)

	u.blockPredictions(errors.New("no such model"))
	assert.True(t, u.predictBtn.Disabled())
	status, _ := u.statusBind.Get()
	assert.Equal(t, "Models unavailable", status)

	u.onPredict()
	assert.Empty(t, u.result.String())
}

func TestResultSegments(t *testing.T) {
	res := predictor.PredictionResult{
		FailureMode:   predictor.FlexureFailure,
		ShearStrength: 412.12345,
	}
	segs := resultSegments(res, 2)
	require.Len(t, segs, 6)
	assert.Equal(t, "Flexure failure", segs[2].Textual())
	assert.Equal(t, "412.12 kN", segs[4].Textual())
}

func TestLogCapture_KeepsLastLines(t *testing.T) {
	b := binding.NewString()
	lc := newLogCapture(b, 2)

	_, err := lc.Write([]byte("one\ntwo\r\n"))
	require.NoError(t, err)
	_, err = lc.Write([]byte("three\n"))
	require.NoError(t, err)

	got, _ := b.Get()
	assert.Equal(t, "two\nthree", got)
}

func TestBuildLogo(t *testing.T) {
	a := test.NewTempApp(t)
	cfg := predictor.DefaultConfig()
	cfg.LogoPath = filepath.Join(t.TempDir(), "missing.png")

	u := buildUI(a, nil, nil, cfg, nil)
	placeholder, ok := u.logo.(*widget.RichText)
	require.True(t, ok)
	assert.Equal(t, "Logo not found", placeholder.String())

	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())
	cfg.LogoPath = path

	u = buildUI(a, nil, nil, cfg, nil)
	img, ok := u.logo.(*canvas.Image)
	require.True(t, ok)
	assert.Equal(t, path, img.File)
}

func TestStart_ModelLoadFailureDisablesPredict(t *testing.T) {
	a := test.NewTempApp(t)
	dir := t.TempDir()
	cfg := predictor.DefaultConfig()
	cfg.Models.OrtLibrary = filepath.Join(dir, "libonnxruntime.so")
	cfg.Models.ClassifierPath = filepath.Join(dir, "cls.onnx")
	cfg.Models.RegressorPath = filepath.Join(dir, "reg.onnx")

	u, logger := start(a, a.NewWindow(Title), cfg)
	require.NotNil(t, logger)
	assert.Nil(t, u.service)
	assert.True(t, u.predictBtn.Disabled())
	status, _ := u.statusBind.Get()
	assert.Equal(t, "Models unavailable", status)
}
