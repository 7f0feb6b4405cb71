package predictor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ort "github.com/yalue/onnxruntime_go"
)

func TestResolveResource(t *testing.T) {
	resDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(resDir, "models"), 0o755))
	bundled := filepath.Join(resDir, "models", "xgb_model.onnx")
	require.NoError(t, os.WriteFile(bundled, []byte("onnx"), 0o644))

	got, err := ResolveResource(resDir, "models/xgb_model.onnx")
	require.NoError(t, err)
	assert.Equal(t, bundled, got)

	got, err = ResolveResource("", bundled)
	require.NoError(t, err)
	assert.Equal(t, bundled, got)

	wd := t.TempDir()
	t.Chdir(wd)
	require.NoError(t, os.WriteFile("local.onnx", []byte("onnx"), 0o644))
	got, err = ResolveResource(resDir, "local.onnx")
	require.NoError(t, err)
	assert.Equal(t, "local.onnx", filepath.Base(got))

	_, err = ResolveResource(resDir, "missing.onnx")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = ResolveResource(resDir, "")
	assert.Error(t, err)
}

func TestOpenModels_BadRuntimeLibrary(t *testing.T) {
	if ort.IsInitialized() {
		t.Skip("onnxruntime already initialized")
	}
	lib := filepath.Join(t.TempDir(), "libonnxruntime-missing.so")
	_, err := OpenModels(ModelConfig{
		OrtLibrary:     lib,
		ClassifierPath: "xgb_model.onnx",
		RegressorPath:  "catboost_model.onnx",
	})
	var loadErr *ModelLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, lib, loadErr.Path)
	assert.ErrorIs(t, err, ErrModelLoad)
}

func TestBatchOfOne(t *testing.T) {
	assert.Equal(t, ort.NewShape(1, 1), batchOfOne(ort.NewShape(-1, 1)))
	assert.Equal(t, ort.NewShape(1), batchOfOne(ort.NewShape(-1)))
	assert.Equal(t, ort.NewShape(1), batchOfOne(nil))
}

func TestFeatureWidth(t *testing.T) {
	assert.Equal(t, int64(17), featureWidth(ort.NewShape(-1, 17)))
	assert.Equal(t, int64(0), featureWidth(ort.NewShape(-1, -1)))
	assert.Equal(t, int64(0), featureWidth(nil))
}

func TestFirstScalar(t *testing.T) {
	v, err := firstScalar([]int64{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = firstScalar([]float32{})
	assert.Error(t, err)
}

func TestModelsClose(t *testing.T) {
	reg := &fakeRegressor{}
	m := Models{Classifier: &fakeClassifier{}, Regressor: reg}
	require.NoError(t, m.Close())
	assert.True(t, reg.closed)
}
