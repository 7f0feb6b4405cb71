package predictor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Classifier predicts the discrete failure-mode code.
type Classifier interface {
	Classify(ctx context.Context, features FeatureVector) (float64, error)
}

// Regressor predicts the ultimate shear strength from the augmented vector.
type Regressor interface {
	Regress(ctx context.Context, features FeatureVector) (float64, error)
}

// Models bundles both inference stages.
type Models struct {
	Classifier Classifier
	Regressor  Regressor
}

// Close releases any model that holds native resources.
func (m Models) Close() error {
	var errs []error
	if c, ok := m.Classifier.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	if r, ok := m.Regressor.(interface{ Close() error }); ok {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}

var ortInitMu sync.Mutex

// OpenModels initializes ONNX Runtime and opens both model sessions. Failure to
// open either artifact is returned as *ModelLoadError.
func OpenModels(cfg ModelConfig) (Models, error) {
	if err := initRuntime(cfg.OrtLibrary); err != nil {
		return Models{}, &ModelLoadError{Path: cfg.OrtLibrary, Err: err}
	}
	clsPath, err := ResolveResource(cfg.ResourceDir, cfg.ClassifierPath)
	if err != nil {
		return Models{}, &ModelLoadError{Path: cfg.ClassifierPath, Err: err}
	}
	cls, err := openOrtModel(clsPath, cfg.ClassifierOutput)
	if err != nil {
		return Models{}, &ModelLoadError{Path: clsPath, Err: err}
	}
	regPath, err := ResolveResource(cfg.ResourceDir, cfg.RegressorPath)
	if err != nil {
		cls.Close()
		return Models{}, &ModelLoadError{Path: cfg.RegressorPath, Err: err}
	}
	reg, err := openOrtModel(regPath, cfg.RegressorOutput)
	if err != nil {
		cls.Close()
		return Models{}, &ModelLoadError{Path: regPath, Err: err}
	}
	return Models{
		Classifier: &OrtClassifier{model: cls},
		Regressor:  &OrtRegressor{model: reg},
	}, nil
}

// ResolveResource finds a bundled file. Absolute paths are used as is; relative
// paths are tried under dir, the working directory and the executable's
// directory, in that order.
func ResolveResource(dir, name string) (string, error) {
	if name == "" {
		return "", errors.New("empty resource path")
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}
	var candidates []string
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, name))
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), name))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, os.ErrNotExist)
}

func initRuntime(lib string) error {
	ortInitMu.Lock()
	defer ortInitMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if lib != "" {
		ort.SetSharedLibraryPath(lib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	return nil
}

// ortModel is a single-input, single-output ONNX session with a batch of one.
type ortModel struct {
	path    string
	session *ort.DynamicAdvancedSession
	input   ort.InputOutputInfo
	output  ort.InputOutputInfo
}

func openOrtModel(path, outputName string) (*ortModel, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("inspect model: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, errors.New("model declares no inputs or outputs")
	}
	out := outputs[0]
	if outputName != "" {
		found := false
		for _, o := range outputs {
			if o.Name == outputName {
				out = o
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("output %q not found", outputName)
		}
	}
	session, err := ort.NewDynamicAdvancedSession(path, []string{inputs[0].Name}, []string{out.Name}, nil)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &ortModel{path: path, session: session, input: inputs[0], output: out}, nil
}

func (m *ortModel) Close() error {
	if m == nil || m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}

// run feeds one row of features and returns the first scalar of the output.
func (m *ortModel) run(features FeatureVector) (float64, error) {
	if m == nil || m.session == nil {
		return 0, errors.New("model is not loaded")
	}
	if want := featureWidth(m.input.Dimensions); want > 0 && int64(features.Len()) != want {
		return 0, fmt.Errorf("model %s expects %d features, got %d", filepath.Base(m.path), want, features.Len())
	}
	shape := ort.NewShape(1, int64(features.Len()))
	var input ort.Value
	switch m.input.DataType {
	case ort.TensorElementDataTypeDouble:
		t, err := ort.NewTensor(shape, append([]float64(nil), features.Values...))
		if err != nil {
			return 0, fmt.Errorf("create input tensor: %w", err)
		}
		input = t
	default:
		t, err := ort.NewTensor(shape, features.Float32s())
		if err != nil {
			return 0, fmt.Errorf("create input tensor: %w", err)
		}
		input = t
	}
	defer input.Destroy()

	output, read, err := newOutputTensor(m.output)
	if err != nil {
		return 0, err
	}
	defer output.Destroy()

	if err := m.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return 0, fmt.Errorf("run %s: %w", filepath.Base(m.path), err)
	}
	return read()
}

func newOutputTensor(info ort.InputOutputInfo) (ort.Value, func() (float64, error), error) {
	shape := batchOfOne(info.Dimensions)
	switch info.DataType {
	case ort.TensorElementDataTypeInt64:
		t, err := ort.NewEmptyTensor[int64](shape)
		if err != nil {
			return nil, nil, fmt.Errorf("create output tensor: %w", err)
		}
		return t, func() (float64, error) { return firstScalar(t.GetData()) }, nil
	case ort.TensorElementDataTypeInt32:
		t, err := ort.NewEmptyTensor[int32](shape)
		if err != nil {
			return nil, nil, fmt.Errorf("create output tensor: %w", err)
		}
		return t, func() (float64, error) { return firstScalar(t.GetData()) }, nil
	case ort.TensorElementDataTypeDouble:
		t, err := ort.NewEmptyTensor[float64](shape)
		if err != nil {
			return nil, nil, fmt.Errorf("create output tensor: %w", err)
		}
		return t, func() (float64, error) { return firstScalar(t.GetData()) }, nil
	case ort.TensorElementDataTypeFloat:
		t, err := ort.NewEmptyTensor[float32](shape)
		if err != nil {
			return nil, nil, fmt.Errorf("create output tensor: %w", err)
		}
		return t, func() (float64, error) { return firstScalar(t.GetData()) }, nil
	default:
		return nil, nil, fmt.Errorf("output %q has unsupported element type %v", info.Name, info.DataType)
	}
}

type scalar interface {
	~int32 | ~int64 | ~float32 | ~float64
}

func firstScalar[T scalar](data []T) (float64, error) {
	if len(data) == 0 {
		return 0, errors.New("model produced an empty output")
	}
	return float64(data[0]), nil
}

// batchOfOne replaces dynamic dimensions with 1.
func batchOfOne(dims ort.Shape) ort.Shape {
	if len(dims) == 0 {
		return ort.NewShape(1)
	}
	out := make(ort.Shape, len(dims))
	for i, d := range dims {
		if d <= 0 {
			d = 1
		}
		out[i] = d
	}
	return out
}

// featureWidth returns the fixed last dimension of an input, or 0 when dynamic.
func featureWidth(dims ort.Shape) int64 {
	if len(dims) == 0 {
		return 0
	}
	last := dims[len(dims)-1]
	if last <= 0 {
		return 0
	}
	return last
}

// OrtClassifier runs the failure-mode classifier.
type OrtClassifier struct {
	model *ortModel
}

// Classify returns the raw label code for one row.
func (c *OrtClassifier) Classify(_ context.Context, features FeatureVector) (float64, error) {
	return c.model.run(features)
}

// Close releases the ORT session.
func (c *OrtClassifier) Close() error { return c.model.Close() }

// OrtRegressor runs the shear strength regressor.
type OrtRegressor struct {
	model *ortModel
}

// Regress returns the predicted strength for one augmented row.
func (r *OrtRegressor) Regress(_ context.Context, features FeatureVector) (float64, error) {
	return r.model.run(features)
}

// Close releases the ORT session.
func (r *OrtRegressor) Close() error { return r.model.Close() }
