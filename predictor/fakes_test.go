package predictor

import (
	"context"
	"sync"
)

// fakeClassifier returns a fixed code and records every vector it receives.
type fakeClassifier struct {
	mu    sync.Mutex
	code  float64
	err   error
	calls []FeatureVector
}

func (f *fakeClassifier) Classify(_ context.Context, v FeatureVector) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, v)
	if f.err != nil {
		return 0, f.err
	}
	return f.code, nil
}

// fakeRegressor is a deterministic linear model over the augmented vector.
type fakeRegressor struct {
	mu     sync.Mutex
	err    error
	fixed  *float64
	calls  []FeatureVector
	closed bool
}

func (f *fakeRegressor) Regress(_ context.Context, v FeatureVector) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, v)
	if f.err != nil {
		return 0, f.err
	}
	if f.fixed != nil {
		return *f.fixed, nil
	}
	b, _ := v.Get("b")
	d, _ := v.Get("d")
	fc, _ := v.Get("fc")
	m, _ := v.Get(DerivedFeature)
	return 0.17*b*d*fc/1000 + 10*m, nil
}

func (f *fakeRegressor) Close() error {
	f.closed = true
	return nil
}

func validInput() RawInput {
	return RawInput{
		"L(mm)":    "3000",
		"b(mm)":    "300",
		"h(mm)":    "300",
		"d(mm)":    "260",
		"fc(mm)":   "30",
		"Ag(mm)":   "90000",
		"pl(%)":    "1.5",
		"fy(Mpa)":  "400",
		"ps(%)":    "0.8",
		"Asl(mm²)": "200",
		"fyt(Mpa)": "400",
		"s(mm)":    "100",
		"Ast(mm²)": "78",
		"P(kN)":    "500",
		"n":        "0.3",
		"λ":        "2.0",
		"L/h":      "10",
	}
}
