package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service runs the validate, map, classify, regress pipeline for one request
// at a time. Its field table and models are fixed at construction.
type Service struct {
	models   Models
	cfg      Config
	fields   []FieldDescriptor
	expected []string

	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewService constructs a service with the given models and configuration.
// The field table is checked against the expected features up front so a
// misconfigured table never reaches a prediction.
func NewService(models Models, cfg Config, logger *slog.Logger) (*Service, error) {
	if models.Classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if models.Regressor == nil {
		return nil, errors.New("regressor is required")
	}
	cfg.ApplyDefaults()
	fields := Fields()
	expected := ExpectedFeatures()
	if err := ValidateFieldTable(fields, expected); err != nil {
		return nil, fmt.Errorf("check field table: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		models:   models,
		cfg:      cfg,
		fields:   fields,
		expected: expected,
		metrics:  NewMetrics(),
		tracer:   otel.Tracer("shearpredict/predictor"),
		logger:   logger,
	}, nil
}

// Close releases model resources and flushes metrics when configured.
func (s *Service) Close() error {
	var errs []error
	if s.cfg.MetricsFile != "" {
		errs = append(errs, s.metrics.WriteFile(s.cfg.MetricsFile))
	}
	errs = append(errs, s.models.Close())
	return errors.Join(errs...)
}

// Config returns the configuration the service was built with.
func (s *Service) Config() Config {
	return s.cfg
}

// Fields returns the form field table.
func (s *Service) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.fields))
	copy(out, s.fields)
	return out
}

// Metrics returns the service's metric collectors.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// Predict validates raw form input, maps it to the model feature order and
// runs the classifier followed by the regressor.
func (s *Service) Predict(ctx context.Context, raw RawInput) (PredictionResult, error) {
	requestID := uuid.NewString()
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "predictor.Service.Predict",
		trace.WithAttributes(attribute.String("request_id", requestID)))
	defer span.End()

	res, err := s.predict(ctx, requestID, raw)
	elapsed := time.Since(start)
	s.metrics.observe(resultLabel(err), res.FailureMode, elapsed.Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, resultLabel(err))
		s.logger.Warn("prediction rejected",
			slog.String("request_id", requestID),
			slog.String("result", resultLabel(err)),
			slog.String("error", err.Error()),
			slog.Duration("duration", elapsed),
		)
		return PredictionResult{}, err
	}
	span.SetAttributes(
		attribute.String("failure_mode", string(res.FailureMode)),
		attribute.Float64("shear_strength", res.ShearStrength),
	)
	span.SetStatus(codes.Ok, "")
	s.logger.Info("prediction complete",
		slog.String("request_id", requestID),
		slog.String("failure_mode", string(res.FailureMode)),
		slog.Float64("code", res.Code),
		slog.Float64("shear_strength", res.ShearStrength),
		slog.Duration("duration", elapsed),
	)
	return res, nil
}

func (s *Service) predict(ctx context.Context, requestID string, raw RawInput) (PredictionResult, error) {
	_, span := s.tracer.Start(ctx, "predictor.validate")
	values, err := CheckFields(s.fields, raw)
	span.End()
	if err != nil {
		return PredictionResult{}, err
	}

	_, span = s.tracer.Start(ctx, "predictor.map")
	features, err := MapFeatures(s.fields, s.expected, values)
	span.End()
	if err != nil {
		return PredictionResult{}, err
	}

	code, err := s.classify(ctx, features)
	if err != nil {
		return PredictionResult{}, err
	}
	mode := FailureModeFromCode(code)

	strength, err := s.regress(ctx, features.Augment(DerivedFeature, code))
	if err != nil {
		return PredictionResult{}, err
	}

	return PredictionResult{
		RequestID:     requestID,
		FailureMode:   mode,
		Code:          code,
		ShearStrength: strength,
		Inputs:        echoInputs(s.fields, values),
	}, nil
}

func (s *Service) classify(ctx context.Context, features FeatureVector) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "predictor.classify",
		trace.WithAttributes(attribute.Int("features", features.Len())))
	defer span.End()
	code, err := s.models.Classifier.Classify(ctx, features)
	if err != nil {
		span.RecordError(err)
		return 0, &InferenceError{Stage: StageClassify, Err: err}
	}
	span.SetAttributes(attribute.Float64("code", code))
	return code, nil
}

func (s *Service) regress(ctx context.Context, features FeatureVector) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "predictor.regress",
		trace.WithAttributes(attribute.Int("features", features.Len())))
	defer span.End()
	v, err := s.models.Regressor.Regress(ctx, features)
	if err != nil {
		span.RecordError(err)
		return 0, &InferenceError{Stage: StageRegress, Err: err}
	}
	if !isFinite(v) {
		err := fmt.Errorf("regressor returned non-finite value %v", v)
		span.RecordError(err)
		return 0, &InferenceError{Stage: StageRegress, Err: err}
	}
	return v, nil
}
