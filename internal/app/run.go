package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"

	"yashubustudio/shearpredict/predictor"
)

const (
	// ID is the fyne application identifier.
	ID = "studio.yashubu.shearpredict"
	// Title is the main window title.
	Title = "Shear Strength Prediction System for Reinforced Concrete Columns"
)

// Run loads both models, builds the form and blocks until the window closes.
// A model that fails to load is reported in a dialog and leaves the form
// without a working Predict button; closing the window afterwards is a
// normal exit.
func Run(a fyne.App, w fyne.Window, cfg predictor.Config) {
	u, logger := start(a, w, cfg)
	u.w.ShowAndRun()
	if u.service != nil {
		if err := u.service.Close(); err != nil {
			logger.Error("close service", slog.String("error", err.Error()))
		}
	}
}

func start(a fyne.App, w fyne.Window, cfg predictor.Config) (*uiState, *slog.Logger) {
	logBind := binding.NewString()
	logger := predictor.NewLogger(cfg.Log, io.MultiWriter(os.Stdout, newLogCapture(logBind, 300)))

	svc, err := openService(cfg, logger)
	u := buildUI(a, w, svc, cfg, logBind)
	if err != nil {
		logger.Error("model load failed", slog.String("error", err.Error()))
		u.blockPredictions(err)
	}
	return u, logger
}

func openService(cfg predictor.Config, logger *slog.Logger) (*predictor.Service, error) {
	models, err := predictor.OpenModels(cfg.Models)
	if err != nil {
		return nil, err
	}
	svc, err := predictor.NewService(models, cfg, logger)
	if err != nil {
		models.Close()
		return nil, fmt.Errorf("init service: %w", err)
	}
	logger.Info("models loaded",
		slog.String("classifier", cfg.Models.ClassifierPath),
		slog.String("regressor", cfg.Models.RegressorPath),
	)
	return svc, nil
}
