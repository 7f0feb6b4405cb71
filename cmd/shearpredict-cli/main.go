package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"yashubustudio/shearpredict/predictor"
)

// openService builds the prediction service from configuration. Tests swap it
// for a constructor backed by fake models.
var openService = func(cfg predictor.Config, logOut io.Writer) (*predictor.Service, error) {
	models, err := predictor.OpenModels(cfg.Models)
	if err != nil {
		return nil, err
	}
	svc, err := predictor.NewService(models, cfg, predictor.NewLogger(cfg.Log, logOut))
	if err != nil {
		models.Close()
		return nil, fmt.Errorf("init service: %w", err)
	}
	return svc, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shearpredict-cli: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shearpredict-cli",
		Short: "Predict failure mode and shear strength of RC columns",
		Long: `Predicts the failure mode and ultimate shear strength of a reinforced
concrete column from seventeen section, material and loading parameters,
using a pretrained classifier followed by a pretrained regressor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to config.json or config.yaml (default: ./config.json)")

	root.AddCommand(newPredictCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newFieldsCmd())
	root.AddCommand(newConfigCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (predictor.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := predictor.LoadConfig(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func startService(cmd *cobra.Command) (*predictor.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openService(cfg, cmd.ErrOrStderr())
}
