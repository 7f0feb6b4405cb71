package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/shearpredict/predictor"
)

func newPredictCmd() *cobra.Command {
	var (
		sets   []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict one column from --set KEY=VALUE pairs",
		Example: `  shearpredict-cli predict \
    --set "L(mm)=3000" --set b=300 --set h=300 --set d=260 --set fc=30 \
    --set Ag=90000 --set pl%=1.5 --set fy=400 --set ps%=0.8 --set Asl=200 \
    --set fyt=400 --set s=100 --set Ast=78 --set P=500 --set n=0.3 \
    --set λ=2.0 --set L/h=10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseAssignments(predictor.Fields(), sets)
			if err != nil {
				return err
			}
			svc, err := startService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := svc.Predict(cmd.Context(), raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprint(out, renderResult(out, res, svc.Config().Precision))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as KEY=VALUE; KEY is a display key (\"fc(mm)\") or feature name (\"fc\")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

// parseAssignments turns KEY=VALUE pairs into raw form input. The value is kept
// as text so it goes through the same validation as the desktop form.
func parseAssignments(fields []predictor.FieldDescriptor, sets []string) (predictor.RawInput, error) {
	raw := make(predictor.RawInput, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --set %q: want KEY=VALUE", s)
		}
		f, found := predictor.LookupField(fields, key)
		if !found {
			return nil, fmt.Errorf("unknown field %q", strings.TrimSpace(key))
		}
		raw[f.Display] = value
	}
	return raw, nil
}

func newBatchCmd() *cobra.Command {
	var (
		input  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Predict every row of a CSV, TSV or XLSX file",
		Long: `Reads specimens from a file whose header row names the input fields by
display key or feature name, and prints one prediction per row. Rows that fail
validation are reported and counted; the command fails if any row failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input = strings.TrimSpace(input)
			if input == "" {
				return errors.New("missing required --input file")
			}
			rows, err := predictor.ParseBatchFile(input, predictor.Fields())
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if len(rows) == 0 {
				return errors.New("input file does not contain any rows")
			}
			svc, err := startService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			out := cmd.OutOrStdout()
			precision := svc.Config().Precision
			var records []batchRecord
			failed := 0
			for _, row := range rows {
				rec := batchRecord{Line: row.Line, ID: row.ID}
				res, err := svc.Predict(cmd.Context(), row.Input)
				if err != nil {
					failed++
					rec.Error = err.Error()
				} else {
					rec.Result = &res
				}
				if asJSON {
					records = append(records, rec)
					continue
				}
				fmt.Fprintln(out, renderBatchLine(out, rec, precision))
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(records); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rows failed", failed, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV/TSV/XLSX file with one specimen per row")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as a JSON array")
	return cmd
}

type batchRecord struct {
	Line   int                         `json:"line"`
	ID     string                      `json:"id,omitempty"`
	Result *predictor.PredictionResult `json:"result,omitempty"`
	Error  string                      `json:"error,omitempty"`
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the input fields and the feature names the models expect",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, f := range predictor.Fields() {
				fmt.Fprintf(out, "%-10s %-5s %s\n", f.Display, f.Canonical, f.Description)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default configuration (config.json unless PATH is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.json"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := predictor.SaveConfig(path, predictor.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
