// cmd/tools/verifyctl/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"field-verification/internal/common/logger"
	"field-verification/internal/models"
	"field-verification/internal/vehicleregistry"
	"field-verification/internal/verification/compare"
	"field-verification/internal/verification/plate"

	cdf "field-verification/internal/workers/verification/compare-document-fields"
	lv "field-verification/internal/workers/verification/lookup-vehicle"
	rp "field-verification/internal/workers/verification/recover-plate"
	vop "field-verification/internal/workers/verification/verify-officer-plate"
)

// env carries what every subcommand shares. The registry is always the
// in-memory reference set.
type env struct {
	verbose bool
	plate   plate.Options
	store   vehicleregistry.Store
}

func (e *env) logger() logger.Logger {
	if e.verbose {
		return logger.NewStructured("debug", "console")
	}
	return logger.NewNoOpLogger()
}

func (e *env) engine() *plate.Engine {
	return plate.NewEngine(nil, e.plate)
}

func main() {
	if err := newRootCmd(&env{store: vehicleregistry.NewReferenceStore()}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "verifyctl",
		Short:         "Run field verification checks locally",
		Long:          `Runs the document comparator, plate recovery and officer checks without Zeebe, against the built-in reference vehicle registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	def := plate.DefaultOptions()
	rootCmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Log to stderr")
	rootCmd.PersistentFlags().Float64Var(&e.plate.PreferMaxCost, "prefer-max-cost", def.PreferMaxCost, "Highest accepted cost for a preferred plate")
	rootCmd.PersistentFlags().Float64Var(&e.plate.OpenMaxCost, "open-max-cost", def.OpenMaxCost, "Highest accepted cost in open search")

	rootCmd.AddCommand(createCompareCmd(e))
	rootCmd.AddCommand(createPlateCmd(e))
	rootCmd.AddCommand(createOfficerCmd(e))
	rootCmd.AddCommand(createLookupCmd(e))
	return rootCmd
}

// createCompareCmd compares two JSON field maps.
func createCompareCmd(e *env) *cobra.Command {
	opts := compare.DefaultOptions()
	var policy string

	cmd := &cobra.Command{
		Use:   "compare [agreement.json] [extracted.json]",
		Short: "Score extracted document fields against the agreement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docType, _ := cmd.Flags().GetString("doc-type")

			var input cdf.Input
			input.DocType = docType
			if err := readJSONFile(args[0], &input.Agreement); err != nil {
				return err
			}
			if err := readJSONFile(args[1], &input.Extracted); err != nil {
				return err
			}

			opts.Policy = compare.VerdictPolicy(policy)
			h := cdf.NewHandler(&cdf.Config{Compare: opts}, nil, nil, e.logger())
			out, err := h.Execute(cmd.Context(), &input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().String("doc-type", "default", "Document type (invoice, quotation, pan, aadhaar, ...)")
	cmd.Flags().StringVar(&policy, "policy", string(opts.Policy), "Verdict policy: two_tier or three_tier")
	cmd.Flags().Float64Var(&opts.TrustedThreshold, "trusted", opts.TrustedThreshold, "Trusted threshold (three_tier)")
	cmd.Flags().Float64Var(&opts.SuspiciousThreshold, "suspicious", opts.SuspiciousThreshold, "Pass threshold")
	return cmd
}

func createPlateCmd(e *env) *cobra.Command {
	var input rp.Input

	cmd := &cobra.Command{
		Use:   "plate [ocr text]",
		Short: "Recover a registration number from OCR text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.RawText = args[0]
			h := rp.NewHandler(&rp.Config{Plate: e.plate}, e.engine(), e.store, nil, e.logger())
			out, err := h.Execute(cmd.Context(), &input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringSliceVar(&input.Preferred, "prefer", nil, "Preferred plates, comma separated")
	cmd.Flags().BoolVar(&input.PreferredOnly, "prefer-only", false, "Only accept a preferred plate")
	cmd.Flags().BoolVar(&input.UseRegistryPlates, "registry", false, "Prefer the plates of the reference registry")
	return cmd
}

func createOfficerCmd(e *env) *cobra.Command {
	var input vop.Input

	cmd := &cobra.Command{
		Use:   "officer [ocr text...]",
		Short: "Recover the plate from OCR variants and check the officer's details against the registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.OCRTexts = args
			if path, _ := cmd.Flags().GetString("officer-file"); path != "" {
				var fromFile models.OfficerInput
				if err := readJSONFile(path, &fromFile); err != nil {
					return err
				}
				mergeOfficer(&input.Officer, fromFile)
			}

			h := vop.NewHandler(&vop.Config{Plate: e.plate}, e.engine(), e.store, nil, nil, e.logger())
			out, err := h.Execute(cmd.Context(), &input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().String("officer-file", "", "JSON file with the officer input")
	cmd.Flags().StringVar(&input.Officer.Name, "name", "", "Owner name")
	cmd.Flags().StringVar(&input.Officer.Address, "address", "", "Owner address")
	cmd.Flags().StringVar(&input.Officer.Phone, "phone", "", "Owner phone")
	cmd.Flags().StringVar(&input.Officer.VehicleMake, "make", "", "Vehicle make")
	cmd.Flags().StringVar(&input.Officer.VehicleModel, "model", "", "Vehicle model")
	cmd.Flags().StringVar(&input.Officer.VehicleColor, "color", "", "Vehicle colour")
	return cmd
}

func createLookupCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [vehicle number]",
		Short: "Fetch the registry record for a typed vehicle number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := lv.NewHandler(&lv.Config{Source: "memory", Plate: e.plate}, e.engine(), e.store, nil, e.logger())
			out, err := h.Execute(cmd.Context(), &lv.Input{VehicleNo: args[0]})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

// mergeOfficer fills the empty fields of dst from src. Flags win over the file.
func mergeOfficer(dst *models.OfficerInput, src models.OfficerInput) {
	fill := func(d *string, s string) {
		if *d == "" {
			*d = s
		}
	}
	fill(&dst.Name, src.Name)
	fill(&dst.Address, src.Address)
	fill(&dst.Phone, src.Phone)
	fill(&dst.VehicleMake, src.VehicleMake)
	fill(&dst.VehicleModel, src.VehicleModel)
	fill(&dst.VehicleColor, src.VehicleColor)
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
