package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/healthbill/healthbill/internal/billing"
	"github.com/healthbill/healthbill/internal/config"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "draftctl",
		Short: "Compute health service invoice drafts offline",
	}

	rootCmd.AddCommand(computeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func computeCmd() *cobra.Command {
	defaults := config.GetDefaultConfig().Billing

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Price the lines of scenario files and print the drafts as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, _ := cmd.Flags().GetStringSlice("file")
			priceDigits, _ := cmd.Flags().GetInt32("price-digits")
			amountDigits, _ := cmd.Flags().GetInt32("amount-digits")
			placeholder, _ := cmd.Flags().GetString("placeholder")
			verbose, _ := cmd.Flags().GetBool("verbose")

			placeholderPrice, err := decimal.NewFromString(placeholder)
			if err != nil || !placeholderPrice.IsPositive() {
				return fmt.Errorf("placeholder must be a positive decimal, got %q", placeholder)
			}

			log := logger.NewNopLogger()
			if verbose {
				if log, err = logger.NewLogger(config.GetDefaultConfig()); err != nil {
					return err
				}
			}

			builder := billing.NewInvoiceDraftBuilder(
				billing.WithPriceDigits(priceDigits),
				billing.WithAmountDigits(amountDigits),
				billing.WithPlaceholderPrice(placeholderPrice),
				billing.WithLogger(log),
			)

			outputs := computeScenarios(builder, files)
			for _, out := range outputs {
				if out.err != nil {
					return fmt.Errorf("%s: %w", out.File, out.err)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if len(outputs) == 1 {
				return enc.Encode(outputs[0].Result)
			}
			return enc.Encode(outputs)
		},
	}
	cmd.Flags().StringSlice("file", nil, "Path to a scenario JSON file, repeatable")
	cmd.Flags().Int32("price-digits", defaults.PriceDigits, "Decimals unit prices are rounded to")
	cmd.Flags().Int32("amount-digits", defaults.AmountDigits, "Decimals of the invoice insured amount")
	cmd.Flags().String("placeholder", defaults.PlaceholderUnitPrice, "Unit price charged on fully covered lines")
	cmd.Flags().Bool("verbose", false, "Log every priced line")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type scenarioOutput struct {
	File   string               `json:"file"`
	Result *billing.DraftResult `json:"result"`
	err    error
}

// computeScenarios prices every file concurrently, keeping the order of files
func computeScenarios(builder *billing.InvoiceDraftBuilder, files []string) []scenarioOutput {
	return iter.Map(files, func(file *string) scenarioOutput {
		sc, err := loadScenario(*file)
		if err != nil {
			return scenarioOutput{File: *file, err: err}
		}
		return scenarioOutput{File: *file, Result: builder.Build(sc.input())}
	})
}
