package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hargabekas/hargabekas/internal/logger"
	"github.com/hargabekas/hargabekas/internal/report"
	"github.com/hargabekas/hargabekas/pkg/pricecheck"
	"github.com/hargabekas/hargabekas/pkg/search"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Estimate the resale price of one product",
	Long: `Check searches marketplace listings for a used product, keeps the
ones that look like genuine used-item offers with a price, removes
outliers and prints summary statistics.

Examples:
  # Basic check
  hargabekas check -b "iPhone" -m "14 Pro" --spec 256GB

  # More pages, JSON to a file
  hargabekas check -b Samsung -m "Z Flip 5" --pages 5 --format json -o out.json

  # Strict mode: the product slug must appear in the listing URL
  hargabekas check -b Xiaomi -m "Redmi Note 12" --slug-filter`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	flags := checkCmd.Flags()

	flags.StringP("brand", "b", "", "product brand (required)")
	flags.StringP("model", "m", "", "product model (required)")
	flags.String("spec", "", "variant or storage size to narrow the search")

	flags.Int("pages", pricecheck.DefaultPages, "search result pages to fetch")
	flags.Int64("min-price", 0, "minimum plausible price in Rupiah (0 = default)")
	flags.Bool("slug-filter", false, "require the product slug in listing URLs")
	flags.Duration("timeout", 30*time.Second, "per-request search timeout")

	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "text", "output format: text, json, yaml")

	_ = checkCmd.MarkFlagRequired("brand")
	_ = checkCmd.MarkFlagRequired("model")
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("json_log"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	apiKey := viper.GetString("api_key")
	engineID := viper.GetString("engine_id")
	if apiKey == "" || engineID == "" {
		return fmt.Errorf("search credentials missing: set GOOGLE_API_KEY and GOOGLE_CX (or api_key/engine_id in the config file)")
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	searcher := search.NewClient(search.Config{
		APIKey:   apiKey,
		EngineID: engineID,
		Timeout:  timeout,
	})

	pages, _ := cmd.Flags().GetInt("pages")
	minPrice, _ := cmd.Flags().GetInt64("min-price")
	slugFilter, _ := cmd.Flags().GetBool("slug-filter")

	opts := []pricecheck.Option{
		pricecheck.WithPages(pages),
		pricecheck.WithSlugFilter(slugFilter),
	}
	if minPrice > 0 {
		opts = append(opts, pricecheck.WithMinPrice(minPrice))
	}
	checker := pricecheck.New(searcher, opts...)

	product := pricecheck.ProductIdentity{
		Brand: mustString(cmd, "brand"),
		Model: mustString(cmd, "model"),
		Spec:  mustString(cmd, "spec"),
	}

	rep, err := checker.Run(ctx, product)
	if err != nil && !isSoftState(err) {
		logger.Error("price check failed", "error", err)
		return err
	}

	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, createErr := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if createErr != nil {
			logger.Error("failed to create output file", "path", outPath, "error", createErr)
			return createErr
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if writeErr := report.Write(out, rep, format); writeErr != nil {
		return writeErr
	}

	// A soft state is not a failure of the tool itself, so the exit code
	// stays zero; the message tells the user why there is no estimate.
	if err != nil {
		logger.Warn("no price estimate", "reason", err.Error())
	}
	return nil
}

func isSoftState(err error) bool {
	return errors.Is(err, pricecheck.ErrNoResults) ||
		errors.Is(err, pricecheck.ErrNoValidListings) ||
		errors.Is(err, pricecheck.ErrTooVariable)
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
