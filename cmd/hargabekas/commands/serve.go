package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hargabekas/hargabekas/internal/logger"
	"github.com/hargabekas/hargabekas/internal/server"
	"github.com/hargabekas/hargabekas/internal/version"
	"github.com/hargabekas/hargabekas/pkg/pricecheck"
	"github.com/hargabekas/hargabekas/pkg/search"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API",
	Long: `Serve starts an HTTP server with a small search form on /, a JSON
API on /api/v1/check and prometheus metrics on /metrics.

Example:
  hargabekas serve --addr :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.Int("pages", pricecheck.DefaultPages, "search result pages per check")
	flags.Duration("timeout", 30*time.Second, "per-request search timeout")

	_ = viper.BindPFlag("addr", flags.Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
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

	timeout, _ := cmd.Flags().GetDuration("timeout")
	searcher := search.NewClient(search.Config{
		APIKey:   apiKey,
		EngineID: engineID,
		Timeout:  timeout,
	})

	pages, _ := cmd.Flags().GetInt("pages")
	checker := pricecheck.New(searcher, pricecheck.WithPages(pages))

	cfg := server.DefaultConfig()
	cfg.Addr = viper.GetString("addr")

	logger.Info("starting server", "version", version.String(), "addr", cfg.Addr)

	srv := server.New(checker, cfg)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
