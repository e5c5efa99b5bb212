package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"reviewdash/config"
	"reviewdash/dataset"
	"reviewdash/internal/logging"
	"reviewdash/internal/metrics"
	"reviewdash/web"

	"github.com/spf13/cobra"
)

var (
	serveDataset     datasetFlags
	servePort        int
	serveCORSOrigins []string
	serveOpen        bool
	serveNoOpen      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document review dashboard",
	Long: `Load the work entries once and serve the dashboard with a year dropdown and six charts.

Entries come from --input files (or dataset.inputs in config) when given, otherwise from
the SQLite snapshot written by "reviewdash import". The table is read-only while serving;
restart the server to pick up new data.`,
	Example: `
  # Serve from exports on the default port
  reviewdash serve -i reviews-2023.csv -i reviews-2024.xlsx

  # Serve the SQLite snapshot on a custom port and open a browser
  reviewdash serve --db ./reviewdash.db --port 9090 --open

  # Allow a separate frontend to call the JSON API
  reviewdash serve --cors-origin https://reports.example.com
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		applyServeFlags(cmd, cfg)

		logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}

		table, err := loadTable(serveDataset.resolve(*cfg), logger)
		if err != nil {
			return err
		}

		server := newHTTPServer(*cfg, table, logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
		logger.Info("dashboard listening", "url", listenURL, "years", table.Years(), "default_year", table.DefaultYear())
		fmt.Printf("Listening on %s\n", listenURL)
		if cfg.Server.OpenBrowser {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addDatasetFlags(serveCmd, &serveDataset)
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultServerPort, "HTTP port for the dashboard")
	serveCmd.Flags().StringArrayVar(&serveCORSOrigins, "cors-origin", nil, "Origin allowed to call /api/ (repeatable)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the dashboard in a browser")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open a browser even if server.open_browser is set")
}

// applyServeFlags lets explicitly set flags win over config values.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if len(serveCORSOrigins) > 0 {
		cfg.Server.CORSOrigins = serveCORSOrigins
	}
	if serveOpen {
		cfg.Server.OpenBrowser = true
	}
	if serveNoOpen {
		cfg.Server.OpenBrowser = false
	}
}

func newHTTPServer(cfg config.Config, table *dataset.Table, logger *slog.Logger) *http.Server {
	handler := web.NewServer(table, web.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
		Metrics:     metrics.New(),
	})
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
