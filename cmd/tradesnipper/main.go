package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jask/tradesnipper/internal/config"
	"github.com/jask/tradesnipper/internal/database"
	"github.com/jask/tradesnipper/internal/database/repository"
	"github.com/jask/tradesnipper/internal/extract"
	"github.com/jask/tradesnipper/internal/logging"
	"github.com/jask/tradesnipper/internal/paste"
	"github.com/jask/tradesnipper/internal/prefs"
	"github.com/jask/tradesnipper/internal/service"
	"github.com/jask/tradesnipper/internal/trade"
	"github.com/jask/tradesnipper/internal/tui"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "tradesnipper",
	Short:         "Paste FX and swap trades, read them from your side, send them to booking",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, _ := cmd.Flags().GetString("view")
		return runUI(cmd.Context(), view)
	},
}

func init() {
	rootCmd.Flags().String("view", "", "start in the fx or swap view (default: saved preference)")
	rootCmd.AddCommand(versionCmd, extractCmd, pairsCmd, bookingsCmd, resetCmd, configCmd)
}

func main() {
	// .env next to the binary may carry endpoint overrides
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is everything a command needs, opened from config.
type app struct {
	cfg      config.Config
	db       *sql.DB
	client   *extract.Client
	prefs    *prefs.Store
	bookings *service.BookingService
	extract  *service.ExtractionService
	export   *service.ExportService
}

func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	client := extract.NewClient(extract.Config{
		FXURL:    cfg.Extraction.FXURL,
		SwapURL:  cfg.Extraction.SwapURL,
		Timeout:  cfg.Extraction.Timeout,
		CacheTTL: cfg.Extraction.CacheTTL,
	}, http.DefaultClient)
	return &app{
		cfg:      cfg,
		db:       db,
		client:   client,
		prefs:    prefs.NewStore(repository.NewPreferenceRepo(db)),
		bookings: &service.BookingService{Repo: repository.NewBookingRepo(db), Target: cfg.Booking.Target, Delay: cfg.Booking.Delay},
		extract:  &service.ExtractionService{Client: client},
		export:   &service.ExportService{Dir: cfg.Export.Dir, Filename: cfg.Export.Filename},
	}, nil
}

func (a *app) Close() error { return a.db.Close() }

// loadCLI loads config, logs to stderr and opens the app for one-shot
// commands.
func loadCLI(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.SetupStderr(cfg.Log.Level)
	return openApp(ctx, cfg)
}

func runUI(ctx context.Context, view string) error {
	var opts tui.Options
	if view != "" {
		k, err := trade.ParseKind(view)
		if err != nil {
			return err
		}
		opts.View = k
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logFile, err := logging.SetupFile(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(tui.New(ctx, cfg, tui.Services{
		Extraction: a.extract,
		Bookings:   a.bookings,
		Export:     a.export,
		Prefs:      a.prefs,
		Clipboard:  paste.SystemClipboard{},
	}, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
