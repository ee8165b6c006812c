package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"queracli/internal/components/chrono"
	"queracli/internal/components/telemetry"
	"queracli/internal/db"
	"queracli/internal/scrapers/quera"
	"queracli/lib/configutil"
	"queracli/lib/restyutil"
	"queracli/pkg/migrations"

	"github.com/spf13/cobra"
)

var (
	configPath string
	profile    string
	verbose    bool
	dumpHttp   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", DEFAULT_CONFIG_PATH, "Path to the config file.")
	flags.StringVar(&profile, "profile", "", "The profile whose session is used, overrides the config.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug information to stderr.")
	flags.StringVar(&dumpHttp, "dump-http", "", "Write every http request and response to files in this directory.")
}

var rootCmd = &cobra.Command{
	Use:           "quera",
	Short:         "quera is a CLI for submitting solutions to quera.org and reading their results.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
}

// app is everything a command needs, it is created once before the command runs.
type app struct {
	config  Config
	db      *sql.DB
	otel    telemetry.Telemetry
	account quera.Account
}

var current *app

func loadConfig() (Config, error) {
	cfg, err := configutil.ReadConfigOr(configPath, defaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if profile != "" {
		cfg.Profile = profile
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg DbConfig) (*sql.DB, error) {
	var database *sql.DB
	var err error
	if cfg.Url != "" {
		database, err = migrations.OpenRemoteDB(cfg.Url, cfg.AuthToken)
	} else {
		var path string
		path, err = configutil.ExpandHome(cfg.File)
		if err != nil {
			return nil, err
		}
		database, err = migrations.OpenDB(path)
	}
	if err != nil {
		return nil, err
	}
	err = migrations.Apply(ctx, database, db.Schema)
	if err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func setup(ctx context.Context) error {
	telemetry.InitSlog(verbose)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	err = configutil.LoadEnv(".env", "~/.quera/.env")
	if err != nil {
		return err
	}

	otel, err := telemetry.Setup(ctx, "quera", cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	a, err := newApp(ctx, cfg, otel)
	if err != nil {
		shutdownTelemetry(otel)
		return err
	}
	current = a
	slog.Debug("initialized", "profile", cfg.Profile, "base_url", cfg.BaseUrl)
	return nil
}

// newApp builds everything that depends on telemetry being set up.
func newApp(ctx context.Context, cfg Config, otel telemetry.Telemetry) (*app, error) {
	opts := cfg.scraperOptions()
	if dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(dumpHttp)
		if err != nil {
			return nil, fmt.Errorf("create http dump directory: %w", err)
		}
		opts.HttpOutput = output
	}

	tel := telemetry.SlogAPI{}
	scraper, err := quera.NewScraper(opts, tel)
	if err != nil {
		return nil, err
	}

	database, err := openDB(ctx, cfg.Db)
	if err != nil {
		return nil, err
	}
	store := db.NewSessionStore(database, cfg.Profile, chrono.NewStandardTime(), tel)

	return &app{
		config:  cfg,
		db:      database,
		otel:    otel,
		account: quera.NewAccount(scraper, store),
	}, nil
}

func shutdownTelemetry(otel telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := otel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

func teardown() {
	if current == nil {
		return
	}
	shutdownTelemetry(current.otel)
	err := current.db.Close()
	if err != nil {
		slog.Warn("failed to close db", "err", err)
	}
	current = nil
}

// explain turns errors the user can fix into a message with a hint.
func explain(err error) (string, bool) {
	var invalidType *quera.InvalidFileTypeError
	switch {
	case errors.Is(err, quera.ErrAuthenticationRequired):
		return "You are not logged in, run `quera login` first.", true
	case errors.Is(err, quera.ErrAuthentication):
		return "Username or password is incorrect.", true
	case errors.As(err, &invalidType):
		msg := invalidType.Error()
		if invalidType.Suggestion != "" {
			msg += fmt.Sprintf("\nDid you mean %q?", invalidType.Suggestion)
		}
		return msg + "\nChoose one with --type.", true
	}
	return "", false
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	teardown()
	if err == nil {
		return
	}
	msg, ok := explain(err)
	if ok {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	var netErr *quera.NetworkError
	if errors.As(err, &netErr) && netErr.Timeout() {
		fmt.Fprintln(os.Stderr, "The request timed out, try again.")
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
