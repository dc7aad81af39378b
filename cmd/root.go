package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/ombibot/bot"
	"github.com/s0up4200/ombibot/config"
	"github.com/s0up4200/ombibot/store"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ombibot",
	Short: "A Slack bot for managing Ombi media requests",
	Long: `ombibot connects your Slack workspace to an Ombi server. Users log in
with their own Ombi credentials and can list, filter, search, request,
approve and deny media without leaving chat.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion records build metadata for the version and update commands
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and logger
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot",
	Long:  `Connect to Slack over Socket Mode and serve commands until interrupted.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewDB(store.Config{DatabasePath: cfg.Store.Path})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	settings := store.NewSettingsRepository(db.Connection())
	b := bot.New(cfg, settings, logger)

	logger.Info().
		Str("version", version).
		Str("store", cfg.Store.Path).
		Msg("Starting ombibot")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("Shutting down")
		return nil
	})
	return g.Wait()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the configuration",
	Long:  `Validate the configuration file and check the settings database opens.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Println("✓ Configuration is valid")

	db, err := store.NewDB(store.Config{DatabasePath: cfg.Store.Path})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()
	fmt.Printf("✓ Settings database opened at %s\n", cfg.Store.Path)

	if cfg.Ombi.DefaultServer != "" {
		fmt.Printf("- Default Ombi server: %s\n", cfg.Ombi.DefaultServer)
	} else {
		fmt.Println("- No default Ombi server; users must run /ombi-set-server")
	}
	return nil
}
