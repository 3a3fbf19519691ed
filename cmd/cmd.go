package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flatsheet/flatsheet/api"
	"github.com/flatsheet/flatsheet/config"
	"github.com/flatsheet/flatsheet/store"
	"github.com/flatsheet/flatsheet/version"
)

var rootCmdPersistentFlags struct {
	LogFile    string
	ConfigFile string
	LogLevel   string
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogFile, "log-file", "", "File to write logs to")
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: search for config.yml in current dir, ~/.flatsheet, /etc/flatsheet)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) - overrides config file setting")
}

var rootCmd = &cobra.Command{
	Use:     "flatsheet",
	Short:   "Flatsheet is a shared spreadsheet served from flat CSV files",
	Long:    `Flatsheet serves a browser-based shared spreadsheet. Admins edit the grid and register accounts, employees get a read-only view, and everything is persisted to plain CSV files.`,
	Example: `flatsheet --config config.yml`,
	Version: version.Version,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logToFile()
	},
	Run: root,
}

func root(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	users, sheets, err := openStores(cfg)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}

	seedDefaultAdmin(cfg, users)

	server, err := api.New(cfg, users, sheets)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	go func() {
		log.Info("starting server", "listen", cfg.Listen, "shape", cfg.Sheet.Shape)
		if err := server.Run(); err != nil {
			log.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	log.Info("flatsheet started successfully")
	<-c
	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if rootCmdPersistentFlags.LogLevel != "" {
		setLogLevel(rootCmdPersistentFlags.LogLevel)
	} else {
		setLogLevel(cfg.LogLevel)
	}
	return cfg
}

func openStores(cfg *config.Config) (*store.UserStore, *store.SheetStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, err
	}
	return store.NewUserStore(cfg.UsersPath()), store.NewSheetStore(cfg.SheetPath(), cfg.SheetShape()), nil
}

// seedDefaultAdmin creates the configured admin account when the users file
// doesn't exist yet, so a fresh install has someone who can log in.
func seedDefaultAdmin(cfg *config.Config, users *store.UserStore) {
	if !cfg.DefaultAdmin.Enabled {
		return
	}
	exists, err := users.Exists()
	if err != nil {
		log.Fatalf("failed to check users file: %v", err)
	}
	if exists {
		return
	}
	if err := users.Add(cfg.DefaultAdmin.Username, cfg.DefaultAdmin.Password, store.RoleAdmin); err != nil {
		log.Fatalf("failed to seed default admin: %v", err)
	}
	log.Info("seeded default admin", "username", cfg.DefaultAdmin.Username)
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to info", level)
		log.SetLevel(log.InfoLevel)
	}
}

func logToFile() {
	if rootCmdPersistentFlags.LogFile == "" {
		return
	}
	file, err := os.OpenFile(rootCmdPersistentFlags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		log.Errorf("failed to open log file: %v", err)
		return
	}

	// Create a multi-writer that writes to both console and file
	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.Info("logging to both console and file", "file", rootCmdPersistentFlags.LogFile)
}

func Execute() error {
	return rootCmd.Execute()
}
