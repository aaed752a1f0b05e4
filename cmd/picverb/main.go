// Package main provides the CLI entrypoint for picverb.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/picverb/internal/catalog"
	"github.com/verte-zerg/picverb/internal/config"
	"github.com/verte-zerg/picverb/internal/generator"
	"github.com/verte-zerg/picverb/internal/ledger"
	"github.com/verte-zerg/picverb/internal/model"
	"github.com/verte-zerg/picverb/internal/session"
	"github.com/verte-zerg/picverb/internal/stats"
	"github.com/verte-zerg/picverb/internal/statsui"
	"github.com/verte-zerg/picverb/internal/store"
	"github.com/verte-zerg/picverb/internal/tui"
)

const (
	defaultOptions     = generator.DefaultOptions
	defaultAvoidRepeat = true
	defaultLogLevel    = "info"
	defaultTop         = ledger.HardestLimit
)

var (
	quizCatalog     string
	quizOptions     int
	quizAvoidRepeat bool
	quizDB          string
	quizLogLevel    string

	statsTop   int
	statsPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "picverb",
		Short:         "Picture-to-verb flashcard quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}

	rootCmd.PersistentFlags().StringVar(&quizCatalog, "catalog", "", "catalog file path or http(s) URL (default: built-in verbs)")
	rootCmd.PersistentFlags().StringVar(&quizDB, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&quizLogLevel, "log-level", defaultLogLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().IntVar(&quizOptions, "options", defaultOptions, "options per round")
	rootCmd.Flags().BoolVar(&quizAvoidRepeat, "avoid-repeat", defaultAvoidRepeat, "make an immediate repeat of the last verb unlikely")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newCatalogCmd())

	return rootCmd
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog := newLogger(cfg)
	defer closeLog()

	storage, persistent, closeStorage := openStorage(cfg, log)
	defer closeStorage()

	book := ledger.NewBook(storage, ledger.WithLogger(log))
	sess := session.New(book, generator.New(), session.Options{
		OptionCount: cfg.Options,
		AvoidRepeat: cfg.AvoidRepeat,
	}, log)
	log.WithFields(logrus.Fields{
		"session": sess.ID(),
		"catalog": catalogLabel(cfg.CatalogPath),
		"options": cfg.Options,
	}).Info("starting quiz")

	source := cfg.CatalogPath
	quiz := tui.NewModel(sess, func(ctx context.Context) ([]model.Item, error) {
		return catalog.Load(ctx, source)
	})
	program := tea.NewProgram(quiz, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if !persistent || book.Degraded() {
		logErrln("warning: progress could not be saved this session; see", cfg.LogFile)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show accuracy and hardest verbs",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "number of hardest verbs to show")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print to stdout instead of opening the stats UI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if statsTop <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	statsCfg := model.StatsConfig{
		CatalogPath: cfg.CatalogPath,
		DBPath:      cfg.DBPath,
		Top:         statsTop,
		Plain:       statsPlain,
	}

	log, closeLog := newLogger(cfg)
	defer closeLog()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	book := ledger.NewBook(st, ledger.WithLogger(log))
	l := book.Load(ctx)
	if book.Degraded() {
		return fmt.Errorf("failed to read stats: %w", ledger.ErrStorageUnavailable)
	}
	items, err := catalog.Load(ctx, statsCfg.CatalogPath)
	if err != nil {
		log.WithError(err).Warn("catalog unavailable; showing verb ids")
	}
	report := stats.BuildReport(l, items, statsCfg.Top)

	if statsCfg.Plain {
		out := cmd.OutOrStdout()
		if err := stats.RenderSummary(out, report); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderHardestTable(out, report, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	program := tea.NewProgram(statsui.NewModel(report, statsCfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear recorded progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog := newLogger(cfg)
	defer closeLog()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	book := ledger.NewBook(st, ledger.WithLogger(log))
	book.Reset(cmd.Context())
	if book.Degraded() {
		return fmt.Errorf("failed to reset stats: %w", ledger.ErrStorageUnavailable)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Stats reset."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Validate and list the configured catalog",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	items, err := catalog.Load(cmd.Context(), cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", catalogLabel(cfg.CatalogPath), err)
	}
	if err := stats.RenderCatalog(cmd.OutOrStdout(), items); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveConfig layers flags over environment over the config file over defaults.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return model.Config{}, err
	}
	merged := config.Merge(fileCfg, envCfg)

	applyStringConfig(cmd, "catalog", &quizCatalog, merged.Quiz.Catalog)
	applyIntConfig(cmd, "options", &quizOptions, merged.Quiz.Options)
	applyBoolConfig(cmd, "avoid-repeat", &quizAvoidRepeat, merged.Quiz.AvoidRepeat)
	applyStringConfig(cmd, "db", &quizDB, merged.Quiz.DB)
	applyStringConfig(cmd, "log-level", &quizLogLevel, merged.Log.Level)

	logFile := config.DefaultLogPath()
	if merged.Log.File != nil && *merged.Log.File != "" {
		logFile = *merged.Log.File
	}

	cfg := model.Config{
		CatalogPath: strings.TrimSpace(quizCatalog),
		Options:     quizOptions,
		AvoidRepeat: quizAvoidRepeat,
		DBPath:      quizDB,
		LogLevel:    quizLogLevel,
		LogFile:     logFile,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.Options <= 0 {
		return fmt.Errorf("--options must be > 0")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("--db must not be empty")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# picverb configuration
# Uncomment a value to enable it. PICVERB_* environment variables override
# config values and CLI flags override both.

[quiz]
# catalog = ""              # Catalog file path or http(s) URL (default: built-in verbs)
# options = %d               # Options per round
# avoid-repeat = %t       # Make an immediate repeat of the last verb unlikely
# db = %q

[log]
# level = %q
# file = %q
`,
		defaultOptions,
		defaultAvoidRepeat,
		config.DefaultDBPath(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

// newLogger writes to the log file because the TUI owns the terminal.
// It falls back to stderr when the file cannot be opened.
func newLogger(cfg model.Config) (*logrus.Logger, func()) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		log.SetOutput(os.Stderr)
		log.WithError(err).Warn("failed to create log directory; logging to stderr")
		return log, func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.WithError(err).Warn("failed to open log file; logging to stderr")
		return log, func() {}
	}
	log.SetOutput(f)
	return log, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
}

// openStorage opens the SQLite store, falling back to memory so the quiz
// still runs when the database is unusable. persistent is false after a
// fallback.
func openStorage(cfg model.Config, log logrus.FieldLogger) (storage ledger.Storage, persistent bool, closeFn func()) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).WithField("db", cfg.DBPath).Warn("failed to open db; progress will not persist")
		return store.NewMemory(), false, func() {}
	}
	return st, true, func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close db")
		}
	}
}

func catalogLabel(source string) string {
	if source == "" {
		return "built-in catalog"
	}
	return source
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
