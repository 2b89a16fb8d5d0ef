package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/config"
	"github.com/epic-tm/completionist/internal/logging"
	"github.com/epic-tm/completionist/internal/source"
	"github.com/epic-tm/completionist/internal/state"
	"github.com/epic-tm/completionist/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "completionist",
	Short: "Star chart of your achievements in the terminal",
	Long: `Completionist draws your achievements as a star chart: domains orbit the
centre, tiers orbit their domain, and every achievement is a node you can
hover, open and complete. Progress is saved locally between runs.

Without a subcommand the interactive chart starts. The subcommands work
headless on the same data and progress database.`,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// persistentFlags maps flag names to their config keys.
var persistentFlags = map[string]string{
	"data":      "data",
	"db":        "db",
	"ephemeral": "ephemeral",
	"log-level": "log_level",
	"log-file":  "log_file",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .completionist.toml)")
	pf.String("data", "", "achievements document: file path or http(s) URL")
	pf.String("db", "", "progress database (default under the user config dir)")
	pf.Bool("ephemeral", false, "keep progress in memory only")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "write logs to this file")

	bindFlags(pf, persistentFlags)
}

// bindFlags binds each named flag of fs to its config key.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".completionist")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("COMPLETIONIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// No config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger returns a logger at the configured level writing to w.
func newLogger(cfg config.Config, w io.Writer) *logging.Logger {
	log := logging.New(logging.ParseLevel(cfg.LogLevel))
	log.SetOutput(w)
	return log
}

// openStore opens the progress database, or an in-memory store for
// ephemeral runs.
func openStore(ctx context.Context, cfg config.Config) (store.KV, error) {
	if cfg.Ephemeral {
		return store.NewMemory(), nil
	}
	kv, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open progress database %s: %w", cfg.DB, err)
	}
	return kv, nil
}

// session is everything a command needs to read or change progress.
type session struct {
	cfg     config.Config
	log     *logging.Logger
	fetcher *source.Fetcher
	kv      store.KV
	mgr     *state.Manager
	loaded  bool // the data document was read, not the demo fallback
}

func (s *session) Close() error {
	return s.kv.Close()
}

// openSession loads config, the progress store and the data document, and
// restores saved progress into a state manager.
func openSession(ctx context.Context, cfg config.Config, log *logging.Logger) (*session, error) {
	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher := source.NewFetcher(source.WithTimeout(cfg.FetchTimeout))
	doc, loaded := source.LoadDocument(ctx, fetcher, cfg.Data, cfg.Shape, log.Named("source"))

	mgr := state.NewManager(state.Config{
		Shape:         cfg.Shape,
		Layout:        cfg.Layout,
		AdminPassword: cfg.AdminPassword,
	}, kv, log.Named("state"))
	if err := mgr.Init(ctx, doc); err != nil {
		log.Warn("starting without saved progress: %v", err)
	}

	return &session{
		cfg:     cfg,
		log:     log,
		fetcher: fetcher,
		kv:      kv,
		mgr:     mgr,
		loaded:  loaded,
	}, nil
}

// withSession runs fn against a freshly opened session on the command's
// output streams.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, cfg, newLogger(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// parseRef reads a 1-based "domain tier achievement" triple.
func parseRef(args []string) (achievements.Ref, error) {
	if len(args) < 3 {
		return achievements.Ref{}, fmt.Errorf("need DOMAIN TIER ACHIEVEMENT, got %d argument(s)", len(args))
	}
	var n [3]int
	for i, name := range []string{"domain", "tier", "achievement"} {
		v, err := parsePositive(args[i])
		if err != nil {
			return achievements.Ref{}, fmt.Errorf("%s %q: %w", name, args[i], err)
		}
		n[i] = v - 1
	}
	return achievements.Ref{Domain: n[0], Tier: n[1], Index: n[2]}, nil
}

func parsePositive(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if v < 1 {
		return 0, fmt.Errorf("numbers start at 1")
	}
	return v, nil
}
