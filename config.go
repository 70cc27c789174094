/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/maboulbox/games/andrea"
	"github.com/Seednode/maboulbox/games/maboul"
	"github.com/Seednode/maboulbox/scores"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	adminCode      string
	bind           string
	catalog        string
	configFile     string
	cooldown       time.Duration
	db             string
	envFile        string
	fallback       string
	maxAttempts    int
	mission        string
	playerTimeout  time.Duration
	port           int
	prefix         string
	profile        bool
	quizDir        string
	requireQuiz    bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxAttempts < 1 {
		return fmt.Errorf("invalid attempt ceiling (must be at least 1): %d", c.maxAttempts)
	}
	if c.cooldown < 0 {
		return fmt.Errorf("invalid cooldown (must not be negative): %s", c.cooldown)
	}
	if c.db == "" && c.fallback == "" {
		return errors.New("at least one of --db and --fallback is required")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) engine() maboul.Config {
	ec := maboul.DefaultConfig()
	ec.MaxAttempts = c.maxAttempts
	ec.Cooldown = c.cooldown
	return ec
}

func (c *Config) challenges() (func() []maboul.Challenge, error) {
	return maboul.CatalogSource(c.catalog, c.engine())
}

func (c *Config) loadMission() (andrea.Mission, error) {
	return andrea.Load(c.mission)
}

// openScores opens the SQLite store with the JSON file as a local copy.
// Either one alone is used when the other is disabled or cannot open.
func (c *Config) openScores() (scores.Store, error) {
	var local scores.Store
	if c.fallback != "" {
		fs, err := scores.OpenFile(c.fallback)
		if err != nil {
			return nil, err
		}
		local = fs
	}

	if c.db == "" {
		return local, nil
	}

	primary, err := scores.OpenSQLite(c.db)
	switch {
	case err != nil && local == nil:
		return nil, err
	case err != nil:
		logf(c, "SCORES: Unable to open %s, using %s only: %v", c.db, c.fallback, err)
		return local, nil
	case local == nil:
		return primary, nil
	}

	return &scores.Fallback{
		Primary: primary,
		Local:   local,
		Logf:    func(format string, args ...any) { logf(c, format, args...) },
	}, nil
}

// applyEnv copies values viper knows about onto flags the user did not
// set on the command line.
func applyEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

// loadSources reads the optional env file and config file, then applies
// them to every flag set of cmd.
func loadSources(cfg *Config, v *viper.Viper, cmd *cobra.Command) error {
	if cfg.envFile != "" {
		if err := godotenv.Load(cfg.envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}
	if cfg.configFile != "" {
		v.SetConfigFile(cfg.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnv(v, cmd.Flags())
	applyEnv(v, cmd.InheritedFlags())
	return nil
}

func normalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MABOULBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "maboulbox",
		Short:         "Party games around a steady-hand extraction game, packed in a single webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSources(cfg, v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.SetNormalizeFunc(normalize)

	pfs.StringVar(&cfg.catalog, "catalog", "", "path to a toml challenge catalog (env: MABOULBOX_CATALOG)")
	pfs.StringVar(&cfg.configFile, "config", "", "path to a config file (env: MABOULBOX_CONFIG)")
	pfs.DurationVar(&cfg.cooldown, "cooldown", time.Second, "time after a wall touch during which further touches are not counted (env: MABOULBOX_COOLDOWN)")
	pfs.StringVar(&cfg.db, "db", "data/scores.db", "path to the sqlite score database, empty to disable (env: MABOULBOX_DB)")
	pfs.StringVar(&cfg.envFile, "env-file", "", "path to a .env file to load (env: MABOULBOX_ENV_FILE)")
	pfs.StringVar(&cfg.fallback, "fallback", "data/scores.json", "path to the json score backup, empty to disable (env: MABOULBOX_FALLBACK)")
	pfs.IntVar(&cfg.maxAttempts, "max-attempts", 3, "wall touches allowed per object (env: MABOULBOX_MAX_ATTEMPTS)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: MABOULBOX_VERBOSE)")

	fs := cmd.Flags()
	fs.SetNormalizeFunc(normalize)

	fs.StringVar(&cfg.adminCode, "admin-code", "", "code for the organizer dashboard, empty to disable (env: MABOULBOX_ADMIN_CODE)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: MABOULBOX_BIND)")
	fs.StringVar(&cfg.mission, "mission", "", "path to a yaml mission file (env: MABOULBOX_MISSION)")
	fs.DurationVar(&cfg.playerTimeout, "player-timeout", 12*time.Hour, "time before idle logins expire (env: MABOULBOX_PLAYER_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MABOULBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: MABOULBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: MABOULBOX_PROFILE)")
	fs.StringVar(&cfg.quizDir, "quiz-dir", "", "directory holding the quiz and mission pictures (env: MABOULBOX_QUIZ_DIR)")
	fs.BoolVar(&cfg.requireQuiz, "require-quiz", false, "require passing the quiz before the extraction game (env: MABOULBOX_REQUIRE_QUIZ)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are ended (env: MABOULBOX_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: MABOULBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: MABOULBOX_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MABOULBOX_VERSION)")

	applyEnv(v, pfs)
	applyEnv(v, fs)

	cmd.AddCommand(newScoresCmd(cfg), newSoundsCmd(cfg), newPlayCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("maboulbox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
