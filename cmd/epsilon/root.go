package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rawbytedev/epsilon"
	"github.com/rawbytedev/epsilon/hashing"
)

// Version of the command.
const Version = "1.0.0"

// app holds the configuration shared by all subcommands. Settings come
// from flags, then EPSILON_* environment variables, then .env files.
type app struct {
	v   *viper.Viper
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: slog.Default()}
	root := &cobra.Command{
		Use:   "epsilon",
		Short: "inspect and profile epsilon serialized data",
		Long: fmt.Sprintf(`epsilon (v%s)

Tools for files written by the epsilon serialization engine, whose
values can be read back as an owned copy or as a zero-copy view.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	addGlobalFlags(root.PersistentFlags())
	_ = a.v.BindPFlags(root.PersistentFlags())

	root.AddCommand(a.inspectCmd(), a.metricsCmd(), a.profileCmd(), versionCmd())
	return root
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.String("hasher", string(hashing.XXHash), "structural hash function (xxhash, blake3)")
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	a.v.SetEnvPrefix("epsilon")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	epsilon.SetLogger(a.log)
	return nil
}

// options returns the engine options selected by the configuration.
func (a *app) options() ([]epsilon.Option, error) {
	kind, err := hashing.ParseKind(a.v.GetString("hasher"))
	if err != nil {
		return nil, err
	}
	return []epsilon.Option{epsilon.WithHasher(kind)}, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version numbers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "epsilon v%s (format %d.%d)\n", Version, epsilon.VersionMajor, epsilon.VersionMinor)
		},
	}
}
