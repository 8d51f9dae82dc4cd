package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a deterministic single-tape Turing machine simulator",
	Long: `Turing runs machines described in JSON or YAML documents on input tapes,
prints the acceptance flag and writes the canonical final tape.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Directory containing the machine library")
	flags.String("loader", cli.LoaderLoam, "Machine library backend: loam or file")
	flags.BoolP("verbose", "v", false, "Log run lifecycle at debug level on stderr")
	flags.String("log-file", "", "Also write logs as JSON lines to this file")
	flags.Int("max-steps", 0, "Step budget per run (0 uses the default)")
	flags.String("store", cli.StoreNone, "Run record store: none, file, sqlite or redis")
	flags.String("redis-addr", "localhost:6379", "Redis address (with --store redis)")
	flags.String("db", "", "Store location: directory for file, database path for sqlite")
	flags.StringSlice("redact", nil, "Regular expressions masked in stored tapes (repeatable)")
}

// configFromFlags reads the persistent flags into a cli.Config.
func configFromFlags(cmd *cobra.Command) cli.Config {
	flags := cmd.Flags()
	cfg := cli.Config{}
	cfg.Dir, _ = flags.GetString("dir")
	cfg.Loader, _ = flags.GetString("loader")
	cfg.Verbose, _ = flags.GetBool("verbose")
	cfg.LogFile, _ = flags.GetString("log-file")
	cfg.MaxSteps, _ = flags.GetInt("max-steps")
	cfg.Store, _ = flags.GetString("store")
	cfg.RedisAddr, _ = flags.GetString("redis-addr")
	cfg.DB, _ = flags.GetString("db")
	cfg.Redact, _ = flags.GetStringSlice("redact")
	cfg.EncryptionKey = os.Getenv(cli.EnvEncryptionKey)
	return cfg
}

// withEnv sets up the engine for the duration of fn.
func withEnv(cmd *cobra.Command, fn func(env *cli.Env) error) error {
	env, err := cli.Setup(configFromFlags(cmd), domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}
