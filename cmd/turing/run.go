package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <spec> <input> <output>",
	Short: "Simulate a machine on an input tape",
	Long: `Compiles the machine document <spec> (JSON, or YAML by extension), runs it on
the tape read from <input>, writes the canonical final tape to <output> and
prints the acceptance flag (1 or 0) on stdout.

A rejected input is not an error: the exit code is 0 whenever the simulation
completes, and 1 when a file cannot be read or the document is malformed.

When <spec> is not an existing file it is looked up by ID in the machine
library (--dir). The input must be valid UTF-8.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromFlags(cmd)
		return withEnv(cmd, func(env *cli.Env) error {
			_, err := cli.Run(cmd.Context(), env, cfg.Persistent(), cli.RunOptions{
				Spec:   args[0],
				Input:  args[1],
				Output: args[2],
			}, os.Stdout, os.Stderr)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
