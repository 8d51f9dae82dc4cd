package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <spec|machine-id>",
	Short: "Describe a machine in Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *cli.Env) error {
			return cli.Describe(cmd.Context(), env, args[0], os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
