package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec|machine-id>",
	Short: "Check a machine document",
	Long: `Compiles the machine and reports structural errors. Overridden rules,
invalid directions and unreachable states are reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *cli.Env) error {
			return cli.Validate(cmd.Context(), env, args[0], os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
