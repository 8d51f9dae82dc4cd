package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long:  `Lists the runs kept by the configured --store, oldest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withEnv(cmd, func(env *cli.Env) error {
			return cli.History(cmd.Context(), env, asJSON, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Bool("json", false, "Print one JSON record per line")
}
