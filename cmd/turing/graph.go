package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <spec|machine-id>",
	Short: "Export the machine visualization",
	Long:  `Outputs a Mermaid diagram (stateDiagram-v2) of the machine's effective transitions.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(env *cli.Env) error {
			return cli.Graph(cmd.Context(), env, args[0], os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
