package cli

import (
	"fmt"
	"os"

	"github.com/lectorio/lectorio/cli/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "lectorioctl",
	Short:   "Lectorio command line client",
	Long:    `Command line client for the Lectorio series reading platform API.`,
	Version: "1.0.0",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local configuration",
	Long:  `Create ~/.lectorio/config.yaml with default server settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			printError("Failed to initialize configuration")
			return err
		}
		printSuccess("Configuration initialized at ~/.lectorio/config.yaml")
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(rankingCmd)

	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)

	seriesCmd.AddCommand(seriesListCmd)

	rankingCmd.AddCommand(rankingTopCmd)
	rankingCmd.AddCommand(rankingRecomputeCmd)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printSuccess(msg string) {
	fmt.Printf("✓ %s\n", msg)
}
