package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "mango",
	Short: "RedMango storefront client",
	Long: `mango is the RedMango grocery storefront client.

It submits catalog items to the storefront backend, manages the cart,
and keeps reviews and star ratings in client-local storage. It also
bundles a dev backend (mango serve) for local development.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(statusCmd)
}
