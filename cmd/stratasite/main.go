// Command stratasite runs the content site API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stratasite",
	Short: "Content publication API for posts, products, pages and visitor forms",
	Long: `stratasite serves the public content API, the admin API and the
visitor form endpoints.

Run "stratasite serve" to start the HTTP server. Server flags, config files
and STRATASITE_* environment variables are handled by the WAFFLE config
loader; see "stratasite serve --help".`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
