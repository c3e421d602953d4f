package main

import (
	"context"
	"os"

	"github.com/dalemusser/stratasite/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
	"github.com/spf13/cobra"
)

// serveCmd hands its arguments to WAFFLE, which owns flag parsing for the
// server (core flags plus the app keys in bootstrap.appConfigKeys).
var serveCmd = &cobra.Command{
	Use:                "serve [waffle flags]",
	Short:              "Start the HTTP server",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Args = append([]string{os.Args[0]}, args...)
		return app.Run(context.Background(), bootstrap.Hooks)
	},
}
