package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JOHNINDAKWA/coverly/internal/app"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coverly",
	Short: "Guided resume and cover letter builder",
	Long: `Coverly builds tailored resumes and cover letters from your saved profile.
Paste a job description, pick a template, preview the result and export a print-ready PDF.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if app.GetAppFromContext(cmd.Context()) != nil {
			return nil
		}

		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		// cobra hands subcommands their own context; keep a handle for cleanup
		current = application
		return nil
	},
}

var current *app.App

// Execute runs the root command
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)

	if current != nil {
		current.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// appFrom returns the App attached by PersistentPreRunE
func appFrom(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}
