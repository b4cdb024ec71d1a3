package cmd

import (
	"fmt"
	"os"

	"github.com/JOHNINDAKWA/coverly/internal/wizard"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and export a resume or cover letter",
	Long: `Run the whole flow in one go: draft from your profile, render with a template,
confirm payment and export a print-ready PDF (or HTML with --html-only).`,
	Example: `  coverly build --jd "Platform Engineer at Initech" --template modern
  coverly build -t cover-letter --jd-file posting.txt --out ~/Documents
  coverly build --html-only --filename jane-cv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		opts, err := optionsFromFlags(cmd)
		if err != nil {
			return err
		}
		opts.PaidWith, _ = cmd.Flags().GetString("paid-with")
		opts.OutDir, _ = cmd.Flags().GetString("out")
		opts.HTMLOnly, _ = cmd.Flags().GetBool("html-only")
		opts.Filename, _ = cmd.Flags().GetString("filename")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, mutedStyle.Render("Rendering and exporting..."))

		s, err := runBuild(cmd.Context(), a, opts)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, titleStyle.Render("✓ Document ready"))
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Type:"), s.DocType)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Paid with:"), s.PaymentMethod)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("File:"), s.Artifact.Path)
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a document to HTML without exporting it",
	Example: `  coverly preview --jd "Data Engineer at Globex" > preview.html
  coverly preview -t cover-letter --template classic --out preview.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		opts, err := optionsFromFlags(cmd)
		if err != nil {
			return err
		}

		w, err := previewSession(cmd.Context(), a, opts)
		if err != nil {
			return err
		}
		html := w.Snapshot().RenderedDocument

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		}
		if err := os.WriteFile(outPath, []byte(html), 0644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Preview written to %s (stage %s)\n", outPath, wizard.StagePreviewed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addJDFlags(buildCmd)
	buildCmd.Flags().String("template", "", "Template id (see 'coverly templates list')")
	buildCmd.Flags().String("body", "", "Replace the generated draft with the contents of this file")
	buildCmd.Flags().String("paid-with", "card", "Payment method to record")
	buildCmd.Flags().String("out", "", "Output directory (default from config)")
	buildCmd.Flags().Bool("html-only", false, "Write HTML instead of printing a PDF")
	buildCmd.Flags().String("filename", "", "Output file name (default derived from your name)")

	rootCmd.AddCommand(previewCmd)
	addJDFlags(previewCmd)
	previewCmd.Flags().String("template", "", "Template id")
	previewCmd.Flags().String("body", "", "Replace the generated draft with the contents of this file")
	previewCmd.Flags().String("out", "", "Write the HTML to this file instead of stdout")
}
