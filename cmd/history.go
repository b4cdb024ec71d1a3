package cmd

import (
	"fmt"
	"io"

	"github.com/JOHNINDAKWA/coverly/internal/database"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously exported documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		exports, err := a.Store.ListExports(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("fetch export history: %w", err)
		}
		printHistory(cmd.OutOrStdout(), exports)
		return nil
	},
}

func printHistory(out io.Writer, exports []*database.Export) {
	if len(exports) == 0 {
		fmt.Fprintln(out, "No exports yet. Build one with 'coverly build'")
		return
	}

	fmt.Fprintln(out, titleStyle.Render("Export History"))
	for i, e := range exports {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, valueStyle.Render(e.Filename))
		fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Type:"), e.DocType)
		fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Template:"), e.TemplateID)
		fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Path:"), e.Path)
		fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Exported:"), e.ExportedAt.Local().Format("Jan 2, 2006 15:04"))
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
}
