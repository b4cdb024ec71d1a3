package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/JOHNINDAKWA/coverly/internal/matcher"
	"github.com/JOHNINDAKWA/coverly/internal/synth"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:     "draft",
	Aliases: []string{"generate"},
	Short:   "Generate a draft resume or cover letter",
	Long: `Generate a plain-text draft from your saved profile, tailored to a job description.
Nothing is rendered or exported; use 'coverly build' for that.`,
	Example: `  coverly draft --jd "Senior Backend Engineer at Acme Corp"
  coverly draft --type cover-letter --jd-file posting.txt
  pbpaste | coverly draft -t cover-letter --jd-file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		opts, err := optionsFromFlags(cmd)
		if err != nil {
			return err
		}

		w, err := draftSession(cmd.Context(), a, opts)
		if err != nil {
			return err
		}

		s := w.Snapshot()
		out := cmd.OutOrStdout()
		heading := "Draft Resume"
		if s.DocType == models.DocTypeCoverLetter {
			heading = "Draft Cover Letter"
		}
		fmt.Fprintln(out, titleStyle.Render(heading))
		fmt.Fprintln(out, s.Drafts.Primary())
		if s.JobDescription != "" {
			printFit(out, s.Profile, s.JobDescription)
		}
		return nil
	},
}

// printFit shows how the profile scores against the job description
func printFit(out io.Writer, p *models.Profile, jd string) {
	r := matcher.Score(p, jd, synth.RegexExtractor{}.Role(jd))
	fmt.Fprintf(out, "\n%s %.0f%%\n", labelStyle.Render("Job fit:"), r.Score*100)
	if len(r.MatchedSkills) > 0 {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Matched skills:"), strings.Join(r.MatchedSkills, ", "))
	}
}

func init() {
	rootCmd.AddCommand(draftCmd)
	addJDFlags(draftCmd)
}
