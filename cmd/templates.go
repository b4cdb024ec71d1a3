package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/JOHNINDAKWA/coverly/internal/app"
	"github.com/JOHNINDAKWA/coverly/internal/exporter"
	"github.com/JOHNINDAKWA/coverly/internal/templates"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template"},
	Short:   "Browse document templates",
}

var listTemplatesCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Templates"))
		def := a.DefaultTemplate()
		for _, id := range a.Templates.IDs() {
			if id == def {
				fmt.Fprintf(out, "  %s %s\n", valueStyle.Render(id), labelStyle.Render("[DEFAULT]"))
				continue
			}
			fmt.Fprintf(out, "  %s\n", valueStyle.Render(id))
		}
		return nil
	},
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Render every template to HTML for side-by-side comparison",
	Example: `  coverly templates gallery --out ./gallery
  coverly templates gallery --sample`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		outDir, _ := cmd.Flags().GetString("out")
		sample, _ := cmd.Flags().GetBool("sample")
		jd, _ := cmd.Flags().GetString("jd")

		p := sampleProfile()
		if !sample {
			saved, err := a.LoadProfile(cmd.Context())
			switch {
			case err == nil:
				p = saved
			case errors.Is(err, app.ErrNoProfile):
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No saved profile, using sample data"))
			default:
				return err
			}
		}

		arts, err := renderGallery(cmd.Context(), a, p, jd, exporter.NewHTMLExporter(outDir))
		if err != nil {
			return err
		}
		printGallery(cmd.OutOrStdout(), arts)
		return nil
	},
}

// renderGallery renders both document types with every registered template
// and writes each one through exp
func renderGallery(ctx context.Context, a *app.App, p *models.Profile, jd string, exp exporter.Exporter) ([]*exporter.Artifact, error) {
	docTypes := []models.DocType{models.DocTypeCV, models.DocTypeCoverLetter}
	bodies := make(map[models.DocType]string, len(docTypes))
	for _, dt := range docTypes {
		bodies[dt] = a.Synth.Generate(p, jd, dt).Primary()
	}

	ids := a.Templates.IDs()
	arts := make([]*exporter.Artifact, len(ids)*len(docTypes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range ids {
		for j, dt := range docTypes {
			id, dt := id, dt
			slot := i*len(docTypes) + j
			g.Go(func() error {
				html, err := a.Templates.Render(templates.Request{
					TemplateID: id,
					DocType:    dt,
					Profile:    p,
					Body:       bodies[dt],
				})
				if err != nil {
					return err
				}
				art, err := exp.Export(ctx, html, fmt.Sprintf("%s-%s", id, dt))
				if err != nil {
					return fmt.Errorf("export %s %s: %w", id, dt, err)
				}
				arts[slot] = art
				a.Logger.Debug("gallery page written", "template", id, "doc_type", string(dt))
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return arts, nil
}

func printGallery(out io.Writer, arts []*exporter.Artifact) {
	sort.Slice(arts, func(i, j int) bool { return arts[i].Filename < arts[j].Filename })
	fmt.Fprintln(out, titleStyle.Render("Template Gallery"))
	for _, art := range arts {
		fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(art.Filename), mutedStyle.Render(art.Path))
	}
}

// sampleProfile is shown when the user has nothing saved yet
func sampleProfile() *models.Profile {
	p := models.NewProfile()
	p.Name = "Amina Wanjiru"
	p.Title = "Senior Software Engineer"
	p.Email = "amina@example.com"
	p.Phone = "+254 700 000 000"
	p.Location = "Nairobi, Kenya"
	p.Summary = "Backend engineer who ships reliable payment systems and mentors growing teams."
	p.Skills = []string{"Go", "PostgreSQL", "Kubernetes", "gRPC", "React"}
	p.Experience = []models.Job{
		{
			Role:    "Senior Software Engineer",
			Company: "Savanna Pay",
			City:    "Nairobi",
			Start:   "2021-02",
			End:     models.Present,
			Bullets: []string{"Led the move to event-driven settlement, cutting reconciliation time by 70%", "Mentored five engineers"},
		},
		{
			Role:    "Software Engineer",
			Company: "Kilima Labs",
			City:    "Mombasa",
			Start:   "2017-06",
			End:     "2021-01",
			Bullets: []string{"Built the merchant onboarding API"},
		},
	}
	p.Education = []models.Education{{School: "University of Nairobi", Degree: "BSc", Field: "Computer Science", StartYear: "2013", EndYear: "2017"}}
	p.Achievements = []models.Achievement{{Title: "Speaker, GopherCon Africa", Year: "2023"}}
	p.Certifications = []models.Certification{{Name: "CKA", Issuer: "CNCF", Year: "2022"}}
	p.Projects = []models.Project{{Name: "ledgerlint", URL: "https://github.com/example/ledgerlint", Description: "Static checks for double-entry ledgers", Tags: []string{"go", "cli"}}}
	p.Social = map[string]string{"github": "https://github.com/example"}
	return p
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(listTemplatesCmd)
	templatesCmd.AddCommand(galleryCmd)

	galleryCmd.Flags().String("out", "gallery", "Directory to write the HTML files to")
	galleryCmd.Flags().Bool("sample", false, "Use sample data instead of your profile")
	galleryCmd.Flags().String("jd", "", "Job description used for the drafts")
}
