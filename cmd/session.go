package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JOHNINDAKWA/coverly/internal/app"
	"github.com/JOHNINDAKWA/coverly/internal/wizard"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/spf13/cobra"
)

// buildOptions carries everything a non-interactive run of the wizard needs
type buildOptions struct {
	DocType  models.DocType
	JD       string
	BodyFile string
	Template string
	PaidWith string
	OutDir   string
	HTMLOnly bool
	Filename string
}

// addJDFlags registers the job description and document type flags
func addJDFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", string(models.DocTypeCV), "Document type: cv or cover-letter")
	cmd.Flags().String("jd", "", "Job description text")
	cmd.Flags().String("jd-file", "", "Read the job description from a file (- for stdin)")
}

// readJobDescription prefers the file when both are given. "-" reads stdin.
func readJobDescription(text, file string, stdin io.Reader) (string, error) {
	if file == "" {
		return strings.TrimSpace(text), nil
	}

	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func optionsFromFlags(cmd *cobra.Command) (buildOptions, error) {
	docType, _ := cmd.Flags().GetString("type")
	jd, _ := cmd.Flags().GetString("jd")
	jdFile, _ := cmd.Flags().GetString("jd-file")

	text, err := readJobDescription(jd, jdFile, cmd.InOrStdin())
	if err != nil {
		return buildOptions{}, err
	}

	opts := buildOptions{DocType: models.ParseDocType(docType), JD: text}
	if f := cmd.Flags().Lookup("template"); f != nil {
		opts.Template = f.Value.String()
	}
	if f := cmd.Flags().Lookup("body"); f != nil {
		opts.BodyFile = f.Value.String()
	}
	return opts, nil
}

// draftSession starts a wizard on the saved profile and generates drafts
func draftSession(ctx context.Context, a *app.App, opts buildOptions) (*wizard.Wizard, error) {
	if _, err := a.LoadProfile(ctx); err != nil {
		return nil, err
	}

	w := a.NewWizard()
	if err := w.Restore(ctx); err != nil {
		return nil, err
	}
	if err := w.CaptureProfile(ctx, nil); err != nil {
		return nil, err
	}
	w.SwitchDocType(opts.DocType)
	w.SetJobDescription(opts.JD)
	if err := w.GenerateDrafts(ctx); err != nil {
		return nil, err
	}

	if opts.BodyFile != "" {
		body, err := os.ReadFile(opts.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("read draft body: %w", err)
		}
		if err := w.EditDraft(string(body)); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// previewSession runs the wizard up to a rendered preview
func previewSession(ctx context.Context, a *app.App, opts buildOptions) (*wizard.Wizard, error) {
	w, err := draftSession(ctx, a, opts)
	if err != nil {
		return nil, err
	}
	if opts.Template != "" {
		if !a.Templates.Has(opts.Template) {
			a.Logger.Warn("unknown template, using default", "template", opts.Template, "fallback", a.Templates.DefaultID())
		}
		w.ChooseTemplate(opts.Template)
	}
	if err := w.PreparePreview(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// runBuild drives a session from saved profile to exported file and records
// the export in history
func runBuild(ctx context.Context, a *app.App, opts buildOptions) (wizard.State, error) {
	w, err := previewSession(ctx, a, opts)
	if err != nil {
		return wizard.State{}, err
	}
	if err := w.CompletePayment(opts.PaidWith); err != nil {
		return wizard.State{}, err
	}
	if _, err := w.Finalize(ctx, a.Exporter(opts.HTMLOnly, opts.OutDir), opts.Filename); err != nil {
		return wizard.State{}, err
	}

	s := w.Snapshot()
	a.RecordExport(ctx, s, a.TemplateFor(s.SelectedTemplate))
	return s, nil
}
