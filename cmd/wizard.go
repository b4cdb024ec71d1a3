package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JOHNINDAKWA/coverly/internal/app"
	"github.com/JOHNINDAKWA/coverly/internal/exporter"
	"github.com/JOHNINDAKWA/coverly/internal/wizard"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/spf13/cobra"
)

var wizardCmd = &cobra.Command{
	Use:     "wizard",
	Aliases: []string{"tui"},
	Short:   "Step through building a document interactively",
	Long: `Launch the guided builder: confirm your profile, paste a job description,
review the draft, pick a template, preview, pay and download.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		htmlOnly, _ := cmd.Flags().GetBool("html-only")
		outDir, _ := cmd.Flags().GetString("out")

		s := &wizardSession{
			app:        a,
			w:          a.NewWizard(),
			in:         bufio.NewReader(cmd.InOrStdin()),
			out:        cmd.OutOrStdout(),
			exp:        a.Exporter(htmlOnly, outDir),
			previewDir: filepath.Join(os.TempDir(), "coverly"),
		}
		return s.run(cmd.Context())
	},
}

// wizardAction is one menu entry. path is the page the action belongs to;
// the entry is refused while the guard would redirect away from it.
type wizardAction struct {
	key   string
	label string
	path  string
	run   func(ctx context.Context) error
}

type wizardSession struct {
	app        *app.App
	w          *wizard.Wizard
	in         *bufio.Reader
	out        io.Writer
	exp        exporter.Exporter
	previewDir string
}

func (s *wizardSession) actions() []wizardAction {
	return []wizardAction{
		{"1", "Use saved profile", wizard.PathUpload, s.captureProfile},
		{"2", "Paste job description and generate draft", wizard.PathExtractReview, s.generate},
		{"3", "Edit draft", wizard.PathGenerate, s.editDraft},
		{"4", "Choose template", wizard.PathTemplates, s.chooseTemplate},
		{"5", "Preview", wizard.PathTemplates, s.preview},
		{"6", "Pay", wizard.PathPreviewPay, s.pay},
		{"7", "Download", wizard.PathDone, s.download},
		{"t", "Switch between CV and cover letter", wizard.PathUpload, s.switchDocType},
		{"r", "Start over", wizard.PathHome, s.reset},
	}
}

func (s *wizardSession) run(ctx context.Context) error {
	if err := s.w.Restore(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMenu()

		choice, err := s.readLine("\n> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		choice = strings.ToLower(choice)
		if choice == "q" {
			return nil
		}

		action, ok := s.find(choice)
		if !ok {
			fmt.Fprintln(s.out, "Invalid choice")
			continue
		}
		if target, redirected := s.w.Guard(action.path); redirected {
			fmt.Fprintf(s.out, "%s finish %s first\n", errorStyle.Render("Not yet:"), target)
			continue
		}
		if err := action.run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(s.out, "%s %v\n", errorStyle.Render("Error:"), err)
		}
	}
}

func (s *wizardSession) find(key string) (wizardAction, bool) {
	for _, a := range s.actions() {
		if a.key == key {
			return a, true
		}
	}
	return wizardAction{}, false
}

func (s *wizardSession) printMenu() {
	st := s.w.Snapshot()
	fmt.Fprintln(s.out, titleStyle.Render("Coverly Builder"))
	fmt.Fprintf(s.out, "%s %s  %s %s  %s %s\n",
		labelStyle.Render("Document:"), st.DocType,
		labelStyle.Render("Stage:"), st.Stage,
		labelStyle.Render("Page:"), wizard.PathFor(st.Stage))
	fmt.Fprintln(s.out)

	for _, a := range s.actions() {
		line := fmt.Sprintf("  [%s] %s", a.key, a.label)
		if _, redirected := wizard.Guard(st.Stage, a.path); redirected {
			line = mutedStyle.Render(line + " (locked)")
		}
		fmt.Fprintln(s.out, line)
	}
	fmt.Fprintln(s.out, "  [q] Quit")
}

// readLine returns io.EOF only when nothing was read
func (s *wizardSession) readLine(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readBlock reads lines until an empty line or EOF
func (s *wizardSession) readBlock(label string) string {
	fmt.Fprintln(s.out, label)
	var lines []string
	for {
		line, err := s.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func (s *wizardSession) captureProfile(ctx context.Context) error {
	if _, err := s.app.LoadProfile(ctx); errors.Is(err, app.ErrNoProfile) {
		fmt.Fprintln(s.out, "No saved profile yet, let's create one.")
		if err := runProfileInit(ctx, s.app, s.in, s.out); err != nil {
			return err
		}
		if err := s.w.Restore(ctx); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := s.w.CaptureProfile(ctx, nil); err != nil {
		return err
	}
	printProfile(s.out, s.w.Snapshot().Profile)
	return nil
}

func (s *wizardSession) generate(ctx context.Context) error {
	jd := s.readBlock("Paste the job description, then an empty line:")
	s.w.SetJobDescription(jd)
	if err := s.w.GenerateDrafts(ctx); err != nil {
		return err
	}
	st := s.w.Snapshot()
	fmt.Fprintln(s.out, titleStyle.Render("Draft"))
	fmt.Fprintln(s.out, st.Drafts.Primary())
	if jd != "" {
		printFit(s.out, st.Profile, jd)
	}
	return nil
}

func (s *wizardSession) editDraft(ctx context.Context) error {
	body := s.readBlock("Type the replacement text, then an empty line (nothing keeps the draft):")
	if body == "" {
		return nil
	}
	if err := s.w.EditDraft(body); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "✓ Draft updated")
	return nil
}

func (s *wizardSession) chooseTemplate(ctx context.Context) error {
	ids := s.app.Templates.IDs()
	fmt.Fprintf(s.out, "Templates: %s\n", strings.Join(ids, ", "))
	id, err := s.readLine("Template: ")
	if err != nil {
		return err
	}
	if !s.app.Templates.Has(id) {
		return fmt.Errorf("%w: template %q", app.ErrNotFound, id)
	}
	s.w.ChooseTemplate(id)
	fmt.Fprintf(s.out, "✓ Using %s\n", id)
	return nil
}

func (s *wizardSession) preview(ctx context.Context) error {
	if err := s.w.PreparePreview(ctx); err != nil {
		return err
	}
	art, err := exporter.NewHTMLExporter(s.previewDir).Export(ctx, s.w.Snapshot().RenderedDocument, "preview")
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "✓ Preview ready, open %s in your browser\n", art.Path)
	return nil
}

func (s *wizardSession) pay(ctx context.Context) error {
	method, err := s.readLine("Payment method [card]: ")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if method == "" {
		method = "card"
	}
	if err := s.w.CompletePayment(method); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "✓ Payment confirmed")
	return nil
}

func (s *wizardSession) download(ctx context.Context) error {
	art, err := s.w.Finalize(ctx, s.exp, "")
	if err != nil {
		return err
	}

	st := s.w.Snapshot()
	s.app.RecordExport(ctx, st, s.app.TemplateFor(st.SelectedTemplate))

	fmt.Fprintf(s.out, "%s %s\n", titleStyle.Render("✓ Downloaded"), art.Path)
	return nil
}

func (s *wizardSession) switchDocType(ctx context.Context) error {
	next := models.DocTypeCoverLetter
	if s.w.Snapshot().DocType == models.DocTypeCoverLetter {
		next = models.DocTypeCV
	}
	s.w.SwitchDocType(next)
	fmt.Fprintf(s.out, "✓ Now building a %s\n", next)
	return nil
}

func (s *wizardSession) reset(ctx context.Context) error {
	s.w.Reset()
	if err := s.w.Restore(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "✓ Started over")
	return nil
}

func init() {
	rootCmd.AddCommand(wizardCmd)
	wizardCmd.Flags().Bool("html-only", false, "Download HTML instead of printing a PDF")
	wizardCmd.Flags().String("out", "", "Download directory (default from config)")
}
