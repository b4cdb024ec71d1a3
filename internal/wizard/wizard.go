// Package wizard owns the in-progress document session: the profile, the job
// description, generated drafts, the chosen template and the rendered
// preview. Stage only moves forward when an action succeeds.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/JOHNINDAKWA/coverly/internal/exporter"
	"github.com/JOHNINDAKWA/coverly/internal/logging"
	"github.com/JOHNINDAKWA/coverly/internal/profile"
	"github.com/JOHNINDAKWA/coverly/internal/synth"
	"github.com/JOHNINDAKWA/coverly/internal/templates"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

// ProfileStore persists the profile between sessions. LoadProfile returns
// nil without error when nothing has been saved yet.
type ProfileStore interface {
	LoadProfile(ctx context.Context) (*models.Profile, error)
	SaveProfile(ctx context.Context, p *models.Profile) error
}

// Renderer turns a draft into a document. *templates.Registry satisfies it.
type Renderer interface {
	Render(req templates.Request) (string, error)
}

// Generator synthesizes drafts. *synth.Synthesizer satisfies it.
type Generator interface {
	Generate(p *models.Profile, jdText string, docType models.DocType) synth.Draft
}

// State is a snapshot of the session
type State struct {
	SessionID        string
	Stage            Stage
	DocType          models.DocType
	Profile          *models.Profile
	JobDescription   string
	Drafts           synth.Draft
	SelectedDraftKey string
	SelectedTemplate string
	RenderedDocument string
	PaymentMethod    string
	Artifact         *exporter.Artifact
}

// Options configures a Wizard
type Options struct {
	Store           ProfileStore
	Renderer        Renderer
	Generator       Generator
	Logger          *logging.Logger
	DefaultTemplate string
}

// Wizard serializes every operation behind one mutex; concurrent callers
// queue and the last write wins.
type Wizard struct {
	mu    sync.Mutex
	state State

	store           ProfileStore
	renderer        Renderer
	generator       Generator
	log             *logging.Logger
	defaultTemplate string
}

// New creates a wizard at stage 0
func New(opts Options) *Wizard {
	if opts.Generator == nil {
		opts.Generator = synth.New()
	}
	if opts.Renderer == nil {
		opts.Renderer = templates.NewDefaultRegistry("")
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = templates.DefaultID
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	id := uuid.NewString()
	return &Wizard{
		state:           initialState(id),
		store:           opts.Store,
		renderer:        opts.Renderer,
		generator:       opts.Generator,
		log:             opts.Logger.With("session", id),
		defaultTemplate: opts.DefaultTemplate,
	}
}

func initialState(sessionID string) State {
	return State{SessionID: sessionID, Stage: StageStart, DocType: models.DocTypeCV}
}

// advance raises the stage to at least target. Callers hold mu.
func (w *Wizard) advance(target Stage) {
	if target > w.state.Stage {
		w.log.Debug("stage advanced", "from", w.state.Stage.String(), "to", target.String())
		w.state.Stage = target
	}
}

// Restore loads the persisted profile, if any, without touching the stage
func (w *Wizard) Restore(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.store == nil {
		return nil
	}
	p, err := w.store.LoadProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore profile: %w", err)
	}
	if p != nil {
		w.state.Profile = profile.Normalize(p)
		w.log.Debug("profile restored", "name", w.state.Profile.Name)
	}
	return nil
}

// CaptureProfile stores p and guarantees stage >= 1. A nil p keeps the
// current profile, or starts an empty one when there is none.
func (w *Wizard) CaptureProfile(ctx context.Context, p *models.Profile) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p == nil {
		if w.state.Profile == nil {
			w.state.Profile = models.NewProfile()
		}
		w.advance(StageProfile)
		return nil
	}

	captured := profile.Normalize(p.Clone())
	if w.store != nil {
		if err := w.store.SaveProfile(ctx, captured); err != nil {
			return fmt.Errorf("failed to persist profile: %w", err)
		}
	}
	w.state.Profile = captured
	w.advance(StageProfile)
	return nil
}

// SetJobDescription replaces the job description text
func (w *Wizard) SetJobDescription(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.JobDescription = text
}

// GenerateDrafts recomputes the drafts from scratch and selects the primary one
func (w *Wizard) GenerateDrafts(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if w.state.Profile == nil {
		return ErrNoProfile
	}

	w.state.Drafts = w.generator.Generate(w.state.Profile, w.state.JobDescription, w.state.DocType)
	w.state.SelectedDraftKey = synth.PrimaryKey
	w.log.Debug("drafts generated", "doc_type", string(w.state.DocType), "variants", len(w.state.Drafts))
	w.advance(StageDrafted)
	return nil
}

// ChooseDraft selects a generated variant
func (w *Wizard) ChooseDraft(key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.state.Drafts[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDraft, key)
	}
	w.state.SelectedDraftKey = key
	return nil
}

// EditDraft replaces the body of the selected draft, e.g. after the user
// tweaks the letter text before previewing.
func (w *Wizard) EditDraft(body string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.state.Drafts) == 0 {
		return ErrNoDraft
	}
	key := w.selectedDraftKey()
	w.state.Drafts[key] = body
	return nil
}

// ChooseTemplate records the template id. Unknown ids fall back at render time.
func (w *Wizard) ChooseTemplate(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.SelectedTemplate = strings.TrimSpace(id)
}

func (w *Wizard) selectedDraftKey() string {
	if _, ok := w.state.Drafts[w.state.SelectedDraftKey]; ok {
		return w.state.SelectedDraftKey
	}
	return synth.PrimaryKey
}

// PreparePreview renders the selected draft with the selected template
func (w *Wizard) PreparePreview(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(w.state.Drafts) == 0 {
		return ErrNoDraft
	}

	templateID := w.state.SelectedTemplate
	if templateID == "" {
		templateID = w.defaultTemplate
	}

	html, err := w.renderer.Render(templates.Request{
		TemplateID: templateID,
		DocType:    w.state.DocType,
		Profile:    w.state.Profile,
		Body:       w.state.Drafts[w.selectedDraftKey()],
	})
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}

	w.state.RenderedDocument = html
	w.log.Debug("preview rendered", "template", templateID, "bytes", len(html))
	w.advance(StagePreviewed)
	return nil
}

// CompletePayment records the payment confirmation
func (w *Wizard) CompletePayment(method string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.RenderedDocument == "" {
		return ErrNoPreview
	}
	w.state.PaymentMethod = strings.TrimSpace(method)
	w.log.Info("payment completed", "method", w.state.PaymentMethod)
	w.advance(StagePaid)
	return nil
}

// Finalize exports the rendered document and moves to the done stage. An
// empty filename is derived from the profile name.
func (w *Wizard) Finalize(ctx context.Context, exp exporter.Exporter, filename string) (*exporter.Artifact, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Stage < StagePaid {
		return nil, ErrPaymentRequired
	}
	if w.state.RenderedDocument == "" {
		return nil, ErrNoPreview
	}
	if filename == "" {
		name := ""
		if w.state.Profile != nil {
			name = w.state.Profile.Name
		}
		filename = exporter.FilenameHint(name)
	}

	art, err := exp.Export(ctx, w.state.RenderedDocument, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to export document: %w", err)
	}
	w.state.Artifact = art
	w.advance(StageDone)
	return art, nil
}

// SwitchDocType changes the document type. Stage and profile survive, but
// drafts and the rendered preview are dropped so a stale render of the old
// type can never be exported.
func (w *Wizard) SwitchDocType(t models.DocType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t == w.state.DocType {
		return
	}
	w.log.Debug("doc type switched", "from", string(w.state.DocType), "to", string(t))
	w.state.DocType = t
	w.state.Drafts = nil
	w.state.SelectedDraftKey = ""
	w.state.RenderedDocument = ""
	w.state.Artifact = nil
}

// Reset returns the session to stage 0. The persisted profile is kept.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = initialState(w.state.SessionID)
	w.log.Debug("session reset")
}

// Stage returns the current stage
func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Stage
}

// Guard resolves path against the current stage
func (w *Wizard) Guard(path string) (string, bool) {
	return Guard(w.Stage(), path)
}

// Snapshot returns a copy of the state that callers may keep or modify
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.state
	s.Profile = w.state.Profile.Clone()
	if w.state.Drafts != nil {
		s.Drafts = make(synth.Draft, len(w.state.Drafts))
		for k, v := range w.state.Drafts {
			s.Drafts[k] = v
		}
	}
	if w.state.Artifact != nil {
		art := *w.state.Artifact
		s.Artifact = &art
	}
	return s
}
