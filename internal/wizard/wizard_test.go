package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JOHNINDAKWA/coverly/internal/exporter"
	"github.com/JOHNINDAKWA/coverly/internal/logging"
	"github.com/JOHNINDAKWA/coverly/internal/synth"
	"github.com/JOHNINDAKWA/coverly/internal/templates"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

const jd = "Senior Software Engineer at Acme Corp"

type memStore struct {
	mu      sync.Mutex
	profile *models.Profile
	saves   int
	loadErr error
	saveErr error
}

func (s *memStore) LoadProfile(context.Context) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.profile.Clone(), nil
}

func (s *memStore) SaveProfile(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.profile = p.Clone()
	return nil
}

type failingRenderer struct{ err error }

func (r failingRenderer) Render(templates.Request) (string, error) { return "", r.err }

func jane() *models.Profile {
	p := models.NewProfile()
	p.Name = "Jane Doe"
	p.Email = "jane@x.com"
	p.Skills = []string{"React", "Node"}
	p.Experience = []models.Job{{
		Role:    "Engineer",
		Company: "Acme",
		Start:   "2020-01",
		End:     "Present",
		Bullets: []string{"Shipped X"},
	}}
	return p
}

func newTestWizard(store ProfileStore) *Wizard {
	return New(Options{
		Store:     store,
		Renderer:  templates.NewDefaultRegistry("https://coverly.app"),
		Generator: &synth.Synthesizer{Now: func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) }},
	})
}

func TestWizard_EndToEnd(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(&memStore{})

	require.NoError(t, w.CaptureProfile(ctx, jane()))
	w.SetJobDescription(jd)
	require.NoError(t, w.GenerateDrafts(ctx))

	s := w.Snapshot()
	assert.Equal(t, StageDrafted, s.Stage)
	assert.Equal(t, synth.PrimaryKey, s.SelectedDraftKey)
	primary := s.Drafts.Primary()
	assert.Contains(t, primary, "Engineer")
	assert.Contains(t, primary, "Acme")
	assert.Contains(t, primary, "Shipped X")

	w.ChooseTemplate("sleek")
	require.NoError(t, w.PreparePreview(ctx))
	s = w.Snapshot()
	assert.Equal(t, StagePreviewed, s.Stage)
	assert.Contains(t, s.RenderedDocument, "Jane Doe")
	assert.NotContains(t, s.RenderedDocument, jd)

	require.NoError(t, w.CompletePayment(" card "))
	assert.Equal(t, StagePaid, w.Stage())
	assert.Equal(t, "card", w.Snapshot().PaymentMethod)

	dir := t.TempDir()
	art, err := w.Finalize(ctx, exporter.NewHTMLExporter(dir), "")
	require.NoError(t, err)
	assert.Equal(t, "Jane_Doe.html", art.Filename)
	assert.FileExists(t, art.Path)
	assert.Equal(t, StageDone, w.Stage())
	assert.Equal(t, art.Path, w.Snapshot().Artifact.Path)
}

func TestWizard_GatingErrors(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(nil)

	assert.ErrorIs(t, w.GenerateDrafts(ctx), ErrNoProfile)
	assert.ErrorIs(t, w.PreparePreview(ctx), ErrNoDraft)
	assert.ErrorIs(t, w.CompletePayment("card"), ErrNoPreview)
	_, err := w.Finalize(ctx, exporter.NewHTMLExporter(t.TempDir()), "")
	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.ErrorIs(t, w.EditDraft("x"), ErrNoDraft)

	assert.Equal(t, StageStart, w.Stage())
}

func TestWizard_StageIsMonotonic(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(&memStore{})

	ops := []func(){
		func() { _ = w.CaptureProfile(ctx, jane()) },
		func() { _ = w.GenerateDrafts(ctx) },
		func() { _ = w.PreparePreview(ctx) },
		func() { w.SetJobDescription("Designer with Globex") },
		func() { _ = w.CaptureProfile(ctx, nil) },
		func() { w.ChooseTemplate("modern") },
		func() { _ = w.CompletePayment("mpesa") },
		func() { _, _ = w.Finalize(ctx, exporter.NewHTMLExporter(t.TempDir()), "") },
		func() { w.SwitchDocType(models.DocTypeCoverLetter) },
		func() { _ = w.GenerateDrafts(ctx) },
		func() { _ = w.CaptureProfile(ctx, jane()) },
		func() { _ = w.ChooseDraft("nope") },
		func() { _, _ = w.Finalize(ctx, exporter.NewHTMLExporter(t.TempDir()), "") },
		func() { w.SwitchDocType(models.DocTypeCV) },
	}

	prev := w.Stage()
	for i, op := range ops {
		op()
		cur := w.Stage()
		assert.GreaterOrEqual(t, cur, prev, "op %d lowered stage", i)
		prev = cur
	}
	assert.Equal(t, StageDone, prev)
}

func TestWizard_CaptureProfileIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	w := newTestWizard(store)

	require.NoError(t, w.CaptureProfile(ctx, jane()))
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	assert.Equal(t, StageProfile, w.Stage())

	require.NoError(t, w.CaptureProfile(ctx, nil))
	assert.Equal(t, "Jane Doe", w.Snapshot().Profile.Name)
	assert.Equal(t, 2, store.saves)
}

func TestWizard_CaptureNilStartsEmptyProfile(t *testing.T) {
	store := &memStore{}
	w := newTestWizard(store)

	require.NoError(t, w.CaptureProfile(context.Background(), nil))
	s := w.Snapshot()
	require.NotNil(t, s.Profile)
	assert.NotNil(t, s.Profile.Skills)
	assert.Equal(t, StageProfile, s.Stage)
	assert.Zero(t, store.saves)
}

func TestWizard_CapturePersistsDedupedSkills(t *testing.T) {
	store := &memStore{}
	w := newTestWizard(store)

	p := jane()
	p.Skills = []string{"Go", "go", "React", ""}
	require.NoError(t, w.CaptureProfile(context.Background(), p))

	assert.Equal(t, []string{"Go", "React"}, store.profile.Skills)
	assert.Equal(t, []string{"Go", "React"}, w.Snapshot().Profile.Skills)
	assert.Len(t, p.Skills, 4, "caller's profile must not be mutated")
}

func TestWizard_CaptureSaveFailure(t *testing.T) {
	boom := errors.New("disk full")
	w := newTestWizard(&memStore{saveErr: boom})

	err := w.CaptureProfile(context.Background(), jane())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StageStart, w.Stage())
	assert.Nil(t, w.Snapshot().Profile)
}

func TestWizard_GenerateDraftsIsDeterministic(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(nil)
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	w.SetJobDescription(jd)

	require.NoError(t, w.GenerateDrafts(ctx))
	first := w.Snapshot().Drafts.Primary()
	require.NoError(t, w.GenerateDrafts(ctx))
	second := w.Snapshot().Drafts.Primary()

	assert.Equal(t, first, second)
	assert.Equal(t, StageDrafted, w.Stage())
}

func TestWizard_GenerateDraftsOverwritesEdits(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(nil)
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	require.NoError(t, w.GenerateDrafts(ctx))
	original := w.Snapshot().Drafts.Primary()

	require.NoError(t, w.EditDraft("my own words"))
	assert.Equal(t, "my own words", w.Snapshot().Drafts.Primary())

	require.NoError(t, w.GenerateDrafts(ctx))
	assert.Equal(t, original, w.Snapshot().Drafts.Primary())
}

func TestWizard_ChooseDraft(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(nil)
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	require.NoError(t, w.GenerateDrafts(ctx))

	assert.NoError(t, w.ChooseDraft(synth.PrimaryKey))
	err := w.ChooseDraft("concise")
	assert.ErrorIs(t, err, ErrUnknownDraft)
	assert.Equal(t, synth.PrimaryKey, w.Snapshot().SelectedDraftKey)
}

func TestWizard_PreviewFallsBackToDefaultTemplate(t *testing.T) {
	ctx := context.Background()
	render := func(id string) string {
		w := newTestWizard(nil)
		require.NoError(t, w.CaptureProfile(ctx, jane()))
		require.NoError(t, w.GenerateDrafts(ctx))
		w.ChooseTemplate(id)
		require.NoError(t, w.PreparePreview(ctx))
		return w.Snapshot().RenderedDocument
	}

	sleek := render("sleek")
	assert.Equal(t, sleek, render(""))
	assert.Equal(t, sleek, render("nonexistent-xyz"))
	assert.NotEqual(t, sleek, render("classic"))
}

func TestWizard_PreviewRenderFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("bad template")
	w := New(Options{Renderer: failingRenderer{err: boom}})
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	require.NoError(t, w.GenerateDrafts(ctx))

	assert.ErrorIs(t, w.PreparePreview(ctx), boom)
	assert.Equal(t, StageDrafted, w.Stage())
	assert.Empty(t, w.Snapshot().RenderedDocument)
}

func TestWizard_SwitchDocTypeClearsDerivedState(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(nil)
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	w.SetJobDescription(jd)
	require.NoError(t, w.GenerateDrafts(ctx))
	require.NoError(t, w.PreparePreview(ctx))

	w.SwitchDocType(models.DocTypeCoverLetter)
	s := w.Snapshot()
	assert.Equal(t, models.DocTypeCoverLetter, s.DocType)
	assert.Equal(t, StagePreviewed, s.Stage)
	assert.Equal(t, "Jane Doe", s.Profile.Name)
	assert.Equal(t, jd, s.JobDescription)
	assert.Nil(t, s.Drafts)
	assert.Empty(t, s.SelectedDraftKey)
	assert.Empty(t, s.RenderedDocument)

	assert.ErrorIs(t, w.CompletePayment("card"), ErrNoPreview)
	_, err := w.Finalize(ctx, exporter.NewHTMLExporter(t.TempDir()), "")
	assert.ErrorIs(t, err, ErrPaymentRequired)

	require.NoError(t, w.GenerateDrafts(ctx))
	require.NoError(t, w.PreparePreview(ctx))
	assert.Contains(t, w.Snapshot().RenderedDocument, "Dear Hiring Manager,")
}

func TestWizard_SwitchToSameDocTypeKeepsDrafts(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(nil)
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	require.NoError(t, w.GenerateDrafts(ctx))

	w.SwitchDocType(models.DocTypeCV)
	assert.NotEmpty(t, w.Snapshot().Drafts)
}

func TestWizard_Reset(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	w := newTestWizard(store)
	id := w.Snapshot().SessionID

	require.NoError(t, w.CaptureProfile(ctx, jane()))
	require.NoError(t, w.GenerateDrafts(ctx))
	w.Reset()

	s := w.Snapshot()
	assert.Equal(t, StageStart, s.Stage)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Drafts)
	assert.Equal(t, models.DocTypeCV, s.DocType)
	assert.Equal(t, id, s.SessionID)
	assert.NotNil(t, store.profile, "reset must not delete the saved profile")
}

func TestWizard_Restore(t *testing.T) {
	store := &memStore{profile: jane()}
	w := newTestWizard(store)

	require.NoError(t, w.Restore(context.Background()))
	s := w.Snapshot()
	require.NotNil(t, s.Profile)
	assert.Equal(t, "Jane Doe", s.Profile.Name)
	assert.Equal(t, StageStart, s.Stage)

	require.NoError(t, w.CaptureProfile(context.Background(), nil))
	assert.Equal(t, "Jane Doe", w.Snapshot().Profile.Name)
	assert.Equal(t, StageProfile, w.Stage())
}

func TestWizard_RestoreEmptyAndFailing(t *testing.T) {
	w := newTestWizard(&memStore{})
	require.NoError(t, w.Restore(context.Background()))
	assert.Nil(t, w.Snapshot().Profile)

	boom := errors.New("locked")
	w = newTestWizard(&memStore{loadErr: boom})
	assert.ErrorIs(t, w.Restore(context.Background()), boom)

	assert.NoError(t, newTestWizard(nil).Restore(context.Background()))
}

func TestWizard_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(nil)
	require.NoError(t, w.CaptureProfile(ctx, jane()))
	require.NoError(t, w.GenerateDrafts(ctx))

	s := w.Snapshot()
	s.Profile.Name = "Mallory"
	s.Drafts[synth.PrimaryKey] = "tampered"

	again := w.Snapshot()
	assert.Equal(t, "Jane Doe", again.Profile.Name)
	assert.NotEqual(t, "tampered", again.Drafts.Primary())
}

func TestWizard_CanceledContext(t *testing.T) {
	w := newTestWizard(nil)
	require.NoError(t, w.CaptureProfile(context.Background(), jane()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.GenerateDrafts(ctx), context.Canceled)
	assert.Equal(t, StageProfile, w.Stage())
}

func TestWizard_ConcurrentCallsSerialize(t *testing.T) {
	ctx := context.Background()
	w := newTestWizard(&memStore{})
	require.NoError(t, w.CaptureProfile(ctx, jane()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				w.SetJobDescription(jd)
			}
			_ = w.GenerateDrafts(ctx)
			_ = w.PreparePreview(ctx)
			_ = w.Snapshot()
		}(i)
	}
	wg.Wait()

	s := w.Snapshot()
	assert.Equal(t, StagePreviewed, s.Stage)
	assert.NotEmpty(t, s.RenderedDocument)
}

func TestWizard_LogsStageTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := New(Options{Logger: logging.NewFromZap(zap.New(core))})

	require.NoError(t, w.CaptureProfile(context.Background(), nil))

	entries := logs.FilterMessage("stage advanced").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "start", fields["from"])
	assert.Equal(t, "profile", fields["to"])
	assert.Equal(t, w.Snapshot().SessionID, fields["session"])
}
