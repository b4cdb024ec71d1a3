package app

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/JOHNINDAKWA/coverly/internal/config"
	"github.com/JOHNINDAKWA/coverly/internal/database"
	"github.com/JOHNINDAKWA/coverly/internal/exporter"
	"github.com/JOHNINDAKWA/coverly/internal/logging"
	"github.com/JOHNINDAKWA/coverly/internal/profile"
	"github.com/JOHNINDAKWA/coverly/internal/synth"
	"github.com/JOHNINDAKWA/coverly/internal/templates"
	"github.com/JOHNINDAKWA/coverly/internal/wizard"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

// App is the dependency container for the CLI application
type App struct {
	DB        *sql.DB
	Config    *config.Config
	Logger    *logging.Logger
	Store     *database.Store
	Templates *templates.Registry
	Synth     *synth.Synthesizer
}

// NewApp loads .env and the config file, then opens the profile database
func NewApp(ctx context.Context) (*App, error) {
	_ = godotenv.Load()

	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	db, err := database.Open(config.AppConfig.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(config.AppConfig, db, logging.New(config.AppConfig.LogLevel)), nil
}

// New wires an App from already opened resources
func New(cfg *config.Config, db *sql.DB, log *logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		DB:        db,
		Config:    cfg,
		Logger:    log,
		Store:     database.NewStore(db),
		Templates: templates.NewDefaultRegistry(cfg.BaseOrigin),
		Synth:     synth.New(),
	}
}

// Close flushes the logger and closes the database
func (a *App) Close() error {
	_ = a.Logger.Sync()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// NewWizard starts a session backed by the profile store
func (a *App) NewWizard() *wizard.Wizard {
	return wizard.New(wizard.Options{
		Store:           a.Store,
		Renderer:        a.Templates,
		Generator:       a.Synth,
		Logger:          a.Logger,
		DefaultTemplate: a.DefaultTemplate(),
	})
}

// DefaultTemplate returns the configured template id if it is registered
func (a *App) DefaultTemplate() string {
	id := a.Config.DefaultTemplate
	if a.Templates.Has(id) {
		return id
	}
	if id != "" {
		a.Logger.Warn("unknown default template, using fallback", "template", id, "fallback", a.Templates.DefaultID())
	}
	return a.Templates.DefaultID()
}

// TemplateFor returns the id a wizard selection actually renders with
func (a *App) TemplateFor(selected string) string {
	if selected == "" {
		return a.DefaultTemplate()
	}
	if a.Templates.Has(selected) {
		return selected
	}
	return a.Templates.DefaultID()
}

// Exporter returns the PDF exporter, or the HTML exporter when htmlOnly is
// set. An empty outDir uses the configured output directory.
func (a *App) Exporter(htmlOnly bool, outDir string) exporter.Exporter {
	if outDir == "" {
		outDir = a.Config.OutputDir
	}
	if htmlOnly {
		return exporter.NewHTMLExporter(outDir)
	}
	return exporter.NewChromeExporter(outDir, a.Config.ChromePath, a.Config.ExportTimeout, a.Logger)
}

// LoadProfile returns the saved profile or ErrNoProfile
func (a *App) LoadProfile(ctx context.Context) (*models.Profile, error) {
	p, err := a.Store.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoProfile
	}
	return profile.Normalize(p), nil
}

// SaveProfile normalizes and validates p before persisting it
func (a *App) SaveProfile(ctx context.Context, p *models.Profile) error {
	p = profile.Normalize(p)
	if err := profile.Validate(p); err != nil {
		return err
	}
	return a.Store.SaveProfile(ctx, p)
}

// RecordExport stores export metadata; failures are logged, not returned,
// since the file has already been written.
func (a *App) RecordExport(ctx context.Context, s wizard.State, templateID string) {
	if s.Artifact == nil {
		return
	}
	path, err := filepath.Abs(s.Artifact.Path)
	if err != nil {
		path = s.Artifact.Path
	}
	err = a.Store.RecordExport(ctx, &database.Export{
		DocType:    s.DocType,
		TemplateID: templateID,
		Filename:   s.Artifact.Filename,
		Path:       path,
	})
	if err != nil {
		a.Logger.Warn("failed to record export", "error", err)
	}
}

// contextKey is used to store App in context
type contextKey struct{}

// GetAppFromContext retrieves the App from context
func GetAppFromContext(ctx context.Context) *App {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(contextKey{}).(*App)
	return a
}

// SetAppInContext stores the App in context
func SetAppInContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext is GetAppFromContext returning ErrNotInitialized instead of nil
func FromContext(ctx context.Context) (*App, error) {
	if a := GetAppFromContext(ctx); a != nil {
		return a, nil
	}
	return nil, ErrNotInitialized
}
