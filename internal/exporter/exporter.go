// Package exporter turns a rendered HTML document into a downloadable file.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Artifact describes a written export
type Artifact struct {
	Filename    string
	Path        string
	ContentType string
	Data        []byte
}

// Exporter writes a rendered document under filename
type Exporter interface {
	Export(ctx context.Context, html, filename string) (*Artifact, error)
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[/\\:*?"<>|]`)
)

// FilenameHint derives "Jane_Doe.pdf" from a profile name
func FilenameHint(name string) string {
	return baseName(name) + ".pdf"
}

func baseName(name string) string {
	name = unsafeChars.ReplaceAllString(strings.TrimSpace(name), "")
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		return "document"
	}
	return name
}

// withExt swaps a known document extension on filename for ext
func withExt(filename, ext string) string {
	base := filepath.Base(filename)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".pdf", ".html", ".htm":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if base == "." {
		base = ""
	}
	return baseName(base) + ext
}

func writeArtifact(dir, filename, contentType string, data []byte) (*Artifact, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", filename, err)
	}

	return &Artifact{
		Filename:    filename,
		Path:        path,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// HTMLExporter writes the rendered document as-is
type HTMLExporter struct {
	OutputDir string
}

func NewHTMLExporter(outputDir string) *HTMLExporter {
	return &HTMLExporter{OutputDir: outputDir}
}

// Export writes html to OutputDir with an .html extension
func (e *HTMLExporter) Export(ctx context.Context, html, filename string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return writeArtifact(e.OutputDir, withExt(filename, ".html"), ContentTypeHTML, []byte(html))
}
