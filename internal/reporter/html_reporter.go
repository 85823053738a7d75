// Package reporter renders read-only projections of a snapshot: the HTML
// dashboard, the JSON report and the XMLTV guide.
package reporter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aleister1102/livewatch/internal/models"
)

//go:embed templates/dashboard.html.tmpl
var defaultTemplate embed.FS

// HTMLReporterConfig controls the dashboard.
type HTMLReporterConfig struct {
	Title string
	// TemplatePath overrides the embedded template when set.
	TemplatePath string
}

// HtmlReporter renders the dashboard page.
type HtmlReporter struct {
	cfg      HTMLReporterConfig
	logger   zerolog.Logger
	template *template.Template
}

type dashboardData struct {
	Title      string
	LastRunUTC string
	Live       int
	Upcoming   int
	Unknown    int
	Events     []models.Event
}

// NewHtmlReporter parses the dashboard template once.
func NewHtmlReporter(cfg HTMLReporterConfig, appLogger zerolog.Logger) (*HtmlReporter, error) {
	if cfg.Title == "" {
		cfg.Title = DefaultReportTitle
	}
	reporter := &HtmlReporter{
		cfg:    cfg,
		logger: appLogger.With().Str("module", "HtmlReporter").Logger(),
	}
	if err := reporter.setupTemplate(); err != nil {
		return nil, err
	}
	return reporter, nil
}

func (r *HtmlReporter) setupTemplate() error {
	if r.cfg.TemplatePath != "" {
		return r.loadCustomTemplate()
	}
	return r.loadEmbeddedTemplate()
}

func (r *HtmlReporter) loadCustomTemplate() error {
	r.logger.Info().Str("template_path", r.cfg.TemplatePath).Msg("Loading custom dashboard template from file.")

	tmpl := template.New(filepath.Base(r.cfg.TemplatePath)).Funcs(GetCommonTemplateFunctions())
	if _, err := tmpl.ParseFiles(r.cfg.TemplatePath); err != nil {
		return fmt.Errorf("failed to parse custom dashboard template '%s': %w", r.cfg.TemplatePath, err)
	}
	r.template = tmpl
	return nil
}

func (r *HtmlReporter) loadEmbeddedTemplate() error {
	content, err := defaultTemplate.ReadFile("templates/" + DefaultDashboardTemplateName)
	if err != nil {
		return fmt.Errorf("failed to load embedded dashboard template: %w", err)
	}

	tmpl := template.New(DefaultDashboardTemplateName).Funcs(GetCommonTemplateFunctions())
	if _, err := tmpl.Parse(strings.ReplaceAll(string(content), "\r\n", "\n")); err != nil {
		return fmt.Errorf("failed to parse embedded dashboard template: %w", err)
	}
	r.template = tmpl
	return nil
}

// Render writes the dashboard for snap. Output is buffered so that a
// template error never leaves a half-written page.
func (r *HtmlReporter) Render(w io.Writer, snap models.Snapshot) error {
	counts := snap.CountByStatus()
	data := dashboardData{
		Title:      r.cfg.Title,
		LastRunUTC: snap.LastRunUTC,
		Live:       counts[models.StatusLive],
		Upcoming:   counts[models.StatusUpcoming],
		Unknown:    counts[models.StatusUnknown],
		Events:     snap.Events,
	}

	var buf bytes.Buffer
	if err := r.template.Execute(&buf, data); err != nil {
		r.logger.Error().Err(err).Msg("Failed to execute dashboard template")
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
