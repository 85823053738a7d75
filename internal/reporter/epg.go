package reporter

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/aleister1102/livewatch/internal/models"
	"github.com/aleister1102/livewatch/internal/urlhandler"
)

// EPGConfig controls the XMLTV projection.
type EPGConfig struct {
	Timezone      string
	GeneratorName string
}

// EPGReporter renders a snapshot as an XMLTV guide with one channel per
// league.
type EPGReporter struct {
	location  *time.Location
	generator string
}

type xmltvDocument struct {
	XMLName    xml.Name         `xml:"tv"`
	Generator  string           `xml:"generator-info-name,attr"`
	Channels   []xmltvChannel   `xml:"channel"`
	Programmes []xmltvProgramme `xml:"programme"`
}

type xmltvChannel struct {
	ID          string `xml:"id,attr"`
	DisplayName string `xml:"display-name"`
}

type xmltvProgramme struct {
	Channel string `xml:"channel,attr"`
	Start   string `xml:"start,attr,omitempty"`
	Title   string `xml:"title"`
	Desc    string `xml:"desc"`
}

// NewEPGReporter resolves the configured timezone.
func NewEPGReporter(cfg EPGConfig) (*EPGReporter, error) {
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.GeneratorName == "" {
		cfg.GeneratorName = DefaultGeneratorName
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}
	return &EPGReporter{location: loc, generator: cfg.GeneratorName}, nil
}

// ChannelID derives the XMLTV channel id of a league.
func ChannelID(league string) string {
	if league == "" {
		return "UNKNOWN"
	}
	return urlhandler.SanitizeIdentifier(league)
}

// build returns the guide for snap. Events without a league are skipped.
func (r *EPGReporter) build(snap models.Snapshot) xmltvDocument {
	doc := xmltvDocument{Generator: r.generator}

	leagues := make(map[string]struct{})
	for _, ev := range snap.Events {
		if ev.League != "" {
			leagues[ev.League] = struct{}{}
		}
	}
	names := make([]string, 0, len(leagues))
	for name := range leagues {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Channels = append(doc.Channels, xmltvChannel{ID: ChannelID(name), DisplayName: name})
	}

	for _, ev := range snap.Events {
		if ev.League == "" {
			continue
		}
		title := ev.Title
		if title == "" {
			title = "Unknown"
		}
		doc.Programmes = append(doc.Programmes, xmltvProgramme{
			Channel: ChannelID(ev.League),
			Start:   r.formatStart(ev.StartTime),
			Title:   title,
			Desc:    describe(ev),
		})
	}
	return doc
}

// Render writes the guide as indented XML.
func (r *EPGReporter) Render(w io.Writer, snap models.Snapshot) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(r.build(snap)); err != nil {
		return fmt.Errorf("failed to encode epg: %w", err)
	}
	return enc.Close()
}

func (r *EPGReporter) formatStart(epoch *int64) string {
	if epoch == nil || *epoch == 0 {
		return ""
	}
	return time.Unix(*epoch, 0).In(r.location).Format(EPGTimeLayout)
}

func describe(ev models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s. Link: %s", strings.ToUpper(string(ev.Status)), ev.LinkURL())
	if ev.IframeSrc != "" {
		fmt.Fprintf(&b, " | Iframe src: %s", ev.IframeSrc)
	}
	return b.String()
}
