package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/waview/waview/internal/analyzer"
)

// Renderer writes an analysis report to an output stream.
type Renderer interface {
	Render(w io.Writer, report *analyzer.Report) error
}

// ---------------------------------------------------------------------------
// Text Renderer (styled terminal report)
// ---------------------------------------------------------------------------

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleMetric = lipgloss.NewStyle().Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TextRenderer prints a readable report to the terminal.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (r *TextRenderer) Render(w io.Writer, report *analyzer.Report) error {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Chat Overview") + "\n")
	o := report.Overview
	b.WriteString(fmt.Sprintf("  Messages:     %s\n", styleMetric.Render(fmt.Sprint(o.TotalMessages))))
	b.WriteString(fmt.Sprintf("  Participants: %s\n", styleMetric.Render(fmt.Sprint(o.Participants))))
	b.WriteString(fmt.Sprintf("  Time span:    %s days\n", styleMetric.Render(fmt.Sprint(o.SpanDays))))
	b.WriteString(fmt.Sprintf("  Media:        %d   System events: %d (joins %d, leaves %d)\n",
		o.MediaCount, o.SystemCount, o.Joins, o.Leaves))

	if len(report.Senders) > 0 {
		b.WriteString("\n" + styleHeader.Render("Participants") + "\n")
		for _, s := range report.Senders {
			b.WriteString(fmt.Sprintf("  %-20s %5d messages  %5d words  avg %.0f chars  %4.1f%%\n",
				s.Name, s.Messages, s.Words, s.AvgLength, s.Share*100))
		}
	}

	if len(report.PeakHours) > 0 {
		b.WriteString("\n" + styleHeader.Render("Most Active Hours") + "\n")
		for _, hc := range report.PeakHours {
			b.WriteString(fmt.Sprintf("  %02d:00 - %d messages\n", hc.Hour, hc.Count))
		}
	}
	if len(report.PeakWeekdays) > 0 {
		b.WriteString("\n" + styleHeader.Render("Most Active Days") + "\n")
		for _, wc := range report.PeakWeekdays {
			b.WriteString(fmt.Sprintf("  %-9s - %d messages\n", wc.Weekday, wc.Count))
		}
	}

	writeSenderBand(&b, "Early Birds (5 AM - 11 AM)", report.EarlyBirds)
	writeSenderBand(&b, "Night Owls (10 PM - 5 AM)", report.NightOwls)

	if report.ResponseGaps.Samples > 0 {
		b.WriteString("\n" + styleHeader.Render("Response Times") + "\n")
		b.WriteString(fmt.Sprintf("  average %s, median %s (%d samples)\n",
			report.ResponseGaps.Average, report.ResponseGaps.Median, report.ResponseGaps.Samples))
	}

	if report.Emoji.Total > 0 {
		b.WriteString("\n" + styleHeader.Render("Top Emoji") + "\n  ")
		for _, ec := range report.Emoji.Top {
			b.WriteString(fmt.Sprintf("%s %d  ", ec.Emoji, ec.Count))
		}
		b.WriteString(styleDim.Render(fmt.Sprintf("(%d total, %d unique)", report.Emoji.Total, report.Emoji.Unique)) + "\n")
	}

	if len(report.Languages.Counts) > 0 {
		b.WriteString("\n" + styleHeader.Render("Languages") + "\n")
		for _, bucket := range []string{"english", "arabic", "franco", "unknown"} {
			if count := report.Languages.Counts[bucket]; count > 0 {
				b.WriteString(fmt.Sprintf("  %-8s %d\n", bucket, count))
			}
		}
	}

	if len(report.Latest) > 0 {
		b.WriteString("\n" + styleHeader.Render("Latest Messages") + "\n")
		for _, msg := range report.Latest {
			sender := msg.Sender
			if sender == "" {
				sender = "(system)"
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", styleMetric.Render(sender), styleDim.Render(msg.TimeAgo)))
			b.WriteString("    " + strings.ReplaceAll(msg.Body, "\n", "\n    ") + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSenderBand(b *strings.Builder, title string, senders []analyzer.SenderCount) {
	if len(senders) == 0 {
		return
	}
	b.WriteString("\n" + styleHeader.Render(title) + "\n")
	for _, sc := range senders {
		b.WriteString(fmt.Sprintf("  %s: %d messages\n", sc.Sender, sc.Count))
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints the full report as indented JSON.
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, report *analyzer.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
