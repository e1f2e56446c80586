package metrics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard renders snapshots and session stats for the terminal.
type Dashboard struct {
	styles DashboardStyles
	width  int
}

// DashboardStyles defines the styling for the dashboard.
type DashboardStyles struct {
	Border    lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
}

// NewDashboard creates a dashboard renderer.
func NewDashboard() *Dashboard {
	return &Dashboard{
		width:  80,
		styles: defaultDashboardStyles(),
	}
}

func defaultDashboardStyles() DashboardStyles {
	return DashboardStyles{
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")),
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Highlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
	}
}

// SetWidth sets the dashboard width.
func (d *Dashboard) SetWidth(w int) {
	d.width = w
}

// Render formats a network snapshot.
func (d *Dashboard) Render(s Snapshot) string {
	var content strings.Builder

	content.WriteString(d.styles.Header.Render(fmt.Sprintf("NETWORK @ %d", s.Time)))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%s %s │ %s %s │ %s %s\n",
		d.styles.Label.Render("Nodes:"),
		d.styles.Value.Render(fmt.Sprintf("%d", s.TotalNodes)),
		d.styles.Label.Render("Names:"),
		d.styles.Value.Render(fmt.Sprintf("%d", s.NamingLinks)),
		d.styles.Label.Render("Productions:"),
		d.styles.Value.Render(fmt.Sprintf("%d", s.Productions)),
	))

	for _, m := range s.Modalities {
		content.WriteString(fmt.Sprintf("%s %s │ %s %s │ %s %s\n",
			d.styles.Label.Render(fmt.Sprintf("%-8s", m.Modality+":")),
			d.styles.Highlight.Render(fmt.Sprintf("%d nodes", m.Nodes)),
			d.styles.Label.Render("depth avg"),
			d.styles.Value.Render(fmt.Sprintf("%.2f", m.AverageDepth)),
			d.styles.Label.Render("max"),
			d.styles.Value.Render(fmt.Sprintf("%d", m.MaxDepth)),
		))
	}

	clocks := make([]string, 0, len(s.Clocks))
	for _, k := range []string{"attention", "cognition", "perceiver"} {
		if v, ok := s.Clocks[k]; ok {
			clocks = append(clocks, fmt.Sprintf("%s %s", d.styles.Label.Render(k), d.styles.Value.Render(fmt.Sprintf("%d", v))))
		}
	}
	content.WriteString(strings.Join(clocks, " │ "))
	content.WriteString("\n")

	for _, name := range []string{ContentsSize, ImageSize, SemanticLinks} {
		content.WriteString(d.renderHistogram(name, s.Histograms[name]))
	}

	return d.styles.Border.Width(d.width - 4).Render(strings.TrimRight(content.String(), "\n"))
}

// RenderSession formats the counts of a learning session.
func (d *Dashboard) RenderSession(stats *SessionStats) string {
	var content strings.Builder

	content.WriteString(d.styles.Header.Render("SESSION"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%s %s │ %s %s │ %s %s │ %s %s\n",
		d.styles.Label.Render("Presented:"),
		d.styles.Value.Render(fmt.Sprintf("%d", stats.Presentations)),
		d.styles.Label.Render("Discriminated:"),
		d.styles.Highlight.Render(fmt.Sprintf("%d", stats.Discriminated)),
		d.styles.Label.Render("Familiarised:"),
		d.styles.Highlight.Render(fmt.Sprintf("%d", stats.Familiarised)),
		d.styles.Label.Render("Known:"),
		d.styles.Value.Render(fmt.Sprintf("%d", stats.AlreadyKnown)),
	))
	content.WriteString(fmt.Sprintf("%s %s │ %s %s │ %s %s",
		d.styles.Label.Render("Learning:"),
		d.formatRate(stats.LearningRate()),
		d.styles.Label.Render("Busy:"),
		d.styles.Value.Render(fmt.Sprintf("%d", stats.Busy)),
		d.styles.Label.Render("Last:"),
		d.styles.Value.Render(lastStatus(stats.LastStatus)),
	))

	return d.styles.Border.Width(d.width - 4).Render(content.String())
}

// RenderCompact returns a single-line summary.
func (d *Dashboard) RenderCompact(s Snapshot) string {
	parts := make([]string, 0, len(s.Modalities))
	for _, m := range s.Modalities {
		parts = append(parts, fmt.Sprintf("%s %d", m.Modality, m.Nodes))
	}
	return fmt.Sprintf("[Network] %d nodes │ %s │ cognition %d",
		s.TotalNodes, strings.Join(parts, " │ "), s.Clocks["cognition"])
}

func (d *Dashboard) renderHistogram(name string, buckets []Bucket) string {
	if len(buckets) == 0 {
		return ""
	}
	peak := 0
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}

	var sb strings.Builder
	sb.WriteString(d.styles.Label.Render(strings.ReplaceAll(name, "_", " ")))
	sb.WriteString("\n")
	const barWidth = 30
	for _, b := range buckets {
		n := b.Count * barWidth / peak
		if n == 0 {
			n = 1
		}
		sb.WriteString(fmt.Sprintf("  %3d %s %d\n",
			b.Value, d.styles.Highlight.Render(strings.Repeat("█", n)), b.Count))
	}
	return sb.String()
}

func (d *Dashboard) formatRate(rate float64) string {
	formatted := fmt.Sprintf("%.0f%%", rate)
	if rate >= 50 {
		return d.styles.Success.Render(formatted)
	} else if rate >= 20 {
		return d.styles.Highlight.Render(formatted)
	}
	return d.styles.Error.Render(formatted)
}

func lastStatus(s string) string {
	if s == "" {
		return "none"
	}
	if len(s) > 28 {
		return s[:25] + "..."
	}
	return s
}
