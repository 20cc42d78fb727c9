package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ashureev/biasguard/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	approvedColor = lipgloss.Color("#34d399")
	deniedColor   = lipgloss.Color("#f43f5e")
	accentColor   = lipgloss.Color("#60a5fa")
	mutedColor    = lipgloss.Color("#64748b")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(deniedColor)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 2)
	auditStyle   = lipgloss.NewStyle().Italic(true).
			BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(accentColor).
			PaddingLeft(1)
)

func decisionStyle(approved bool) lipgloss.Style {
	if approved {
		return lipgloss.NewStyle().Bold(true).Foreground(approvedColor)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(deniedColor)
}

// renderResult formats an audit result. Fields are shown as returned.
func renderResult(title string, r domain.AuditResult) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(strings.ToUpper(title)))
	b.WriteString("\n")

	if d := r.Decision(); d != "" {
		b.WriteString(decisionStyle(r.Approved()).Render(d))
		b.WriteString("\n")
	}
	if v := r.Verdict(); v != "" {
		b.WriteString(decisionStyle(v == "Neutral").Render(v))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  bias score %.2f", r.BiasScore())))
		b.WriteString("\n")
	}
	if a := r.EthicalAudit(); a != "" {
		b.WriteString(auditStyle.Render(fmt.Sprintf("%q", a)))
		b.WriteString("\n")
	}
	if id, ok := r["audit_id"].(string); ok {
		b.WriteString(mutedStyle.Render("audit " + id))
	}
	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderHistory lists entries newest first.
func renderHistory(w io.Writer, entries []domain.HistoryEntry, now time.Time) {
	fmt.Fprintln(w, headingStyle.Render("RECENT AUDIT HISTORY"))
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No previous audits recorded this session."))
		return
	}
	for _, e := range entries {
		label := e.Result.Decision()
		if label == "" {
			label = e.Result.Verdict()
		}
		line := decisionStyle(e.Result.Approved()).Render("● "+label+" Case") + "  " + describeInput(e.Input)
		fmt.Fprintf(w, "%s  %s\n", line, mutedStyle.Render(humanize.RelTime(e.Timestamp, now, "ago", "from now")))
	}
}

func describeInput(in domain.Input) string {
	switch v := in.(type) {
	case *domain.ApplicantInput:
		return fmt.Sprintf("Age: %d | Sex: %s", v.Age, v.SexLabel())
	case *domain.TextInput:
		text := []rune(v.Text)
		if len(text) > 40 {
			text = append(text[:37], []rune("...")...)
		}
		return fmt.Sprintf("%s | %q", v.Category, string(text))
	default:
		return ""
	}
}
