package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

const wrapWidth = 48

// ConsoleRenderer writes a human-readable listing grouped by inconsistency type.
type ConsoleRenderer struct {
	color bool
}

// NewConsoleRenderer creates a console renderer.
func NewConsoleRenderer(color bool) *ConsoleRenderer {
	return &ConsoleRenderer{color: color}
}

// Format returns "console".
func (c *ConsoleRenderer) Format() string { return FormatConsole }

// Render writes the summary header followed by one table per inconsistency type.
func (c *ConsoleRenderer) Render(w io.Writer, r *Report) error {
	var b strings.Builder

	if r.Summary != nil {
		c.writeSummary(&b, r.Summary)
	}
	fmt.Fprintf(&b, "Inconsistencies found: %d\n", len(r.Findings))

	if len(r.Findings) == 0 {
		b.WriteString("\nNo inconsistencies found.\n")
	}

	for _, group := range groupByType(r.Findings) {
		fmt.Fprintf(&b, "\n%s (%d)\n", c.paint(TypeLabel(group.typ), text.Bold), len(group.findings))
		b.WriteString(c.renderTable(group.findings))
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing console report: %w", err)
	}
	return nil
}

func (c *ConsoleRenderer) writeSummary(b *strings.Builder, s *Summary) {
	if s.Source != "" {
		fmt.Fprintf(b, "Source: %s\n", s.Source)
	}
	fmt.Fprintf(b, "Slides analyzed: %d\n", s.SlideCount)
	if n := len(s.SkippedSlides); n > 0 {
		nums := make([]string, n)
		for i, sk := range s.SkippedSlides {
			nums[i] = strconv.Itoa(sk.SlideNumber)
		}
		fmt.Fprintf(b, "%s %d unreadable (slides %s)\n", c.paint("Skipped slides:", text.FgYellow), n, strings.Join(nums, ", "))
	}
	if s.Placeholders > 0 {
		fmt.Fprintf(b, "%s %d slides have no extracted text\n", c.paint("Placeholders:", text.FgYellow), s.Placeholders)
	}
	fmt.Fprintf(b, "AI pass: %s\n", c.aiStatus(s.AI))
}

func (c *ConsoleRenderer) aiStatus(o entities.AIOutcome) string {
	status := string(o.Status)
	if status == "" {
		status = string(entities.AIStatusDisabled)
	}
	if o.Backend != "" {
		status += " (" + o.Backend + ")"
	}
	if o.Error != "" {
		status += ": " + o.Error
	}
	if o.Dropped > 0 {
		status += fmt.Sprintf(", %d findings referencing unknown slides dropped", o.Dropped)
	}
	if o.Status == entities.AIStatusOK {
		return status
	}
	return c.paint(status, text.FgYellow)
}

func (c *ConsoleRenderer) renderTable(findings []entities.Inconsistency) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Severity", "Confidence", "Slides", "Description", "Details"})

	for _, f := range findings {
		tw.AppendRow(table.Row{
			c.severity(f.Severity),
			FormatPercent(f.Confidence),
			JoinSlides(f.SlidesInvolved),
			f.Description,
			f.Details,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, WidthMax: wrapWidth},
		{Number: 5, Align: text.AlignLeft, WidthMax: wrapWidth},
	})
	return tw.Render()
}

func (c *ConsoleRenderer) severity(s entities.Severity) string {
	switch s {
	case entities.SeverityHigh:
		return c.paint(string(s), text.FgRed)
	case entities.SeverityMedium:
		return c.paint(string(s), text.FgYellow)
	case entities.SeverityLow:
		return c.paint(string(s), text.FgCyan)
	}
	return string(s)
}

func (c *ConsoleRenderer) paint(s string, color text.Color) string {
	if !c.color {
		return s
	}
	return color.Sprint(s)
}

type typeGroup struct {
	typ      entities.InconsistencyType
	findings []entities.Inconsistency
}

// groupByType groups findings by type in order of first appearance, keeping input order within a group.
func groupByType(findings []entities.Inconsistency) []typeGroup {
	index := make(map[entities.InconsistencyType]int)
	var groups []typeGroup
	for _, f := range findings {
		i, ok := index[f.Type]
		if !ok {
			i = len(groups)
			index[f.Type] = i
			groups = append(groups, typeGroup{typ: f.Type})
		}
		groups[i].findings = append(groups[i].findings, f)
	}
	return groups
}

// TypeLabel turns a type tag such as "numerical_conflict" into "Numerical Conflict".
func TypeLabel(t entities.InconsistencyType) string {
	if t == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

// FormatPercent renders a confidence as a percentage, e.g. 0.85 as "85%".
func FormatPercent(c float64) string {
	return strconv.FormatFloat(c*100, 'f', 0, 64) + "%"
}

// JoinSlides renders slide numbers for display, e.g. "1, 2".
func JoinSlides(slides []int) string {
	parts := make([]string, len(slides))
	for i, n := range slides {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
