package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
)

// Format selects how resources are written
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (table, json, yaml)", s)
	}
}

// Printer writes command results to out and notifications to errOut
type Printer struct {
	out    io.Writer
	errOut io.Writer
	format Format
}

func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	if format == "" {
		format = FormatTable
	}
	return &Printer{out: out, errOut: errOut, format: format}
}

func (p *Printer) Out() io.Writer {
	return p.out
}

// Structured reports whether results are emitted as JSON or YAML
func (p *Printer) Structured() bool {
	return p.format == FormatJSON || p.format == FormatYAML
}

// Encode writes v as JSON or YAML depending on the format. Table output
// falls back to JSON.
func (p *Printer) Encode(v any) error {
	if p.format == FormatYAML {
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Title prints a heading
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.out, TitleStyle.Render(text))
}

// Field prints a "Label: value" line, skipping empty values
func (p *Printer) Field(label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", LabelStyle.Render(label+":"), ValueStyle.Render(value))
}

// Table returns a table writer with the house settings
func (p *Printer) Table(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	return table
}

func (p *Printer) Success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(p.errOut, "✓ "+format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(p.errOut, "! "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	color.New(color.FgRed).Fprintf(p.errOut, "✗ "+format+"\n", args...)
}

// Humanize turns a snake_case key into a title such as "Total Offers"
func Humanize(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}
