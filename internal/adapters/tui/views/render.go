package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"noteboard/internal/adapters/tui/styles"
)

// RenderHelpLine renders key bindings as "key desc" pairs joined by separators
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage styles a status message; the empty message renders nothing
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.SuccessMsg.Render(message)
	}
}

// ViewBuilder collects the rows of a view and wraps them in the app frame
type ViewBuilder struct {
	rows []string
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Header adds the title and, when present, a subtitle below it
func (v *ViewBuilder) Header(title, subtitle string) *ViewBuilder {
	v.rows = append(v.rows, styles.Title.Render(title))
	if subtitle != "" {
		v.rows = append(v.rows, styles.Subtitle.Render(subtitle))
	}
	v.rows = append(v.rows, "")
	return v
}

// Section starts a labelled group of rows
func (v *ViewBuilder) Section(label string) *ViewBuilder {
	v.rows = append(v.rows, styles.InputLabel.Render(label))
	return v
}

// Line adds one row of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.rows = append(v.rows, text)
	return v
}

// BlankLine adds an empty row
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.rows = append(v.rows, "")
	return v
}

// Muted adds a row of secondary text
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(styles.MutedText.Render(text))
}

// Message adds a status message followed by a blank row, if there is one
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	return v.Line(RenderMessage(message, isError)).BlankLine()
}

// Help adds the key binding line
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	return v.Line(RenderHelpLine(bindings...))
}

// String joins the rows and wraps them in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(strings.Join(v.rows, "\n"))
}
