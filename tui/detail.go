package tui

import (
	"os"
	"strings"

	"tagdo/tagdo/models"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type detailFocus int

const (
	focusTitle detailFocus = iota
	focusBody
)

// detailModel edits one task's title and body.
type detailModel struct {
	task  models.Task
	title textinput.Model
	body  textarea.Model
	focus detailFocus

	width    int
	markdown *markdownRenderer
}

func newDetailModel(task models.Task, width int, markdown *markdownRenderer) *detailModel {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256
	title.SetValue(task.Title)

	body := textarea.New()
	body.Placeholder = "Body"
	body.ShowLineNumbers = false
	body.SetValue(task.Content)

	d := &detailModel{
		task:     task,
		title:    title,
		body:     body,
		markdown: markdown,
	}
	d.resize(width)
	return d
}

func (d *detailModel) resize(width int) {
	d.width = width
	if width > 4 {
		d.title.Width = width - 4
		d.body.SetWidth(width - 2)
	}
}

func (d *detailModel) focusCmd() tea.Cmd {
	d.body.Blur()
	d.focus = focusTitle
	return d.title.Focus()
}

func (d *detailModel) values() (string, string) {
	return strings.TrimSpace(d.title.Value()), d.body.Value()
}

func (d *detailModel) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "tab" {
		if d.focus == focusTitle {
			d.focus = focusBody
			d.title.Blur()
			return d.body.Focus()
		}
		return d.focusCmd()
	}

	var cmd tea.Cmd
	if d.focus == focusTitle {
		d.title, cmd = d.title.Update(msg)
	} else {
		d.body, cmd = d.body.Update(msg)
	}
	return cmd
}

// ResolveStyle turns "auto" (or "") into a concrete glamour style by
// inspecting stdout once. Other names pass through.
func ResolveStyle(style string) string {
	if style != "" && style != "auto" {
		return style
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return styles.NoTTYStyle
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// markdownRenderer keeps one glamour renderer per wrap width.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(style string) *markdownRenderer {
	return &markdownRenderer{style: ResolveStyle(style)}
}

func (r *markdownRenderer) render(body string, width int) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	wrap := max(width-4, 20)
	if r.renderer == nil || r.width != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return body
		}
		r.renderer, r.width = renderer, wrap
	}
	out, err := r.renderer.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(out, "\n")
}

// RenderMarkdown renders body as terminal markdown; on failure the raw
// text is shown.
func RenderMarkdown(body, style string, width int) string {
	return newMarkdownRenderer(style).render(body, width)
}

func (d *detailModel) view() string {
	var b strings.Builder
	b.WriteString(headStyle.Render("Edit todo"))
	b.WriteString("\n")

	chips := []string{markerFor(d.task)}
	for _, tag := range d.task.Tags {
		chips = append(chips, TagChip(tag))
	}
	b.WriteString(strings.Join(chips, " ") + "  " + doneFor(d.task) + "\n\n")

	b.WriteString(titleStyle.Render("Title") + "\n")
	b.WriteString(d.title.View() + "\n\n")
	b.WriteString(titleStyle.Render("Body") + "\n")
	b.WriteString(d.body.View() + "\n")

	if preview := d.markdown.render(d.body.Value(), d.width); preview != "" {
		b.WriteString("\n" + titleStyle.Render("Preview") + "\n")
		b.WriteString(preview + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch field • ctrl+s save • esc back"))
	return b.String()
}
