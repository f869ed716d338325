package tui

import (
	"context"
	"fmt"
	"strings"

	"tagdo/tagdo/client"
	"tagdo/tagdo/models"

	tea "github.com/charmbracelet/bubbletea"
)

// API is the subset of client.Client the views call.
type API interface {
	ListTasks(ctx context.Context, filter client.TaskFilter) ([]models.Task, error)
	QuickAddTask(ctx context.Context) (*models.Task, error)
	QuickAddTag(ctx context.Context) (*models.Tag, error)
	DeleteLastTag(ctx context.Context) (*models.Tag, bool, error)
	UpdateTask(ctx context.Context, id string, update client.TaskUpdate) (*models.Task, error)
}

type viewState int

const (
	listView viewState = iota
	detailView
)

type tasksLoadedMsg struct {
	tasks []models.Task
	err   error
}

type actionDoneMsg struct {
	status string
	err    error
}

type taskSavedMsg struct {
	task *models.Task
	err  error
}

type changeEventMsg struct {
	event models.StandardMessage
}

type feedClosedMsg struct{}

// Model is the root bubbletea model: a card list with a detail editor.
type Model struct {
	ctx    context.Context
	api    API
	events <-chan models.StandardMessage

	tasks  []models.Task
	cursor int
	view   viewState
	detail *detailModel

	glamourStyle string
	markdown     *markdownRenderer
	status       string
	err          error
	loadFailed   bool
	width        int
	height       int
}

// Option configures a Model.
type Option func(*Model)

// WithEvents refreshes the list whenever the change feed delivers an event.
func WithEvents(events <-chan models.StandardMessage) Option {
	return func(m *Model) { m.events = events }
}

// WithGlamourStyle picks the markdown style for the body preview.
func WithGlamourStyle(style string) Option {
	return func(m *Model) { m.glamourStyle = style }
}

func NewModel(ctx context.Context, api API, opts ...Option) *Model {
	m := &Model{
		ctx:          ctx,
		api:          api,
		glamourStyle: "auto",
		width:        80,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.markdown = newMarkdownRenderer(m.glamourStyle)
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTasks()}
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.api.ListTasks(m.ctx, client.TaskFilter{})
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func waitForEvent(events <-chan models.StandardMessage) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return feedClosedMsg{}
		}
		return changeEventMsg{event: event}
	}
}

func (m *Model) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.detail != nil {
			m.detail.resize(msg.Width)
		}
		return m, nil

	case tasksLoadedMsg:
		if msg.err != nil {
			m.err, m.loadFailed = msg.err, true
			return m, nil
		}
		// A good reload only clears an error that came from loading.
		if m.loadFailed {
			m.err, m.loadFailed = nil, false
		}
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(len(m.tasks)-1, 0)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.err, m.loadFailed = msg.err, false
			return m, nil
		}
		m.err, m.loadFailed = nil, false
		m.status = msg.status
		return m, m.loadTasks()

	case taskSavedMsg:
		if msg.err != nil {
			m.err, m.loadFailed = msg.err, false
			return m, nil
		}
		m.err, m.loadFailed = nil, false
		m.status = "Saved"
		m.replaceTask(*msg.task)
		if m.detail != nil {
			m.detail.task = *msg.task
		}
		return m, nil

	case changeEventMsg:
		return m, tea.Batch(m.loadTasks(), waitForEvent(m.events))

	case feedClosedMsg:
		m.events = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == detailView {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	if m.view == detailView && m.detail != nil {
		return m, m.detail.update(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "r":
		m.status = ""
		return m, m.loadTasks()
	case "a":
		return m, m.addTodo()
	case "t":
		return m, m.addTag()
	case "x":
		return m, m.deleteLastTag()
	case "c":
		if task, ok := m.selected(); ok {
			return m, m.toggleDone(task)
		}
	case "enter":
		if task, ok := m.selected(); ok {
			m.detail = newDetailModel(task, m.width, m.markdown)
			m.view = detailView
			m.status = ""
			return m, m.detail.focusCmd()
		}
	}
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = listView
		m.detail = nil
		return m, m.loadTasks()
	case "ctrl+s":
		return m, m.save()
	}
	return m, m.detail.update(msg)
}

func (m *Model) addTodo() tea.Cmd {
	return func() tea.Msg {
		task, err := m.api.QuickAddTask(m.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Added " + task.Title}
	}
}

func (m *Model) addTag() tea.Cmd {
	return func() tea.Msg {
		tag, err := m.api.QuickAddTag(m.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Added %s (%s)", tag.Name, tag.Color)}
	}
}

func (m *Model) deleteLastTag() tea.Cmd {
	return func() tea.Msg {
		tag, deleted, err := m.api.DeleteLastTag(m.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if !deleted {
			return actionDoneMsg{status: "No tags to delete"}
		}
		return actionDoneMsg{status: "Deleted " + tag.Name}
	}
}

func (m *Model) toggleDone(task models.Task) tea.Cmd {
	done := !task.IsDone
	return func() tea.Msg {
		_, err := m.api.UpdateTask(m.ctx, task.ID.String(), client.TaskUpdate{IsDone: &done})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if done {
			return actionDoneMsg{status: "Marked done"}
		}
		return actionDoneMsg{status: "Marked open"}
	}
}

func (m *Model) save() tea.Cmd {
	id := m.detail.task.ID.String()
	title, body := m.detail.values()
	return func() tea.Msg {
		task, err := m.api.UpdateTask(m.ctx, id, client.TaskUpdate{Title: &title, Content: &body})
		return taskSavedMsg{task: task, err: err}
	}
}

func (m *Model) replaceTask(task models.Task) {
	for i := range m.tasks {
		if m.tasks[i].ID == task.ID {
			m.tasks[i] = task
			return
		}
	}
}

func (m *Model) View() string {
	var b strings.Builder
	if m.view == detailView && m.detail != nil {
		b.WriteString(m.detail.view())
	} else {
		b.WriteString(m.listView())
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()))
	} else if m.status != "" {
		b.WriteString("\n" + helpStyle.Render(m.status))
	}
	return b.String()
}

func (m *Model) listView() string {
	var b strings.Builder
	b.WriteString(headStyle.Render("Todos"))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString(helpStyle.Render("Nothing here yet. Press a to add a todo."))
		b.WriteString("\n")
	}
	for i, task := range m.tasks {
		b.WriteString(RenderCard(task, m.width, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("a add todo • t add tag • x delete last tag • c toggle done • enter open • r refresh • q quit"))
	return b.String()
}
