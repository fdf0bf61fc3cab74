package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/document"
	"github.com/MrJamesThe3rd/planora/internal/register"
)

type registerState int

const (
	registerStateForm registerState = iota
	registerStateBrowse
)

// registerQuery is shared by pointer with the huh form, which writes into it.
type registerQuery struct {
	kind     string
	eventID  string
	clientID string
	fallback string
}

type RegisterModel struct {
	CommonModel
	registerService *register.Service

	state   registerState
	form    *huh.Form
	query   *registerQuery
	table   table.Model
	entries []*register.Entry
	key     document.GroupKey

	loading bool
	err     error
}

func NewRegisterModel(svc *register.Service) RegisterModel {
	columns := []table.Column{
		{Title: "Code", Width: 22},
		{Title: "Created", Width: 12},
		{Title: "Reference Date", Width: 26},
		{Title: "Title", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := RegisterModel{
		registerService: svc,
		table:           t,
		query:           &registerQuery{kind: string(document.KindQuote)},
	}
	m.form = newRegisterForm(m.query)

	return m
}

func validOptionalUUID(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("not a valid id")
	}

	return nil
}

func newRegisterForm(q *registerQuery) *huh.Form {
	kinds := make([]huh.Option[string], 0, len(document.Kinds))
	for _, k := range document.Kinds {
		kinds = append(kinds, huh.NewOption(fmt.Sprintf("%s (%s)", k, k.Prefix()), string(k)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Document kind").
				Options(kinds...).
				Value(&q.kind),

			huh.NewInput().
				Key("event_id").
				Title("Event ID").
				Placeholder("leave empty to list by client").
				Value(&q.eventID).
				Validate(validOptionalUUID),

			huh.NewInput().
				Key("client_id").
				Title("Client ID").
				Placeholder("used when no event is given").
				Value(&q.clientID).
				Validate(validOptionalUUID),

			huh.NewInput().
				Key("fallback_event_id").
				Title("Fallback event ID").
				Placeholder("date context for documents without an event").
				Value(&q.fallback).
				Validate(validOptionalUUID),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m RegisterModel) Title() string { return "Document Register" }

func (m RegisterModel) ShortHelp() string {
	if m.state == registerStateForm {
		return "Enter: next | Esc: back"
	}

	return "Esc: new query | r: refresh"
}

func (m RegisterModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registerLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	if m.state == registerStateForm {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m RegisterModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.key = m.query.groupKey()
	m.state = registerStateBrowse
	m.loading = true
	m.table.Focus()

	return m, m.loadCmd()
}

func (m RegisterModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = registerStateForm
			m.err = nil
			m.form = newRegisterForm(m.query)

			return m, m.form.Init()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RegisterModel) View() string {
	if m.state == registerStateForm {
		return lipgloss.NewStyle().Padding(1).Render("Browse a document register\n\n" + m.form.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Resolving codes...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to go back)", m.err))
	}

	header := fmt.Sprintf("Group: %s | %d documents", activeStyle(m.key.String()), len(m.entries))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
		),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *RegisterModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		ref := e.ReferenceDate
		if e.DateStatus == calendar.StatusInvalid {
			ref += " (unreadable)"
		}

		rows = append(rows, table.Row{
			e.Code,
			FormatDate(e.Document.CreatedAt),
			ref,
			e.Document.Title,
		})
	}

	m.table.SetRows(rows)
}

// groupKey builds the group from validated form input. The event wins over
// the client.
func (q *registerQuery) groupKey() document.GroupKey {
	kind := document.Kind(q.kind)

	if id, err := uuid.Parse(strings.TrimSpace(q.eventID)); err == nil {
		return document.ForEvent(kind, id)
	}

	if id, err := uuid.Parse(strings.TrimSpace(q.clientID)); err == nil {
		return document.ForClient(kind, id)
	}

	return document.GroupKey{Kind: kind}
}

func (q *registerQuery) fallbackID() *uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(q.fallback))
	if err != nil {
		return nil
	}

	return &id
}

// Messages

type registerLoadedMsg struct {
	entries []*register.Entry
	err     error
}

func (m RegisterModel) loadCmd() tea.Cmd {
	key := m.key
	fallback := m.query.fallbackID()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.registerService.List(ctx, key, fallback)

		return registerLoadedMsg{entries: entries, err: err}
	}
}
