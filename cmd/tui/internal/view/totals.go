package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/planora/internal/register"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

type TotalsModel struct {
	CommonModel
	registerService *register.Service

	input   textinput.Model
	spinner spinner.Model

	loading bool
	result  *register.QuoteTotals
	err     error
}

func NewTotalsModel(svc *register.Service) TotalsModel {
	ti := textinput.New()
	ti.Placeholder = "quote id"
	ti.CharLimit = 36
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return TotalsModel{
		registerService: svc,
		input:           ti,
		spinner:         sp,
	}
}

func (m TotalsModel) Title() string { return "Quote Totals" }

func (m TotalsModel) ShortHelp() string { return "Enter: compute | Esc: back" }

func (m TotalsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m TotalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			id, err := uuid.Parse(strings.TrimSpace(m.input.Value()))
			if err != nil {
				m.err = fmt.Errorf("invalid quote id: %w", err)
				m.result = nil

				return m, nil
			}

			m.loading = true
			m.err = nil

			return m, tea.Batch(m.spinner.Tick, m.loadCmd(id))
		}

	case totalsLoadedMsg:
		m.loading = false
		m.result = msg.result
		m.err = msg.err

		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m TotalsModel) View() string {
	content := "Quote totals\n\n" + m.input.View()

	switch {
	case m.loading:
		content += "\n\n" + m.spinner.View() + " Computing..."
	case m.err != nil:
		content += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err))
	case m.result != nil:
		content += "\n\n" + renderTotals(m.result)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func renderTotals(qt *register.QuoteTotals) string {
	t := qt.Totals

	converted := "n/a"
	if t.ConvertedAmount != nil {
		converted = fmt.Sprintf("%s %s", FormatAmount(*t.ConvertedAmount), t.Currency)
	}

	rate := "n/a"
	if t.RateOrigin != totals.RateUnavailable {
		rate = fmt.Sprintf("%s (%s)", t.Rate, t.RateOrigin)
	}

	title := qt.Quote.Title
	if title == "" {
		title = "Untitled"
	}

	body := fmt.Sprintf(
		"%s\n\nSubtotal:        %s\nTax adjustment:  %s\nBase total:      %s\nRate:            %s\nConverted:       %s",
		title,
		FormatAmount(t.Subtotal),
		FormatAmount(t.TaxAdjustment),
		FormatAmount(t.BaseTotal),
		rate,
		converted,
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(body)
}

// Messages

type totalsLoadedMsg struct {
	result *register.QuoteTotals
	err    error
}

func (m TotalsModel) loadCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.registerService.QuoteTotals(ctx, id)

		return totalsLoadedMsg{result: result, err: err}
	}
}
