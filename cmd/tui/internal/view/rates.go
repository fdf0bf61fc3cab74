package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/planora/internal/currency"
)

const importTimeout = 2 * time.Minute

type ratesState int

const (
	ratesStateFilePick ratesState = iota
	ratesStateImporting
	ratesStateResult
)

type RatesModel struct {
	CommonModel
	currencyService *currency.Service

	state      ratesState
	filePicker filepicker.Model

	status string
	err    error
}

func NewRatesModel(svc *currency.Service) RatesModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return RatesModel{
		currencyService: svc,
		filePicker:      fp,
	}
}

func (m RatesModel) Title() string { return "Import Exchange Rates" }

func (m RatesModel) ShortHelp() string { return "Esc: back | Enter: select" }

func (m RatesModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m RatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == ratesStateResult {
				m.state = ratesStateFilePick
				m.err = nil
				m.status = ""

				return m, m.filePicker.Init()
			}

			return m, Back
		}

	case ratesImportedMsg:
		m.state = ratesStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d of %d rates (%s format, %s).",
			msg.result.Imported, msg.result.Parsed, msg.result.Profile, msg.result.Charset)

		return m, nil
	}

	if m.state != ratesStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = ratesStateImporting
		m.status = fmt.Sprintf("Importing rates from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m RatesModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	switch m.state {
	case ratesStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a rate file (base %s):\n\n%s", m.currencyService.Base(), m.filePicker.View()),
		)
	case ratesStateImporting:
		return style.Render(m.status)
	case ratesStateResult:
		color := lipgloss.Color("46")
		if m.err != nil {
			color = lipgloss.Color("196")
		}

		return style.Render(lipgloss.NewStyle().Foreground(color).Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type ratesImportedMsg struct {
	result *currency.ImportResult
	err    error
}

func (m RatesModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ratesImportedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.currencyService.Import(ctx, f)

		return ratesImportedMsg{result: result, err: err}
	}
}
