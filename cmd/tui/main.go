package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/planora/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/planora/internal/calendar"
	"github.com/MrJamesThe3rd/planora/internal/config"
	"github.com/MrJamesThe3rd/planora/internal/currency"
	currencyStore "github.com/MrJamesThe3rd/planora/internal/currency/store"
	"github.com/MrJamesThe3rd/planora/internal/database"
	"github.com/MrJamesThe3rd/planora/internal/register"
	registerStore "github.com/MrJamesThe3rd/planora/internal/register/store"
	"github.com/MrJamesThe3rd/planora/internal/totals"
)

type model struct {
	appName         string
	registerService *register.Service
	currencyService *currency.Service

	currentView View

	registerView view.RegisterModel
	totalsView   view.TotalsModel
	ratesView    view.RatesModel
}

type View int

const (
	ViewMenu     View = 0
	ViewRegister View = 1
	ViewTotals   View = 2
	ViewRates    View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var remote currency.Remote
	if cfg.Rates.URL != "" {
		remote = currency.NewClient(cfg.Rates.URL, cfg.Rates.Token)
	}

	curSvc := currency.NewService(currencyStore.New(db), remote, cfg.Rates.BaseCurrency)
	calc := totals.NewCalculator(cfg.Rates.BaseCurrency, curSvc)
	regSvc := register.NewService(registerStore.New(db), calendar.NewNormalizer(loc), calc)

	return model{
		appName:         cfg.App.Name,
		registerService: regSvc,
		currencyService: curSvc,
		currentView:     ViewMenu,
		registerView:    view.NewRegisterModel(regSvc),
		totalsView:      view.NewTotalsModel(regSvc),
		ratesView:       view.NewRatesModel(curSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewRegister
				m.registerView = view.NewRegisterModel(m.registerService)

				return m, m.registerView.Init()
			case "2":
				m.currentView = ViewTotals
				m.totalsView = view.NewTotalsModel(m.registerService)

				return m, m.totalsView.Init()
			case "3":
				m.currentView = ViewRates
				m.ratesView = view.NewRatesModel(m.currencyService)

				return m, m.ratesView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewTotals:
		var newModel tea.Model
		newModel, cmd = m.totalsView.Update(msg)
		m.totalsView = newModel.(view.TotalsModel)
	case ViewRates:
		var newModel tea.Model
		newModel, cmd = m.ratesView.Update(msg)
		m.ratesView = newModel.(view.RatesModel)
	}

	return m, cmd
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewRegister:
		return m.registerView
	case ViewTotals:
		return m.totalsView
	case ViewRates:
		return m.ratesView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Browse Document Register\n" +
				"2. Quote Totals\n" +
				"3. Import Exchange Rates\n\n" +
				"q. Quit",
		)
	}

	v := m.active()
	if v == nil {
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
