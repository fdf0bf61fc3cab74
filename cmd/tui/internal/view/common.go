package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

type CommonModel struct {
	Width  int
	Height int
}

// SetSize records the terminal size reported by a tea.WindowSizeMsg.
func (c *CommonModel) SetSize(msg tea.WindowSizeMsg) {
	c.Width = msg.Width
	c.Height = msg.Height
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
