// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var dashboardAddr string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live TUI showing per-environment workspace health",
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardAddr, "addr", "http://localhost:8080", "base URL of a running gitconf-server")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	p := tea.NewProgram(newDashboardModel(dashboardAddr))
	_, err := p.Run()
	return err
}

type envStatus struct {
	Env    string `json:"env"`
	Status string `json:"status"`
	Commit string `json:"commit,omitempty"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Environments []envStatus `json:"environments"`
}

type tickMsg time.Time
type healthMsg struct {
	envs []envStatus
	err  error
}

// dashboardModel polls /healthz/env and renders a status table,
// grounded in pkg/tui/status_model.go's bubbletea skeleton.
type dashboardModel struct {
	baseURL string
	envs    []envStatus
	err     error
	width   int
}

func newDashboardModel(baseURL string) dashboardModel {
	return dashboardModel{baseURL: baseURL}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(pollHealth(m.baseURL), tickEvery())
}

func tickEvery() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func pollHealth(baseURL string) tea.Cmd {
	return func() tea.Msg {
		resp, err := http.Get(baseURL + "/healthz/env")
		if err != nil {
			return healthMsg{err: err}
		}
		defer resp.Body.Close()

		var body healthResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return healthMsg{err: err}
		}
		return healthMsg{envs: body.Environments}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tea.Batch(pollHealth(m.baseURL), tickEvery())
	case healthMsg:
		m.err = msg.err
		if msg.err == nil {
			m.envs = msg.envs
		}
	}
	return m, nil
}

var (
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

func (m dashboardModel) View() string {
	var b []byte
	b = append(b, []byte(headerStyle.Render("gitconf-server environment health")+"\n\n")...)

	if m.err != nil {
		b = append(b, []byte(degradedStyle.Render(fmt.Sprintf("poll error: %v", m.err))+"\n")...)
	}
	for _, e := range m.envs {
		line := fmt.Sprintf("%-16s %-10s %s", e.Env, e.Status, e.Commit)
		if e.Status == "ok" {
			b = append(b, []byte(okStyle.Render(line)+"\n")...)
		} else {
			b = append(b, []byte(degradedStyle.Render(line+" "+e.Error)+"\n")...)
		}
	}
	b = append(b, []byte("\npress q to quit\n")...)
	return string(b)
}
