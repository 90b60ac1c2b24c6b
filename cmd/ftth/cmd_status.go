package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ftthdesk/internal/views"
)

// recentLimit is how many dossiers status lists.
const recentLimit = 5

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := openDesk()
	if err != nil {
		return err
	}

	st := d.store.GlobalStats()
	lines := []string{
		titleStyle.Render("Installation desk"),
		kv("store", d.store.Path()),
		kv("dossiers", st.TotalDossiers),
		kv("clients", st.TotalClients),
		kv("teams", st.TotalTeams),
		"",
		titleStyle.Render("Teams"),
	}
	for _, team := range d.store.Teams() {
		l, _ := d.store.TeamLedger(team)
		lines = append(lines, kv("  "+team, fmt.Sprintf("%d clients, %d days", l.TotalClients, len(l.Dates))))
	}

	lines = append(lines, "", titleStyle.Render("Recent dossiers"))
	recent := views.Recent(d.store, recentLimit)
	if len(recent) == 0 {
		lines = append(lines, labelStyle.Render("  none yet"))
	}
	for _, s := range recent {
		parts := make([]string, len(s.Teams))
		for i, tc := range s.Teams {
			parts[i] = fmt.Sprintf("%s %d", tc.Team, tc.Count)
		}
		lines = append(lines, kv("  "+s.Date, fmt.Sprintf("%d  (%s)", s.Total, strings.Join(parts, ", "))))
	}

	fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	return nil
}
