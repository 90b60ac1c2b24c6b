package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"ftthdesk/internal/views"
)

func runCalendar(cmd *cobra.Command, args []string) error {
	d, err := openDesk()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(views.Calendar(d.store))
}
