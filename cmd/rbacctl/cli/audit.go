package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent audit events (requires the admin permission)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Events []struct {
				Type       string    `json:"type"`
				Actor      string    `json:"actor"`
				Subject    string    `json:"subject"`
				OccurredAt time.Time `json:"occurred_at"`
			} `json:"events"`
		}
		path := fmt.Sprintf("/api/v1/audit/events?limit=%d", auditLimit)
		if err := apiClient().get(cmd.Context(), path, &out); err != nil {
			return err
		}
		for _, event := range out.Events {
			fmt.Printf("%s  %-20s actor=%s subject=%s\n",
				event.OccurredAt.Format(time.RFC3339), event.Type, event.Actor, event.Subject)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum number of events to show")
}
