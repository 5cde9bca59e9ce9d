package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type assignmentView struct {
	User       string    `json:"user"`
	Role       string    `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy string    `json:"assigned_by"`
}

var assignCmd = &cobra.Command{
	Use:   "assign <user> <role>",
	Short: "Assign a role to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"user": args[0], "role": args[1]}
		var asg assignmentView
		if err := apiClient().post(cmd.Context(), "/api/v1/assignments", body, &asg); err != nil {
			return err
		}
		fmt.Printf("assigned role %s to %s\n", asg.Role, asg.User)
		return nil
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <user>",
	Short: "Revoke a user's role assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().delete(cmd.Context(), "/api/v1/assignments/"+args[0]); err != nil {
			return err
		}
		fmt.Printf("revoked assignment for %s\n", args[0])
		return nil
	},
}
