package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <user> <permission>",
	Short: "Check whether a user holds a permission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{"user": {args[0]}, "permission": {args[1]}}
		var out struct {
			Allowed bool `json:"allowed"`
		}
		path := "/api/v1/permissions/check?" + query.Encode()
		if err := apiClient().get(cmd.Context(), path, &out); err != nil {
			return err
		}
		fmt.Printf("%t\n", out.Allowed)
		return nil
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <action>",
	Short: "Execute an action as the acting principal",
	Long: `Execute an action gated by the permission model. Recognized actions:
resource.read, resource.create, resource.update, resource.delete, system.admin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"action": args[0]}
		var out struct {
			Status string `json:"status"`
		}
		if err := apiClient().post(cmd.Context(), "/api/v1/actions", body, &out); err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", args[0], out.Status)
		return nil
	},
}
