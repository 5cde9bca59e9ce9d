package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type stateView struct {
	Admin     string `json:"admin"`
	RoleCount uint32 `json:"role_count"`
	UserCount uint32 `json:"user_count"`
	Active    bool   `json:"active"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the system with the acting principal as admin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var state stateView
		if err := apiClient().post(cmd.Context(), "/api/v1/system/initialize", nil, &state); err != nil {
			return err
		}
		fmt.Printf("system initialized, admin: %s\n", state.Admin)
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the system state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var state stateView
		if err := apiClient().get(cmd.Context(), "/api/v1/system", &state); err != nil {
			return err
		}
		fmt.Printf("admin:      %s\n", state.Admin)
		fmt.Printf("roles:      %d\n", state.RoleCount)
		fmt.Printf("users:      %d\n", state.UserCount)
		fmt.Printf("active:     %t\n", state.Active)
		return nil
	},
}
