package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type roleView struct {
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

var rolePermissions string

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles",
}

var roleCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a role with a comma-separated permission list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		perms := []string{}
		if rolePermissions != "" {
			perms = strings.Split(rolePermissions, ",")
		}
		body := map[string]any{"name": args[0], "permissions": perms}
		var role roleView
		if err := apiClient().post(cmd.Context(), "/api/v1/roles", body, &role); err != nil {
			return err
		}
		fmt.Printf("role %s created with permissions [%s]\n", role.Name, strings.Join(role.Permissions, " "))
		return nil
	},
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Roles []roleView `json:"roles"`
		}
		if err := apiClient().get(cmd.Context(), "/api/v1/roles", &out); err != nil {
			return err
		}
		for _, role := range out.Roles {
			fmt.Printf("%-32s %s\n", role.Name, strings.Join(role.Permissions, ","))
		}
		return nil
	},
}

var roleGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var role roleView
		if err := apiClient().get(cmd.Context(), "/api/v1/roles/"+args[0], &role); err != nil {
			return err
		}
		fmt.Printf("name:        %s\n", role.Name)
		fmt.Printf("permissions: %s\n", strings.Join(role.Permissions, ","))
		fmt.Printf("created:     %s\n", role.CreatedAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	roleCreateCmd.Flags().StringVar(&rolePermissions, "permissions", "", "comma-separated permissions (read,create,update,delete,admin)")
	roleCmd.AddCommand(roleCreateCmd)
	roleCmd.AddCommand(roleListCmd)
	roleCmd.AddCommand(roleGetCmd)
}
