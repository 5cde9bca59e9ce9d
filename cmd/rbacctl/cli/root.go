// Package cli implements the rbacctl command tree. Every command is a thin
// wrapper over the rbacd HTTP API: it renders results on stdout and maps any
// API error to a non-zero exit code.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	principal string
)

var rootCmd = &cobra.Command{
	Use:   "rbacctl",
	Short: "rbacctl - role-based access control client",
	Long: `rbacctl is the command-line interface for rbacd, the RBAC engine.
Use it to initialize the system, manage roles and assignments, and check
permissions. The acting identity is set with --principal or RBACCTL_PRINCIPAL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if serverURL == "" {
			serverURL = envOr("RBACCTL_SERVER", "http://127.0.0.1:8080")
		}
		if principal == "" {
			principal = os.Getenv("RBACCTL_PRINCIPAL")
		}
	},
}

// Execute runs the root command, exiting non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "rbacd API server URL (default http://127.0.0.1:8080, env RBACCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&principal, "principal", "", "acting principal identity (env RBACCTL_PRINCIPAL)")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(auditCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func apiClient() *Client {
	return NewClient(serverURL, principal)
}
