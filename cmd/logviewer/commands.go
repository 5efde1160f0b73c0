package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kidpech/runtime_logviewer/internal/infrastructure/auth"
)

func newTokenCmd(f *flags) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator bearer token for the debug endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			token, err := auth.NewVerifier(cfg.Operator).Issue(subject, auth.RoleOperator, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

func newVersionCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the configured application version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.App.Name, cfg.App.Version)
			return nil
		},
	}
}
