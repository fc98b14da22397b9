package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"formgate/internal/identifier"
	"formgate/internal/platform/config"
	"formgate/internal/platform/logger"
)

func newIDsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ids",
		Short: "Administer the identifier whitelist offline",
	}
	cmd.AddCommand(newIDsListCmd(), newIDsAddCmd(), newIDsRemoveCmd())
	return cmd
}

// loadRegistry opens and loads the configured registry. Unlike serve, an
// unreadable store is fatal so a write cannot replace it with a near-empty list.
func loadRegistry(cmd *cobra.Command) (*identifier.Registry, []io.Closer, error) {
	cfg := config.FromEnv()
	registry, closers, err := buildRegistry(cmd.Context(), cfg, logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log), nil)
	if err != nil {
		return nil, nil, err
	}
	if err := registry.Load(cmd.Context()); err != nil {
		closeAll(closers)
		return nil, nil, fmt.Errorf("registry left untouched: %w", err)
	}
	return registry, closers, nil
}

func newIDsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print registered identifiers as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, closers, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeAll(closers)

			out, err := json.MarshalIndent(registry.List(cmd.Context()), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newIDsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Register an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closers, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeAll(closers)

			if err := registry.Add(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("add %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", args[0])
			return nil
		},
	}
}

func newIDsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Deregister an identifier; stored forms are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, closers, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			defer closeAll(closers)

			if err := registry.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("remove %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}
