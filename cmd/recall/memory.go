package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attiklabs/recall/config"
	"github.com/attiklabs/recall/memory"
)

func memoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect and manage stored memories directly",
	}
	cmd.AddCommand(memoryGetCmd())
	cmd.AddCommand(memorySetCmd())
	cmd.AddCommand(memoryRmCmd())
	cmd.AddCommand(memoryUsersCmd())
	return cmd
}

func withStore(ctx context.Context, fn func(memory.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg)

	store, err := memory.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func memoryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Print a user's memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store memory.Store) error {
				content, err := store.Read(cmd.Context(), args[0])
				if errors.Is(err, memory.ErrNotFound) {
					fmt.Println("(empty)")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Println(content)
				return nil
			})
		},
	}
}

func memorySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <user-id> <memory>",
		Short: "Replace a user's memory, bypassing the agent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store memory.Store) error {
				return store.Write(cmd.Context(), args[0], args[1])
			})
		},
	}
}

func memoryRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <user-id>",
		Short: "Delete a user's memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store memory.Store) error {
				return store.Delete(cmd.Context(), args[0])
			})
		},
	}
}

func memoryUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with a stored memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(store memory.Store) error {
				users, err := store.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range users {
					fmt.Println(id)
				}
				return nil
			})
		},
	}
}
