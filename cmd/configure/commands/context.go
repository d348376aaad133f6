package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lifebots/assistant-api/internal/config"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/spf13/cobra"
)

// NewContextCmd creates the context command with dump and reset subcommands.
func NewContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Inspect and manage user context documents",
		Long:  "Dump or reset the shared context document stored in Redis for a user.",
	}
	cmd.AddCommand(newContextDumpCmd())
	cmd.AddCommand(newContextResetCmd())
	return cmd
}

func newContextDumpCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a user's context document as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			doc, stored, err := store.Get(context.Background(), userID)
			if err != nil {
				return fmt.Errorf("get context: %w", err)
			}
			if !stored {
				fmt.Println("No stored context for this user; showing the default document.")
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode context: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	return cmd
}

func newContextResetCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset a user's context document to the default",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := mcp.NewService(store, nil)
			if err := svc.Reset(context.Background(), userID); err != nil {
				return fmt.Errorf("reset context: %w", err)
			}
			fmt.Println("Context reset to the default document.")
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	return cmd
}

func openStore() (*mcp.RedisStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := mcp.NewRedisStore(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return store, nil
}
