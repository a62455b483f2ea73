package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/attiklabs/recall/config"
)

func chatCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively from the terminal",
		Long: `Start an interactive conversation. Type 'memory' to print the current
memory and 'exit' to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg)

			ctx := cmd.Context()
			ag, store, err := buildAgent(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Printf("Starting conversation for user: %s\n", userID)
			fmt.Println("Type 'exit' to quit, 'memory' to see your current memory")
			fmt.Println()

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("You: ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				input := strings.TrimSpace(scanner.Text())

				switch strings.ToLower(input) {
				case "":
					continue
				case "exit":
					return nil
				case "memory":
					content, err := ag.Memory(ctx, userID)
					if err != nil {
						return err
					}
					if content == "" {
						content = "(empty)"
					}
					fmt.Printf("Current memory: %s\n\n", content)
					continue
				}

				turn, err := ag.HandleTurn(ctx, userID, input)
				if err != nil {
					fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
					continue
				}
				fmt.Printf("Assistant: %s\n", turn.Reply)
				if turn.MemoryUpdated {
					fmt.Println("[memory updated]")
				}
				fmt.Println()
			}
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "default", "user identifier")
	return cmd
}
