// Command recall is the long-term memory chat assistant: an HTTP server, an
// interactive terminal chat and direct memory management, all over the same
// single-string-per-user memory store.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Long-term memory layer for conversational assistants",
		Long: `recall keeps one free-text memory string per user. A model-driven agent
decides what is worth remembering and merges new information into the
existing memory; the string is loaded wholesale into every conversation.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Optional .env; system environment wins over missing files.
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(chatCmd())
	cmd.AddCommand(memoryCmd())
	return cmd
}
