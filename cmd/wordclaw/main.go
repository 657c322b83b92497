// WordClaw - stateless vocabulary-card pusher for chat platforms
// License: MIT
//
// Copyright (c) 2026 WordClaw contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal"
	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal/auth"
	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal/send"
	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal/serve"
	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal/threads"
	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal/version"
)

func NewWordclawCommand() *cobra.Command {
	short := fmt.Sprintf("%s wordclaw - Vocabulary Card Pusher v%s\n\n", internal.Logo, internal.FormatVersion())

	cmd := &cobra.Command{
		Use:     "wordclaw",
		Short:   short,
		Example: "wordclaw threads",
	}

	cmd.AddCommand(
		auth.NewAuthCommand(),
		serve.NewServeCommand(),
		threads.NewThreadsCommand(),
		send.NewSendCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewWordclawCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
