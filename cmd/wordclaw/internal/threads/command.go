// Package threads lists the operator's conversation targets.
package threads

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal"
	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

func NewThreadsCommand() *cobra.Command {
	var tokenPath string

	cmd := &cobra.Command{
		Use:     "threads",
		Aliases: []string{"t"},
		Short:   "List conversation targets (groups first, then contacts)",
		Example: "wordclaw threads",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return threadsCmd(tokenPath)
		},
	}

	cmd.Flags().StringVar(&tokenPath, "token", "", "Session token file (default ~/.wordclaw/token.json)")

	return cmd
}

func threadsCmd(tokenPath string) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	tok, err := internal.LoadToken(tokenPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	list, err := internal.NewOrchestrator(cfg).ListThreads(ctx, tok)
	if err != nil {
		return err
	}

	for _, th := range list {
		marker := "👤"
		if th.Kind == platform.ThreadGroup {
			marker = "👥"
		}
		fmt.Printf("%s %-22s %s\n", marker, th.ID, th.Name)
	}
	fmt.Printf("\n%d conversations\n", len(list))
	return nil
}
