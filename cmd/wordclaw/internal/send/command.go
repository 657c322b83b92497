// Package send delivers one vocabulary card from a JSON file.
package send

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal"
	"github.com/tinyland-inc/wordclaw/pkg/vocab"
)

func NewSendCommand() *cobra.Command {
	var tokenPath string
	var cardPath string

	cmd := &cobra.Command{
		Use:     "send <target-id>",
		Short:   "Deliver a vocabulary card to a conversation",
		Example: "wordclaw send 123456789 --card ephemeral.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return sendCmd(args[0], tokenPath, cardPath)
		},
	}

	cmd.Flags().StringVar(&tokenPath, "token", "", "Session token file (default ~/.wordclaw/token.json)")
	cmd.Flags().StringVarP(&cardPath, "card", "c", "", "Vocabulary card JSON file (required)")
	cmd.MarkFlagRequired("card")

	return cmd
}

func sendCmd(targetID, tokenPath, cardPath string) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	tok, err := internal.LoadToken(tokenPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cardPath)
	if err != nil {
		return fmt.Errorf("reading card: %w", err)
	}
	var rec vocab.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parsing card %s: %w", cardPath, err)
	}
	if rec.Word == "" {
		return fmt.Errorf("card %s has no word", cardPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	outcome, err := internal.NewOrchestrator(cfg).SendVocabulary(ctx, tok, targetID, rec)
	if err != nil {
		return err
	}

	fmt.Printf("Delivery log for %q → %s:\n", rec.Word, targetID)
	for _, tag := range outcome {
		marker := "✅"
		if strings.Contains(tag, "Failed") {
			marker = "❌"
		}
		fmt.Printf("  %s %s\n", marker, tag)
	}
	return nil
}
