package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print wordclaw version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("wordclaw %s\n", internal.FormatVersion())
		},
	}
}
