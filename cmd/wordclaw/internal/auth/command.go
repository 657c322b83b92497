// Package auth captures a platform session token from the operator and
// saves it for the other commands.
package auth

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/wordclaw/cmd/wordclaw/internal"
	"github.com/tinyland-inc/wordclaw/pkg/token"
)

func NewAuthCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "auth",
		Short:   "Capture and save a platform session token",
		Example: "wordclaw auth",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if output == "" {
				output = internal.GetTokenPath()
			}
			tok, err := PasteToken(os.Stdin)
			if err != nil {
				return err
			}
			if err := saveToken(output, tok); err != nil {
				return err
			}
			fmt.Printf("Session token saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Token file path (default ~/.wordclaw/token.json)")

	return cmd
}

// PasteToken interactively reads the captured cookie and device IMEI.
// The cookie may be the raw cookie header or the exported JSON object;
// normalization happens later, at login time.
func PasteToken(r io.Reader) (token.SessionToken, error) {
	scanner := bufio.NewScanner(r)
	// Exported cookie objects can be large.
	scanner.Buffer(make([]byte, 1024), 1<<20)

	fmt.Println("Paste your captured session cookie (raw header or JSON object):")
	fmt.Print("> ")
	cookie, err := scanLine(scanner)
	if err != nil {
		return token.SessionToken{}, err
	}
	if cookie == "" {
		return token.SessionToken{}, errors.New("cookie cannot be empty")
	}

	fmt.Println("Paste the device IMEI the session was captured on:")
	fmt.Print("> ")
	imei, err := scanLine(scanner)
	if err != nil {
		return token.SessionToken{}, err
	}
	if imei == "" {
		return token.SessionToken{}, errors.New("imei cannot be empty")
	}

	return token.SessionToken{Cookie: cookie, IMEI: imei}, nil
}

func scanLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", errors.New("no input received")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func saveToken(path string, tok token.SessionToken) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	// Token grants full account access; keep it operator-readable only.
	return os.WriteFile(path, data, 0o600)
}
