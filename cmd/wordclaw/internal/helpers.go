package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinyland-inc/wordclaw/pkg/config"
	"github.com/tinyland-inc/wordclaw/pkg/media"
	"github.com/tinyland-inc/wordclaw/pkg/orchestrator"
	"github.com/tinyland-inc/wordclaw/pkg/platform/bridge"
	"github.com/tinyland-inc/wordclaw/pkg/token"
)

const Logo = "🦜"

var (
	version   = "dev"
	gitCommit string
)

func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wordclaw", "config.json")
}

func GetTokenPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wordclaw", "token.json")
}

func LoadConfig() (*config.Config, error) {
	return config.LoadConfig(GetConfigPath())
}

// LoadToken reads the captured session token saved by `wordclaw auth`.
func LoadToken(path string) (token.SessionToken, error) {
	if path == "" {
		path = GetTokenPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return token.SessionToken{}, fmt.Errorf("reading session token (run `wordclaw auth` first): %w", err)
	}
	var tok token.SessionToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return token.SessionToken{}, fmt.Errorf("parsing session token %s: %w", path, err)
	}
	return tok, nil
}

// NewOrchestrator wires a bridge client and media fetcher from cfg.
func NewOrchestrator(cfg *config.Config) *orchestrator.Orchestrator {
	client := bridge.New(cfg.Bridge.BaseURL,
		bridge.WithAPIKey(cfg.Bridge.APIKey),
		bridge.WithTimeout(cfg.Bridge.Timeout()),
	)
	fetcher := media.NewHTTPFetcher(cfg.Media.Timeout(), cfg.Media.MaxBytes())
	return orchestrator.New(client, fetcher)
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}
