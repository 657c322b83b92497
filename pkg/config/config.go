// Package config loads wordclaw configuration from a JSON file with
// environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_devices can contain both "359881234567890" and 359881234567890.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	// Try []interface{} to handle mixed types
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Bridge       BridgeConfig        `json:"bridge"`
	Server       ServerConfig        `json:"server"`
	Media        MediaConfig         `json:"media"`
	AllowDevices FlexibleStringSlice `json:"allow_devices,omitempty" env:"WORDCLAW_ALLOW_DEVICES"`
}

// BridgeConfig points wordclaw at the platform bridge sidecar.
type BridgeConfig struct {
	BaseURL        string `json:"base_url" env:"WORDCLAW_BRIDGE_URL"`
	APIKey         string `json:"api_key,omitempty" env:"WORDCLAW_BRIDGE_API_KEY"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"WORDCLAW_BRIDGE_TIMEOUT"`
}

func (c BridgeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ServerConfig struct {
	Host       string `json:"host" env:"WORDCLAW_HOST"`
	Port       int    `json:"port" env:"WORDCLAW_PORT"`
	EnableCORS bool   `json:"enable_cors" env:"WORDCLAW_ENABLE_CORS"`
}

type MediaConfig struct {
	MaxDownloadMB  int `json:"max_download_mb" env:"WORDCLAW_MEDIA_MAX_MB"`
	TimeoutSeconds int `json:"timeout_seconds" env:"WORDCLAW_MEDIA_TIMEOUT"`
}

func (c MediaConfig) MaxBytes() int64 {
	return int64(c.MaxDownloadMB) << 20
}

func (c MediaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IsDeviceAllowed reports whether the given IMEI may use this instance.
// An empty allow-list admits everyone.
func (c *Config) IsDeviceAllowed(imei string) bool {
	if len(c.AllowDevices) == 0 {
		return true
	}
	for _, allowed := range c.AllowDevices {
		if imei == allowed {
			return true
		}
	}
	return false
}

func DefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			BaseURL:        "http://127.0.0.1:8790",
			TimeoutSeconds: 90,
		},
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       8788,
			EnableCORS: true,
		},
		Media: MediaConfig{
			MaxDownloadMB:  16,
			TimeoutSeconds: 30,
		},
	}
}

// LoadConfig reads the JSON config at path (missing file means defaults)
// and applies environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig writes cfg as indented JSON, creating parent directories.
func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
