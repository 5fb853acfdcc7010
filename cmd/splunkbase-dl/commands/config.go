package commands

import (
	"errors"
	"os"
	"splunkbase-dl/lib/configutil"
	"splunkbase-dl/lib/splunkbase"
	"splunkbase-dl/lib/telemetry"
	"time"
)

type Config struct {
	AuthUrl   string `json:"auth_url"`
	BaseUrl   string `json:"base_url"`
	OutputDir string `json:"output_dir"`
	UserAgent string `json:"user_agent"`
	// 0 means requests never time out
	TimeoutSeconds   int              `json:"timeout_seconds"`
	CloudflareBypass bool             `json:"cloudflare_bypass"`
	Telemetry        telemetry.Config `json:"telemetry"`
}

func DefaultConfig() Config {
	return Config{
		AuthUrl:   splunkbase.DefaultAuthUrl,
		BaseUrl:   splunkbase.DefaultBaseUrl,
		OutputDir: ".",
		UserAgent: splunkbase.DefaultUserAgent,
	}
}

// LoadConfig reads the config at `path` (and its .local override),
// a missing file leaves every setting at its default.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Config{}
	} else if err != nil {
		return Config{}, err
	}
	return configutil.WithDefaults(cfg, DefaultConfig())
}

func (c Config) ClientOptions() splunkbase.ClientOptions {
	return splunkbase.ClientOptions{
		AuthUrl:          c.AuthUrl,
		BaseUrl:          c.BaseUrl,
		UserAgent:        c.UserAgent,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		CloudflareBypass: c.CloudflareBypass,
	}
}
