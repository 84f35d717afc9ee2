package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultExportTemplate renders a session transcript as markdown.
const DefaultExportTemplate = `# {{title}}

*Exported {{exported_at}} · model: {{model}}*

{{#messages}}
## {{role}}

{{text}}

{{/messages}}`

type Config struct {
	Endpoint       string // Completion endpoint base URL (optional)
	SystemMessage  string // Default system message override (optional)
	DataDir        string // Where sessions.db and the fallback file live
	ExportTemplate string // Mustache template for markdown export
	Debug          bool
}

type tomlConfig struct {
	Endpoint      string `toml:"endpoint"`
	SystemMessage string `toml:"system_message"`
	DataDir       string `toml:"data_dir"`
	Debug         bool   `toml:"debug"`
}

// Load reads config from ~/.config/pilotchat/
func Load() (*Config, error) {
	cfg := &Config{
		ExportTemplate: DefaultExportTemplate,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}
	cfg.DataDir = filepath.Join(home, ".local", "share", "pilotchat")

	configDir := filepath.Join(home, ".config", "pilotchat")
	tomlPath := filepath.Join(configDir, "config.toml")
	templatePath := filepath.Join(configDir, "export_template.mustache")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			cfg.Endpoint = strings.TrimSpace(tc.Endpoint)
			cfg.SystemMessage = tc.SystemMessage
			cfg.Debug = tc.Debug
			if tc.DataDir != "" {
				cfg.DataDir = expandHome(home, tc.DataDir)
			}
		}
	}

	// If a custom export template exists, use it
	if data, err := os.ReadFile(templatePath); err == nil {
		cfg.ExportTemplate = string(data)
	}

	return cfg, nil
}

func expandHome(home, path string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
