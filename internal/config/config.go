package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models weekplan.yml.
type Config struct {
	Product struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"product"`
	Week struct {
		// LabelTemplate wording is configurable; {start} and {end} are
		// substituted with DD/MM/YYYY dates.
		LabelTemplate string `yaml:"label_template"`
	} `yaml:"week"`
	Share struct {
		Secret   string `yaml:"secret"`
		TTLHours int    `yaml:"ttl_hours"`
	} `yaml:"share"`
	Server struct {
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; run wp init or pass --product", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Product.ID == "" {
		return fmt.Errorf("config.product.id is required")
	}
	tpl := c.Week.LabelTemplate
	if tpl != "" {
		if !strings.Contains(tpl, "{start}") || !strings.Contains(tpl, "{end}") {
			return fmt.Errorf("config.week.label_template must contain {start} and {end}")
		}
	}
	if c.Share.TTLHours < 0 {
		return fmt.Errorf("config.share.ttl_hours must not be negative")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "weekplan.yml")
}

// Default returns the default Config struct for a product.
func Default(productID string) *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(fmt.Sprintf(defaultTemplate, productID, productID)), &cfg)
	cfg.Product.ID = productID
	return &cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault(productID string) string {
	return fmt.Sprintf(defaultTemplate, productID, productID)
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const defaultTemplate = `product:
  id: %s
  name: %s

week:
  label_template: "Week of {start} to {end}"

share:
  secret: ""
  ttl_hours: 720

server:
  base_path: /v0
`
