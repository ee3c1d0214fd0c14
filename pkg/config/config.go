package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ProviderConfig represents configuration for a single LLM provider.
type ProviderConfig struct {
	Options ProviderOptions `yaml:"options" json:"options"`
}

// ProviderOptions contains the SDK-level options for a provider.
type ProviderOptions struct {
	APIKey      string  `yaml:"apiKey" json:"apiKey" envconfig:"API_KEY"`
	BaseURL     string  `yaml:"baseURL" json:"baseURL" envconfig:"BASE_URL"`
	Model       string  `yaml:"model" json:"model" envconfig:"MODEL"`
	Temperature float64 `yaml:"temperature" json:"temperature" envconfig:"TEMP"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens" envconfig:"MAX_TOKENS"`
}

// HTTPConfig contains HTTP API related settings.
type HTTPConfig struct {
	Enable bool   `yaml:"enable" envconfig:"ENABLE"`
	Addr   string `yaml:"addr" envconfig:"ADDR"`
	APIKey string `yaml:"api_key" envconfig:"API_KEY"`
}

// TakeoffDefaults is the configured launch origin. Relative positions with an
// "origin" reference frame resolve against it.
type TakeoffDefaults struct {
	Latitude      float64 `yaml:"latitude" json:"latitude"`
	Longitude     float64 `yaml:"longitude" json:"longitude"`
	Heading       string  `yaml:"heading" json:"heading"`
	Altitude      float64 `yaml:"altitude" json:"altitude"`
	AltitudeUnits string  `yaml:"altitude_units" json:"altitude_units"`
}

// CurrentActionDefaults seeds single-shot command-mode requests.
type CurrentActionDefaults struct {
	Type              string  `yaml:"type" json:"type"`
	Latitude          float64 `yaml:"latitude" json:"latitude"`
	Longitude         float64 `yaml:"longitude" json:"longitude"`
	Altitude          float64 `yaml:"altitude" json:"altitude"`
	AltitudeUnits     string  `yaml:"altitude_units" json:"altitude_units"`
	Radius            float64 `yaml:"radius" json:"radius"`
	RadiusUnits       string  `yaml:"radius_units" json:"radius_units"`
	Heading           string  `yaml:"heading" json:"heading"`
	SearchTarget      string  `yaml:"search_target" json:"search_target"`
	DetectionBehavior string  `yaml:"detection_behavior" json:"detection_behavior"`
}

// CommandDefaults holds the per-command-type fallback parameters.
type CommandDefaults struct {
	Altitude      float64 `yaml:"altitude" json:"altitude"`
	AltitudeUnits string  `yaml:"altitude_units" json:"altitude_units"`
	Radius        float64 `yaml:"radius" json:"radius"`
	RadiusUnits   string  `yaml:"radius_units" json:"radius_units"`
}

// AgentConfig controls planner behavior.
type AgentConfig struct {
	MaxMissionItems        int  `yaml:"max_mission_items" envconfig:"MAX_MISSION_ITEMS"`
	AutoValidate           bool `yaml:"auto_validate" envconfig:"AUTO_VALIDATE"`
	AutoAddMissingTakeoff  bool `yaml:"auto_add_missing_takeoff" envconfig:"AUTO_ADD_MISSING_TAKEOFF"`
	AutoAddMissingRTL      bool `yaml:"auto_add_missing_rtl" envconfig:"AUTO_ADD_MISSING_RTL"`
	AutoCompleteParameters bool `yaml:"auto_complete_parameters" envconfig:"AUTO_COMPLETE_PARAMETERS"`

	DefaultDistanceUnits     string `yaml:"default_distance_units"`
	DefaultSearchTarget      string `yaml:"default_search_target"`
	DefaultDetectionBehavior string `yaml:"default_detection_behavior"`

	Takeoff  CommandDefaults `yaml:"takeoff"`
	Waypoint CommandDefaults `yaml:"waypoint"`
	Loiter   CommandDefaults `yaml:"loiter"`
	Survey   CommandDefaults `yaml:"survey"`
	RTL      CommandDefaults `yaml:"rtl"`
}

// Config is the root configuration structure.
type Config struct {
	// ActiveProvider explicitly sets the active provider (optional).
	// If not set, auto-detection is used based on available API keys.
	ActiveProvider string `yaml:"active_provider" envconfig:"ACTIVE_PROVIDER"`

	// LogLevel controls structured logging verbosity (DEBUG, INFO, WARN, ERROR).
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// Mode selects the default session lifecycle: mission or command.
	Mode string `yaml:"mode" envconfig:"MODE"`

	// Providers is a map of provider ID to its configuration.
	Providers map[string]ProviderConfig `yaml:"provider"`

	// HTTP server settings.
	HTTP HTTPConfig `yaml:"http" envconfig:"HTTP"`

	// DevMode enables development features like Swagger UI.
	DevMode bool `yaml:"dev_mode" envconfig:"DEV_MODE"`

	// MissionDir is where approved missions are persisted.
	MissionDir string `yaml:"mission_dir" envconfig:"MISSION_DIR"`

	Agent         AgentConfig           `yaml:"agent"`
	Takeoff       TakeoffDefaults       `yaml:"takeoff_defaults"`
	CurrentAction CurrentActionDefaults `yaml:"current_action"`
}

// ProviderEnvVars maps provider IDs to their environment variable names for auto-detection.
var ProviderEnvVars = map[string]struct {
	APIKey  []string
	BaseURL []string
	Model   []string
}{
	"gemini": {
		APIKey: []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		Model:  []string{"GEMINI_MODEL"},
	},
	"openai": {
		APIKey:  []string{"OPENAI_API_KEY"},
		BaseURL: []string{"OPENAI_API_BASE", "OPENAI_BASE_URL"},
		Model:   []string{"OPENAI_MODEL"},
	},
}

// ProviderDefaults contains default options for each provider.
var ProviderDefaults = map[string]ProviderOptions{
	"gemini": {
		Model: "gemini-2.0-flash",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o",
	},
}

// GetActiveProvider returns the active provider ID and its configuration.
// Priority: ActiveProvider field > first provider with API key in env > first configured provider.
func (c *Config) GetActiveProvider() (string, ProviderOptions, error) {
	if c.ActiveProvider != "" {
		if p, ok := c.Providers[c.ActiveProvider]; ok {
			return c.ActiveProvider, mergeOptions(ProviderDefaults[c.ActiveProvider], p.Options), nil
		}
		if opts, ok := detectProviderFromEnv(c.ActiveProvider); ok {
			return c.ActiveProvider, opts, nil
		}
		return "", ProviderOptions{}, fmt.Errorf("active provider %q not configured", c.ActiveProvider)
	}

	for _, providerID := range []string{"openai", "gemini"} {
		opts, ok := detectProviderFromEnv(providerID)
		if !ok {
			continue
		}
		if p, ok := c.Providers[providerID]; ok {
			opts = mergeOptions(opts, p.Options)
		}
		return providerID, opts, nil
	}

	for providerID, p := range c.Providers {
		if p.Options.APIKey != "" {
			return providerID, mergeOptions(ProviderDefaults[providerID], p.Options), nil
		}
	}

	return "", ProviderOptions{}, fmt.Errorf("no provider configured or detected")
}

func detectProviderFromEnv(providerID string) (ProviderOptions, bool) {
	envVars, ok := ProviderEnvVars[providerID]
	if !ok {
		return ProviderOptions{}, false
	}

	var apiKey string
	for _, envVar := range envVars.APIKey {
		if v := os.Getenv(envVar); v != "" {
			apiKey = v
			break
		}
	}
	if apiKey == "" {
		return ProviderOptions{}, false
	}

	opts := ProviderDefaults[providerID]
	opts.APIKey = apiKey
	for _, envVar := range envVars.BaseURL {
		if v := os.Getenv(envVar); v != "" {
			opts.BaseURL = v
			break
		}
	}
	for _, envVar := range envVars.Model {
		if v := os.Getenv(envVar); v != "" {
			opts.Model = v
			break
		}
	}
	return opts, true
}

// mergeOptions merges two ProviderOptions, with 'override' taking precedence.
func mergeOptions(base, override ProviderOptions) ProviderOptions {
	result := base
	if override.APIKey != "" {
		result.APIKey = override.APIKey
	}
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Temperature > 0 {
		result.Temperature = override.Temperature
	}
	if override.MaxTokens != 0 {
		result.MaxTokens = override.MaxTokens
	}
	return result
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:   "INFO",
		Mode:       "mission",
		Providers:  make(map[string]ProviderConfig),
		HTTP:       HTTPConfig{Addr: ":8080"},
		MissionDir: ".px4agent/missions",
		Agent: AgentConfig{
			MaxMissionItems:          25,
			AutoValidate:             true,
			AutoAddMissingTakeoff:    true,
			AutoAddMissingRTL:        true,
			AutoCompleteParameters:   true,
			DefaultDistanceUnits:     "meters",
			DefaultDetectionBehavior: "tag_and_continue",
			Takeoff:                  CommandDefaults{Altitude: 50, AltitudeUnits: "meters"},
			Waypoint:                 CommandDefaults{Altitude: 100, AltitudeUnits: "meters"},
			Loiter:                   CommandDefaults{Altitude: 100, AltitudeUnits: "meters", Radius: 120, RadiusUnits: "meters"},
			Survey:                   CommandDefaults{Altitude: 100, AltitudeUnits: "meters", Radius: 400, RadiusUnits: "meters"},
			RTL:                      CommandDefaults{Altitude: 50, AltitudeUnits: "meters"},
		},
		Takeoff: TakeoffDefaults{
			Heading:       "north",
			Altitude:      50,
			AltitudeUnits: "meters",
		},
		CurrentAction: CurrentActionDefaults{
			Type:              "takeoff",
			Altitude:          150,
			AltitudeUnits:     "feet",
			Radius:            400,
			RadiusUnits:       "feet",
			DetectionBehavior: "tag_and_continue",
		},
	}
}

// Load reads configuration from the specified path, or defaults if path is empty.
// Priority: Env Vars > Config File > Defaults
func Load(path string) (*Config, error) {
	// Try loading .env files (ignore error if not present)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			defaultPath := filepath.Join(home, ".px4agent", "config.yaml")
			if _, err := os.Stat(defaultPath); err == nil {
				path = defaultPath
			}
		}
		localPath := "config.yaml"
		if _, err := os.Stat(localPath); err == nil {
			path = localPath
		}
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := validateWithCue(data); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Process Env Vars (PX4AGENT_ prefix); overrides file values.
	if err := envconfig.Process("PX4AGENT", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}

	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	return cfg, nil
}

// Clone returns a deep copy suitable for copy-modify-swap updates.
func (c *Config) Clone() *Config {
	out := *c
	out.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for k, v := range c.Providers {
		out.Providers[k] = v
	}
	return &out
}
