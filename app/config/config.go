package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Log      Log      `yaml:"log"`
	OpenAI   OpenAI   `yaml:"openai"`
	Agent    Agent    `yaml:"agent"`
	Wellness Wellness `yaml:"wellness"`
	Coffee   Coffee   `yaml:"coffee"`
	Voice    Voice    `yaml:"voice"`
	Server   Server   `yaml:"server"`
}

type OpenAI struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required,url"`
	// OpenAI token, OPENAI_API_KEY overrides it
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// OpenAI model
	Model string `yaml:"model" example:"google/gemini-2.5-flash" validate:"required"`
}

type Agent struct {
	// Max tool-use iterations per user turn
	MaxIterations int `yaml:"max_iterations" example:"6" validate:"min=1"`
	// Timeout for a single user turn
	TurnTimeout time.Duration `yaml:"turn_timeout" example:"30s" validate:"min=1s"`
}

type Wellness struct {
	// Path of the JSON array check-in log
	LogFile string `yaml:"log_file" example:"data/wellness_log.json" validate:"required"`
	// Guard the log with an advisory lock file
	Lock bool `yaml:"lock" example:"true"`
	// Permitted mood values, empty means free text
	Moods []string `yaml:"moods"`
	// Permitted energy values, empty means free text
	Energies []string `yaml:"energies"`
}

type Coffee struct {
	// Directory with one JSON file per order
	OrdersDir string `yaml:"orders_dir" example:"orders" validate:"required"`
	// Shop name used in the greeting
	ShopName string `yaml:"shop_name" example:"Brew Haven"`
	Menu     Menu   `yaml:"menu"`
}

// Menu lists permitted values per order field. An empty list accepts free text.
type Menu struct {
	Drinks []string `yaml:"drinks"`
	Sizes  []string `yaml:"sizes"`
	Milks  []string `yaml:"milks"`
	Extras []string `yaml:"extras"`
}

type Voice struct {
	// ffmpeg input, e.g. a stream url or "default" for the pulse source
	Input string `yaml:"input" example:"default"`
	// ffmpeg input format, empty lets ffmpeg probe
	InputFormat string `yaml:"input_format" example:"pulse"`
	// Recognition language
	Language string `yaml:"language" example:"en-US" validate:"required"`
	// Yandex Cloud service account key file
	KeyFile string `yaml:"key_file" example:"service-account-key.json" validate:"required"`
}

type Server struct {
	// Records API listen address
	Addr string `yaml:"addr" example:":8080" validate:"required"`
	// MCP streamable HTTP listen address
	MCPAddr string `yaml:"mcp_addr" example:":8081" validate:"required"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

// Load reads the YAML config at path. A missing file is not an error: every field
// has a default and secrets may come from the environment.
func Load(path string) (*Config, error) {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}

	var result Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	applyDefaults(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyDefaults(cfg *Config) {
	if token := os.Getenv("OPENAI_API_KEY"); token != "" {
		cfg.OpenAI.Token = token
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.Agent.MaxIterations == 0 {
		cfg.Agent.MaxIterations = 6
	}
	if cfg.Agent.TurnTimeout == 0 {
		cfg.Agent.TurnTimeout = 30 * time.Second
	}
	if cfg.Wellness.LogFile == "" {
		cfg.Wellness.LogFile = filepath.Join("data", "wellness_log.json")
	}
	if cfg.Coffee.OrdersDir == "" {
		cfg.Coffee.OrdersDir = "orders"
	}
	if cfg.Coffee.ShopName == "" {
		cfg.Coffee.ShopName = "the coffee shop"
	}
	if cfg.Voice.Language == "" {
		cfg.Voice.Language = "en-US"
	}
	if cfg.Voice.KeyFile == "" {
		cfg.Voice.KeyFile = "service-account-key.json"
	}
	if cfg.Voice.Input == "" {
		cfg.Voice.Input = "default"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MCPAddr == "" {
		cfg.Server.MCPAddr = ":8081"
	}
}
