package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/Yates-Labs/recap/internal/render"
)

// DefaultConfigFile is read when no explicit config path is given and the file exists.
const DefaultConfigFile = "recap.yaml"

var ErrMissingConfig = errors.New("missing required configuration")

// Config holds every setting of a recap run.
type Config struct {
	// Notion
	NotionAPIKey  string        `yaml:"notion_api_key"`
	DatabaseID    string        `yaml:"database_id"`
	NotionVersion string        `yaml:"notion_version"`
	NotionTimeout time.Duration `yaml:"notion_timeout"`

	// Summarizer selects the backend: command, openai or gemini
	Summarizer        string        `yaml:"summarizer"`
	SummarizerScript  string        `yaml:"summarizer_script"`
	SummarizerPython  string        `yaml:"summarizer_python"`
	SummarizerTimeout time.Duration `yaml:"summarizer_timeout"`
	OpenAIAPIKey      string        `yaml:"openai_api_key"`
	OpenAIModel       string        `yaml:"openai_model"`
	GeminiAPIKey      string        `yaml:"gemini_api_key"`
	GeminiModel       string        `yaml:"gemini_model"`

	// Rendering
	ChunkSize          int      `yaml:"chunk_size"`
	MaxTranscriptChars int      `yaml:"max_transcript_chars"`
	Divider            bool     `yaml:"divider"`
	Denylist           []string `yaml:"denylist"`

	// Feed ingestion
	TranscriptAPIKey string `yaml:"transcript_api_key"`
	ChannelsPath     string `yaml:"channels_path"`
	Timezone         string `yaml:"timezone"`

	LogMode string `yaml:"log_mode"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		NotionVersion:      "2022-06-28",
		NotionTimeout:      30 * time.Second,
		Summarizer:         "command",
		SummarizerScript:   "/home/azureuser/gemini_bot.py",
		SummarizerPython:   "python",
		SummarizerTimeout:  5 * time.Minute,
		OpenAIModel:        "gpt-4o",
		GeminiModel:        "gemini-2.5-flash",
		ChunkSize:          1500,
		MaxTranscriptChars: 60000,
		Divider:            true,
		ChannelsPath:       "channels.json",
		Timezone:           "Asia/Taipei",
		LogMode:            "dev",
	}
}

// Load builds the configuration from, in increasing precedence: defaults, the YAML file at
// path (or DefaultConfigFile if present), and environment variables. A .env file in the
// working directory is loaded into the environment first without overriding it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.TranscriptAPIKey == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.TranscriptAPIKey = openClawKey(filepath.Join(home, ".openclaw", "openclaw.json"))
		}
	}

	cfg.normalize()
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.NotionAPIKey = envOr("NOTION_API_KEY", cfg.NotionAPIKey)
	cfg.DatabaseID = envOr("YTSUMMARY_NOTION_DATABASE_ID", cfg.DatabaseID)
	cfg.NotionVersion = envOr("NOTION_VERSION", cfg.NotionVersion)
	cfg.NotionTimeout = envDuration("NOTION_TIMEOUT", cfg.NotionTimeout)

	cfg.Summarizer = envOr("RECAP_SUMMARIZER", cfg.Summarizer)
	cfg.SummarizerScript = envOr("GEMINI_BOT", cfg.SummarizerScript)
	cfg.SummarizerPython = envOr("GEMINI_BOT_PYTHON", cfg.SummarizerPython)
	cfg.SummarizerTimeout = envDuration("SUMMARIZER_TIMEOUT", cfg.SummarizerTimeout)
	cfg.OpenAIAPIKey = envOr("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = envOr("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.GeminiAPIKey = envOr("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = envOr("GEMINI_MODEL", cfg.GeminiModel)

	cfg.ChunkSize = envInt("RECAP_CHUNK_SIZE", cfg.ChunkSize)
	cfg.MaxTranscriptChars = envInt("RECAP_MAX_TRANSCRIPT_CHARS", cfg.MaxTranscriptChars)
	cfg.Divider = envBool("RECAP_DIVIDER", cfg.Divider)
	if v := os.Getenv("RECAP_DENYLIST"); v != "" {
		cfg.Denylist = splitList(v)
	}

	cfg.TranscriptAPIKey = envOr("TRANSCRIPT_API_KEY", cfg.TranscriptAPIKey)
	cfg.ChannelsPath = envOr("RECAP_CHANNELS", cfg.ChannelsPath)
	cfg.Timezone = envOr("RECAP_TIMEZONE", cfg.Timezone)
	cfg.LogMode = envOr("LOG_MODE", cfg.LogMode)
}

// normalize restores defaults for values that cannot be valid.
func (c *Config) normalize() {
	def := Default()
	c.ChunkSize = render.ClampChunkSize(c.ChunkSize)
	if c.MaxTranscriptChars <= 0 {
		c.MaxTranscriptChars = def.MaxTranscriptChars
	}
	if c.NotionTimeout <= 0 {
		c.NotionTimeout = def.NotionTimeout
	}
	if c.SummarizerTimeout <= 0 {
		c.SummarizerTimeout = def.SummarizerTimeout
	}
	if c.NotionVersion == "" {
		c.NotionVersion = def.NotionVersion
	}
	c.Summarizer = strings.ToLower(strings.TrimSpace(c.Summarizer))
}

// ValidateStore checks the settings needed to talk to Notion at all.
func (c Config) ValidateStore() error {
	if c.NotionAPIKey == "" {
		return fmt.Errorf("%w: NOTION_API_KEY is not set", ErrMissingConfig)
	}
	return nil
}

// ValidateDatabase checks the settings needed for commands that work on the database.
func (c Config) ValidateDatabase() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	if c.DatabaseID == "" {
		return fmt.Errorf("%w: YTSUMMARY_NOTION_DATABASE_ID is not set", ErrMissingConfig)
	}
	return nil
}

// openClawKey reads skills.entries.transcriptapi.apiKey from an OpenClaw settings file.
// Missing or malformed files yield an empty key.
func openClawKey(path string) string {
	data, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(data) {
		return ""
	}
	return gjson.GetBytes(data, "skills.entries.transcriptapi.apiKey").String()
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
