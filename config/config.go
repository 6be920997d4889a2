package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Classifier struct {
		Provider       string `yaml:"provider"` // "huggingface" or "gemini"
		BaseURL        string `yaml:"baseUrl"`
		SentimentModel string `yaml:"sentimentModel"`
		EmotionModel   string `yaml:"emotionModel"`
		APIToken       string `yaml:"apiToken"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		MaxRetries     int    `yaml:"maxRetries"`
	} `yaml:"classifier"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		MaxMessages   int `yaml:"maxMessages"`
		WindowSeconds int `yaml:"windowSeconds"`
	} `yaml:"rateLimit"`

	Logging struct {
		Level  string `yaml:"level"`  // debug, info, warn, error
		Format string `yaml:"format"` // json or console
	} `yaml:"logging"`
}

// LoadConfig reads the configuration file, fills in defaults and applies
// environment overrides for secrets. A .env file next to the binary is
// loaded first when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Classifier.Provider == "" {
		cfg.Classifier.Provider = "huggingface"
	}
	if cfg.Classifier.BaseURL == "" {
		cfg.Classifier.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Classifier.SentimentModel == "" {
		cfg.Classifier.SentimentModel = "distilbert-base-uncased-finetuned-sst-2-english"
	}
	if cfg.Classifier.EmotionModel == "" {
		cfg.Classifier.EmotionModel = "j-hartmann/emotion-english-distilroberta-base"
	}
	if cfg.Classifier.TimeoutSeconds == 0 {
		cfg.Classifier.TimeoutSeconds = 15
	}
	if cfg.Classifier.MaxRetries == 0 {
		cfg.Classifier.MaxRetries = 3
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.RateLimit.MaxMessages == 0 {
		cfg.RateLimit.MaxMessages = 20
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HF_API_TOKEN"); v != "" {
		cfg.Classifier.APIToken = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.ApiKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}
