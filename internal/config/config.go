package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "PUBMEDBOT_CONFIG"
	twitterAPIKeyEnv    = "TWITTER_API_KEY"
	twitterAPISecretEnv = "TWITTER_API_SECRET"
	twitterTokenEnv     = "TWITTER_BEARER_TOKEN"
	botUsernameEnv      = "BOT_USERNAME"
	pubmedBaseURLEnv    = "PUBMED_BASE_URL"
	logLevelEnv         = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Twitter     TwitterConfig     `yaml:"twitter"`
	PubMed      PubMedConfig      `yaml:"pubmed"`
	Bot         BotConfig         `yaml:"bot"`
	Personality PersonalityConfig `yaml:"personality"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TwitterConfig wires all data required to talk to the platform API.
type TwitterConfig struct {
	APIKey      string `yaml:"apiKey"`
	APISecret   string `yaml:"apiSecret"`
	BearerToken string `yaml:"bearerToken"`
	Username    string `yaml:"username"`
}

// PubMedConfig describes the research database endpoints.
type PubMedConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	ArticleURL string `yaml:"articleUrl"`
}

// BotConfig groups the discovery and posting cadence knobs.
type BotConfig struct {
	Topics            []string      `yaml:"topics"`
	TopicsPerPass     int           `yaml:"topicsPerPass"`
	CandidatesPerHunt int           `yaml:"candidatesPerHunt"`
	DailyCap          int           `yaml:"dailyCap"`
	QueueCap          int           `yaml:"queueCap"`
	MinPostInterval   time.Duration `yaml:"minPostInterval"`
	DiscoveryInterval time.Duration `yaml:"discoveryInterval"`
	DrainInterval     time.Duration `yaml:"drainInterval"`
	MentionPoll       time.Duration `yaml:"mentionPoll"`
	ReplyDelay        time.Duration `yaml:"replyDelay"`
}

// PersonalityConfig is the static persona document, loaded once at startup
// and treated as read-only afterwards.
type PersonalityConfig struct {
	Name             string              `yaml:"name"`
	Bio              string              `yaml:"bio"`
	Persona          PersonaConfig       `yaml:"persona"`
	Vocabulary       map[string][]string `yaml:"vocabulary"`
	TopicEnthusiasm  []TopicEnthusiasm   `yaml:"topicEnthusiasm"`
	EmojiSets        map[string][]string `yaml:"emojiSets"`
	ResponsePatterns map[string]string   `yaml:"responsePatterns"`
}

// PersonaConfig describes tone and the quirk transforms available to it.
type PersonaConfig struct {
	Tone   string   `yaml:"tone"`
	Quirks []string `yaml:"quirks"`
}

// TopicEnthusiasm is one ordered entry of the enthusiasm table. A list
// rather than a map so partial-match tie-breaking has a stable order.
type TopicEnthusiasm struct {
	Topic string  `yaml:"topic"`
	Level float64 `yaml:"level"`
}

// Load reads YAML configuration (if present), applies environment overrides
// and validates required credentials. A missing credential is fatal: the
// process must not proceed partially initialized.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(twitterAPIKeyEnv); v != "" {
		c.Twitter.APIKey = v
	}

	if v := os.Getenv(twitterAPISecretEnv); v != "" {
		c.Twitter.APISecret = v
	}

	if v := os.Getenv(twitterTokenEnv); v != "" {
		c.Twitter.BearerToken = v
	}

	if v := os.Getenv(botUsernameEnv); v != "" {
		c.Twitter.Username = v
	}

	if v := os.Getenv(pubmedBaseURLEnv); v != "" {
		c.PubMed.BaseURL = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) validate() error {
	if c.Twitter.BearerToken == "" {
		return fmt.Errorf("config: missing twitter bearer token (%s)", twitterTokenEnv)
	}
	if c.Twitter.Username == "" {
		return fmt.Errorf("config: missing bot username (%s)", botUsernameEnv)
	}
	if len(c.Bot.Topics) == 0 {
		return fmt.Errorf("config: no discovery topics configured")
	}
	if len(c.Personality.Vocabulary) == 0 {
		return fmt.Errorf("config: personality vocabulary is empty")
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Twitter.APIKey != "" {
		base.Twitter.APIKey = override.Twitter.APIKey
	}
	if override.Twitter.APISecret != "" {
		base.Twitter.APISecret = override.Twitter.APISecret
	}
	if override.Twitter.BearerToken != "" {
		base.Twitter.BearerToken = override.Twitter.BearerToken
	}
	if override.Twitter.Username != "" {
		base.Twitter.Username = override.Twitter.Username
	}

	if override.PubMed.BaseURL != "" {
		base.PubMed.BaseURL = override.PubMed.BaseURL
	}
	if override.PubMed.ArticleURL != "" {
		base.PubMed.ArticleURL = override.PubMed.ArticleURL
	}

	if len(override.Bot.Topics) > 0 {
		base.Bot.Topics = override.Bot.Topics
	}
	if override.Bot.TopicsPerPass > 0 {
		base.Bot.TopicsPerPass = override.Bot.TopicsPerPass
	}
	if override.Bot.CandidatesPerHunt > 0 {
		base.Bot.CandidatesPerHunt = override.Bot.CandidatesPerHunt
	}
	if override.Bot.DailyCap > 0 {
		base.Bot.DailyCap = override.Bot.DailyCap
	}
	if override.Bot.QueueCap > 0 {
		base.Bot.QueueCap = override.Bot.QueueCap
	}
	if override.Bot.MinPostInterval > 0 {
		base.Bot.MinPostInterval = override.Bot.MinPostInterval
	}
	if override.Bot.DiscoveryInterval > 0 {
		base.Bot.DiscoveryInterval = override.Bot.DiscoveryInterval
	}
	if override.Bot.DrainInterval > 0 {
		base.Bot.DrainInterval = override.Bot.DrainInterval
	}
	if override.Bot.MentionPoll > 0 {
		base.Bot.MentionPoll = override.Bot.MentionPoll
	}
	if override.Bot.ReplyDelay > 0 {
		base.Bot.ReplyDelay = override.Bot.ReplyDelay
	}

	if override.Personality.Name != "" {
		base.Personality = override.Personality
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		PubMed: PubMedConfig{
			BaseURL:    "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			ArticleURL: "https://pubmed.ncbi.nlm.nih.gov",
		},
		Bot: BotConfig{
			Topics: []string{
				"CRISPR gene editing",
				"cancer immunotherapy",
				"mRNA vaccines",
				"microbiome",
				"neurodegeneration",
				"antibiotic resistance",
				"stem cell therapy",
				"precision medicine",
			},
			TopicsPerPass:     5,
			CandidatesPerHunt: 5,
			DailyCap:          12,
			QueueCap:          50,
			MinPostInterval:   15 * time.Minute,
			DiscoveryInterval: time.Hour,
			DrainInterval:     30 * time.Second,
			MentionPoll:       2 * time.Minute,
			ReplyDelay:        2 * time.Second,
		},
		Personality: DefaultPersonality(),
	}
}
