package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized as overrides over the YAML file.
const (
	configPathEnv        = "DRAFTPILOT_CONFIG"
	geminiAPIKeyEnv      = "GEMINI_API_KEY"
	geminiModelEnv       = "GEMINI_MODEL"
	targetRecipientEnv   = "TARGET_RECIPIENT"
	maxPerCheckEnv       = "MAX_EMAILS_PER_CHECK"
	checkIntervalEnv     = "CHECK_INTERVAL_MINUTES"
	autoDraftEnv         = "AUTO_DRAFT_ENABLED"
	checkpointEnabledEnv = "CHECKPOINT_ENABLED"
	checkpointPathEnv    = "CHECKPOINT_PATH"
)

// Config holds all settings for the drafting pipeline.
type Config struct {
	Mailbox    MailboxConfig    `yaml:"mailbox"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Reply      ReplyConfig      `yaml:"reply"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// MailboxConfig controls which messages a run fetches and how fast it
// walks through them.
type MailboxConfig struct {
	// Account is the Google account name whose cached token is used.
	Account string `yaml:"account"`

	// TargetRecipient restricts processing to messages addressed to this
	// address. Empty means no filter.
	TargetRecipient string `yaml:"targetRecipient"`

	// MaxMessagesPerCheck bounds how many unread messages one run fetches.
	MaxMessagesPerCheck int `yaml:"maxMessagesPerCheck"`

	// CheckIntervalMinutes is the pause between runs in watch mode.
	CheckIntervalMinutes int `yaml:"checkIntervalMinutes"`

	// MessageDelaySeconds is the pause between messages within a run,
	// to respect provider rate limits.
	MessageDelaySeconds int `yaml:"messageDelaySeconds"`
}

// CheckInterval returns the watch-mode pause as a duration.
func (m MailboxConfig) CheckInterval() time.Duration {
	return time.Duration(m.CheckIntervalMinutes) * time.Minute
}

// MessageDelay returns the inter-message pause as a duration.
func (m MailboxConfig) MessageDelay() time.Duration {
	return time.Duration(m.MessageDelaySeconds) * time.Second
}

// PromptConfig bounds how much thread text is sent to a remote analyzer.
type PromptConfig struct {
	// MaxThreadMessages is the number of most recent messages included.
	MaxThreadMessages int `yaml:"maxThreadMessages"`

	// MaxThreadChars caps the serialized thread text length. Truncation
	// happens after concatenation, cutting from the end.
	MaxThreadChars int `yaml:"maxThreadChars"`
}

// AnalyzerConfig describes the remote generative analyzer.
type AnalyzerConfig struct {
	APIKey          string  `yaml:"apiKey"`
	Model           string  `yaml:"model"`
	Endpoint        string  `yaml:"endpoint"`
	Temperature     float64 `yaml:"temperature"`
	TopP            float64 `yaml:"topP"`
	MaxOutputTokens int     `yaml:"maxOutputTokens"`

	// CallBudget is the maximum number of remote analysis calls per run.
	// Once exhausted, remaining threads get the heuristic analysis.
	CallBudget int `yaml:"callBudget"`

	// TimeoutSeconds bounds each remote call.
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// Timeout returns the per-call timeout as a duration.
func (a AnalyzerConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Configured reports whether a remote analyzer can be used at all.
func (a AnalyzerConfig) Configured() bool {
	return a.APIKey != ""
}

// ReplyConfig controls draft composition.
type ReplyConfig struct {
	// AutoDraft enables draft creation. When false the pipeline still
	// classifies and marks messages read, but never writes a draft.
	AutoDraft bool `yaml:"autoDraft"`

	// Signature is appended locally to every generated or templated reply.
	Signature string `yaml:"signature"`

	// AgentName replaces the name placeholder in reply templates.
	AgentName string `yaml:"agentName"`
}

// CheckpointConfig controls cross-run progress tracking.
type CheckpointConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path of the checkpoint record. Empty selects a default under the
	// user cache directory.
	Path string `yaml:"path"`
}

// ClassifierConfig carries the sender special case and optional overrides
// for the category pattern tables.
type ClassifierConfig struct {
	// SpecialSender is the address that short-circuits classification.
	SpecialSender string `yaml:"specialSender"`

	// TriggerPhrase is the literal phrase that routes a special-sender
	// message to the dedicated category instead of the default.
	TriggerPhrase string `yaml:"triggerPhrase"`

	// Patterns optionally replaces the built-in per-category regex tables.
	// Keys are category names, values are regex pattern lists.
	Patterns map[string][]string `yaml:"patterns"`
}

// Default returns the production configuration before file and env
// overrides are applied.
func Default() Config {
	return Config{
		Mailbox: MailboxConfig{
			Account:              "default",
			MaxMessagesPerCheck:  10,
			CheckIntervalMinutes: 5,
			MessageDelaySeconds:  2,
		},
		Prompt: PromptConfig{
			MaxThreadMessages: 10,
			MaxThreadChars:    12000,
		},
		Analyzer: AnalyzerConfig{
			Model:           "gemini-1.5-flash",
			Endpoint:        "https://generativelanguage.googleapis.com/v1beta",
			Temperature:     0.2,
			TopP:            0.9,
			MaxOutputTokens: 1024,
			CallBudget:      20,
			TimeoutSeconds:  30,
		},
		Reply: ReplyConfig{
			AutoDraft: true,
		},
		Checkpoint: CheckpointConfig{
			Enabled: true,
		},
		Classifier: ClassifierConfig{
			SpecialSender: "mohak64bansal@gmail.com",
			TriggerPhrase: "query for pam",
		},
	}
}

// Load reads the configuration file at path (or $DRAFTPILOT_CONFIG when
// path is empty), applies environment overrides, and validates the result.
// A missing file is not an error; defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		cfg.Analyzer.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		cfg.Analyzer.Model = v
	}
	if v := os.Getenv(targetRecipientEnv); v != "" {
		cfg.Mailbox.TargetRecipient = v
	}
	if v, ok := envInt(maxPerCheckEnv); ok {
		cfg.Mailbox.MaxMessagesPerCheck = v
	}
	if v, ok := envInt(checkIntervalEnv); ok {
		cfg.Mailbox.CheckIntervalMinutes = v
	}
	if v, ok := envBool(autoDraftEnv); ok {
		cfg.Reply.AutoDraft = v
	}
	if v, ok := envBool(checkpointEnabledEnv); ok {
		cfg.Checkpoint.Enabled = v
	}
	if v := os.Getenv(checkpointPathEnv); v != "" {
		cfg.Checkpoint.Path = v
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Mailbox.MaxMessagesPerCheck <= 0 {
		return fmt.Errorf("mailbox.maxMessagesPerCheck must be positive, got %d", c.Mailbox.MaxMessagesPerCheck)
	}
	if c.Mailbox.CheckIntervalMinutes <= 0 {
		return fmt.Errorf("mailbox.checkIntervalMinutes must be positive, got %d", c.Mailbox.CheckIntervalMinutes)
	}
	if c.Prompt.MaxThreadMessages <= 0 {
		return fmt.Errorf("prompt.maxThreadMessages must be positive, got %d", c.Prompt.MaxThreadMessages)
	}
	if c.Prompt.MaxThreadChars <= 0 {
		return fmt.Errorf("prompt.maxThreadChars must be positive, got %d", c.Prompt.MaxThreadChars)
	}
	if c.Analyzer.CallBudget < 0 {
		return fmt.Errorf("analyzer.callBudget must not be negative, got %d", c.Analyzer.CallBudget)
	}
	if c.Analyzer.Configured() && c.Analyzer.Model == "" {
		return fmt.Errorf("analyzer.model is required when an API key is set")
	}
	return nil
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return parsed, true
}
