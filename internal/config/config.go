package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/models"
)

// Config struct is the top-level configuration structure.
type Config struct {
	Session models.SessionConfig `mapstructure:"session" yaml:"session"`
	Subject SubjectConfig        `mapstructure:"subject" yaml:"subject"`
	Output  OutputConfig         `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig        `mapstructure:"logging" yaml:"logging"`
	// Seed for cue and delay sampling. 0 picks a time-based seed.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

// SubjectConfig shapes the simulated subject used by dry runs.
type SubjectConfig struct {
	HitRate        float64       `mapstructure:"hit_rate" yaml:"hit_rate"`
	FalseAlarmRate float64       `mapstructure:"false_alarm_rate" yaml:"false_alarm_rate"`
	LatencyMean    time.Duration `mapstructure:"latency_mean" yaml:"latency_mean"`
	LatencyJitter  time.Duration `mapstructure:"latency_jitter" yaml:"latency_jitter"`
}

// OutputConfig holds where single-session exports are written. Empty
// paths disable the export.
type OutputConfig struct {
	TranscriptFile string `mapstructure:"transcript_file" yaml:"transcript_file"`
	ReportFile     string `mapstructure:"report_file" yaml:"report_file"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory    string `mapstructure:"directory" yaml:"directory"`
	MaxSize      int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups   int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge       int    `mapstructure:"max_age" yaml:"max_age"`
	Compress     bool   `mapstructure:"compress" yaml:"compress"`
	ConsoleLevel string `mapstructure:"console_level" yaml:"console_level"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	session := models.DefaultSessionConfig()

	// Session defaults
	v.SetDefault("session.total_trials", session.TotalTrials)
	v.SetDefault("session.reaction_deadline", session.ReactionDeadline)
	v.SetDefault("session.pre_stimulus_delay_min", session.PreStimulusDelayMin)
	v.SetDefault("session.pre_stimulus_delay_max", session.PreStimulusDelayMax)
	v.SetDefault("session.inter_trial_pause", session.InterTrialPause)
	v.SetDefault("seed", 0)

	// Simulated subject defaults
	v.SetDefault("subject.hit_rate", 0.9)
	v.SetDefault("subject.false_alarm_rate", 0.15)
	v.SetDefault("subject.latency_mean", 350*time.Millisecond)
	v.SetDefault("subject.latency_jitter", 120*time.Millisecond)

	// Output defaults
	v.SetDefault("output.transcript_file", "")
	v.SetDefault("output.report_file", "")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs
	v.SetDefault("logging.console_level", "warn")
}

// Manager owns the viper instance and the most recently loaded Config.
type Manager struct {
	v       *viper.Viper
	mu      sync.RWMutex
	current Config
}

// Init loads the configuration from configDir/config.yaml, environment
// variables prefixed with ATTSWITCH_, and defaults, in that order of
// precedence (env wins).
func Init(configDir string) (*Manager, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("ATTSWITCH") // e.g., ATTSWITCH_SESSION_TOTAL_TRIALS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &Manager{v: v, current: cfg}, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Session.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Current returns a copy of the active configuration.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Override lets command-line flags take precedence over every other source.
func (m *Manager) Override(key string, value any) error {
	m.v.Set(key, value)
	return m.reload()
}

// ConfigFile is the file the configuration was read from, if any.
func (m *Manager) ConfigFile() string {
	return m.v.ConfigFileUsed()
}

// Watch hot-reloads the configuration file. onChange receives each valid new
// configuration; invalid edits are logged and the previous one is kept.
func (m *Manager) Watch(log *zap.Logger, onChange func(Config)) {
	if m.v.ConfigFileUsed() == "" {
		log.Debug("No config file in use, hot reload disabled")
		return
	}

	m.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := m.reload(); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		if onChange != nil {
			onChange(m.Current())
		}
	})
	m.v.WatchConfig()
}

func (m *Manager) reload() error {
	cfg, err := decode(m.v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()
	return nil
}
