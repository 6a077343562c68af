package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/haru/pkg/theme"
)

// Config exposes the settings the planner reads at startup.
type Config interface {
	// BasePath is the directory backing the local durable store.
	BasePath() string
	// Remote names the sync backend: "file", "charm", or "off".
	Remote() string
	// Theme names the accent theme used for new identities.
	Theme() string
}

// LoadConfig reads settings the usual way: defaults first, then a .haru
// config file, then HARU_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.haru.db")
	viper.SetDefault("remote", "file")
	viper.SetDefault("theme", theme.Default)
	viper.SetConfigName(".haru") // .yaml is implicit
	viper.SetEnvPrefix("HARU")
	viper.AutomaticEnv()

	if override := os.Getenv("HARU_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:      path,
		Backend:   viper.GetString("remote"),
		ThemeName: viper.GetString("theme"),
	}, nil
}

type fileConfig struct {
	Path      string `json:"path"`
	Backend   string `json:"remote"`
	ThemeName string `json:"theme"`
}

func (f *fileConfig) BasePath() string { return f.Path }
func (f *fileConfig) Remote() string   { return f.Backend }
func (f *fileConfig) Theme() string    { return f.ThemeName }

// StaticConfig is a fixed-value Config for tests and embedders.
type StaticConfig struct {
	Path    string
	Backend string
	Accent  string
}

func (s StaticConfig) BasePath() string { return s.Path }
func (s StaticConfig) Remote() string   { return s.Backend }
func (s StaticConfig) Theme() string    { return s.Accent }
