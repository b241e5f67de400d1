package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
	tmos "github.com/tendermint/tendermint/libs/os"
)

type Config struct {
	*tmcfg.Config
	ChainID string
}

func DefaultConfig() *Config {
	return &Config{
		Config: tmcfg.DefaultConfig(),
	}
}

func (c *Config) SetRoot(root string) *Config {
	c.Config.SetRoot(root)
	return c
}

func (c *Config) LoadWith(v *viper.Viper) error {
	if err := v.Unmarshal(c.Config); err != nil {
		return err
	}
	return c.Config.ValidateBasic()
}

// DefaultConfigWith reads config.toml under rootDir when it exists.
func DefaultConfigWith(rootDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.SetRoot(rootDir)

	tomlPath := filepath.Join(rootDir, "config", "config.toml")
	if tmos.FileExists(tomlPath) {
		v := viper.New()
		v.SetConfigFile(tomlPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := cfg.LoadWith(v); err != nil {
			return nil, err
		}
		cfg.SetRoot(rootDir)
	}
	return cfg, nil
}

func (c *Config) DBDir() string {
	return c.Config.DBDir()
}

// TmpConfig returns a config rooted at a throwaway directory. Test helper.
func TmpConfig(pattern string) *Config {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		panic(err)
	}
	cfg := DefaultConfig()
	cfg.SetRoot(dir)
	if err := os.MkdirAll(cfg.DBDir(), 0o700); err != nil {
		panic(err)
	}
	return cfg
}
