package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvAccount    = "SETLIST_SYNC_ACCOUNT"
	EnvAccountKey = "SETLIST_SYNC_ACCOUNT_KEY"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Library LibraryConfig `yaml:"library"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	Account    string `yaml:"account"`
	AccountKey string `yaml:"account_key"`

	// Endpoint defaults to https://<account>.blob.core.windows.net
	Endpoint   string `yaml:"endpoint"`
	APIVersion string `yaml:"api_version"`

	LegacyContainer  string `yaml:"legacy_container"`
	CurrentContainer string `yaml:"current_container"`

	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Embed song binaries in uploaded exports
	IncludeFileData bool `yaml:"include_file_data"`
}

type LibraryConfig struct {
	DBPath   string `yaml:"db_path"`
	FilesDir string `yaml:"files_dir"`
}

// Timeout returns the per-request timeout.
func (s StorageConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	// Secrets may come from the environment instead of the file
	if account := os.Getenv(EnvAccount); account != "" {
		config.Storage.Account = account
	}
	if key := os.Getenv(EnvAccountKey); key != "" {
		config.Storage.AccountKey = key
	}

	config.setDefaults()
	return config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Storage.APIVersion == "" {
		c.Storage.APIVersion = "2019-12-12"
	}

	if c.Storage.LegacyContainer == "" {
		c.Storage.LegacyContainer = "songlists"
	}

	if c.Storage.CurrentContainer == "" {
		c.Storage.CurrentContainer = "setlists"
	}

	if c.Storage.TimeoutSeconds <= 0 {
		c.Storage.TimeoutSeconds = 60
	}

	if c.Library.DBPath == "" {
		c.Library.DBPath = "data/library.sqlite3"
	}

	if c.Library.FilesDir == "" {
		c.Library.FilesDir = "data/songs"
	}
}
