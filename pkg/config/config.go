package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	envFilePath string
	envFileMu   sync.RWMutex

	// exported holds the values this package copied into the environment,
	// so a file loaded later can replace them.
	exported   = map[string]string{}
	exportedMu sync.Mutex
)

// SetEnvFile points later New calls at an explicit .env file. An empty path
// restores the default of loading ./.env when it exists.
func SetEnvFile(path string) {
	envFileMu.Lock()
	defer envFileMu.Unlock()
	envFilePath = strings.TrimSpace(path)
}

func New[T any](prefix string) (*T, error) {
	filepath := resolveEnvPath()
	if filepath != "" {
		if err := exportEnvironment(filepath); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func resolveEnvPath() string {
	envFileMu.RLock()
	defer envFileMu.RUnlock()
	return envFilePath
}

func exportEnvironmentIfExists(filepath string) error {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(filepath)
}

// exportEnvironment copies the file's keys into the process environment.
// Variables set outside this package win over the file; values exported
// from an earlier file are replaced.
func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	exportedMu.Lock()
	defer exportedMu.Unlock()

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if current, exists := os.LookupEnv(key); exists {
			if prev, ours := exported[key]; !ours || prev != current {
				continue
			}
		}
		value := fmt.Sprint(val)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
		exported[key] = value
	}

	return nil
}
