// Config loading for the readyq CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/readyq/internal/lockfile"
)

const (
	configFileName = ".readyq"
	configFileType = "yaml"

	// Config keys.
	cfgKeyFile        = "file"
	cfgKeyWebHost     = "web_host"
	cfgKeyWebPort     = "web_port"
	cfgKeyLockTimeout = "lock_timeout"

	defaultWebHost = "localhost"
	defaultWebPort = 8000
)

// loadConfig reads the config file using Viper. With no explicit path it
// looks for .readyq.yaml in the working directory and the home directory.
// A missing config file is not an error.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyWebHost, defaultWebHost)
	v.SetDefault(cfgKeyWebPort, defaultWebPort)
	v.SetDefault(cfgKeyLockTimeout, lockfile.DefaultTimeout)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// lockTimeout returns the configured lock acquisition timeout.
func lockTimeout() time.Duration {
	d := cfg.GetDuration(cfgKeyLockTimeout)
	if d <= 0 {
		return lockfile.DefaultTimeout
	}
	return d
}
