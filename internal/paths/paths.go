// Package paths resolves which store file a command operates on. The
// resolved path is always passed explicitly into the store and graph
// layers; nothing in the module reads it from a global.
package paths

import (
	"os"
	"path/filepath"
)

// Store file names in the working directory. The legacy name is the
// line-format file a pre-migration installation left behind.
const (
	DefaultFileName = ".readyq.md"
	LegacyFileName  = ".readyq.jsonl"
)

// EnvFile overrides the default store file location.
const EnvFile = "READYQ_FILE"

// ResolveFile returns the store file to use, by precedence: the --file
// flag, the config file value, the READYQ_FILE environment variable, and
// finally the default name in the working directory. While a legacy
// line-format file exists and the document-format file does not, the
// default resolves to the legacy file so existing stores keep working
// until they are migrated.
func ResolveFile(flagValue, configValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if configValue != "" {
		return configValue, nil
	}
	if env := os.Getenv(EnvFile); env != "" {
		return env, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	def := filepath.Join(cwd, DefaultFileName)
	legacy := filepath.Join(cwd, LegacyFileName)
	if !exists(def) && exists(legacy) {
		return legacy, nil
	}
	return def, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
