package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	name, err := ExpandHome(name)
	if err != nil {
		return out, err
	}

	dirname := filepath.Dir(name)
	basename := filepath.Base(name)
	prefixname, ext := splitExt(basename)

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}

	return out, nil
}

// ReadConfigOr is ReadConfig, except that missing files leave `defaults` as is
// and present files are merged on top of it.
func ReadConfigOr[T any](name string, defaults T) (T, error) {
	read, err := ReadConfig[T](name)
	if os.IsNotExist(err) {
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}
	err = mergo.Merge(&defaults, read, mergo.WithOverride)
	if err != nil {
		return defaults, err
	}
	return defaults, nil
}

// LoadEnv loads every existing dotenv file into the process environment,
// variables that are already set are never overwritten.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		p, err := ExpandHome(p)
		if err != nil {
			return err
		}
		_, err = os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		err = godotenv.Load(p)
		if err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		slog.Debug("loaded environment file", "path", p)
	}
	return nil
}
