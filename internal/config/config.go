// Package config loads docchat settings from a TOML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/docchat/internal/extract"
	"github.com/abhisek/docchat/internal/llm"
	"github.com/abhisek/docchat/internal/logger"
)

// Config is the full application configuration.
type Config struct {
	LLM      llm.Config     `toml:"llm"`
	Upload   UploadConfig   `toml:"upload"`
	Log      logger.Config  `toml:"log"`
	Database DatabaseConfig `toml:"database"`

	// Path is the config file that was read, or "" when none was found.
	Path string `toml:"-"`

	// Unknown lists keys in the file that matched no setting.
	Unknown []string `toml:"-"`
}

type UploadConfig struct {
	MaxSizeMB int `toml:"max_size_mb" validate:"gt=0"`
}

type DatabaseConfig struct {
	// Path of the SQLite file. Empty means store.DefaultDBPath.
	Path string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:    llm.DefaultConfig(),
		Upload: UploadConfig{MaxSizeMB: extract.DefaultMaxSizeMB},
		Log:    logger.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/docchat/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "docchat", "config.toml")
}

// Load reads configuration. An explicit path must exist; otherwise
// DOCCHAT_CONFIG or DefaultPath is tried and a missing file is not an
// error. A .env file in the working directory is loaded into the process
// environment first without overriding variables that are already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("DOCCHAT_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			cfg.Path = path
			for _, k := range md.Undecoded() {
				cfg.Unknown = append(cfg.Unknown, k.String())
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.ApplyEnv()

	if v := os.Getenv("DOCCHAT_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("DOCCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DOCCHAT_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if n, err := strconv.Atoi(os.Getenv("DOCCHAT_MAX_UPLOAD_MB")); err == nil {
		c.Upload.MaxSizeMB = n
	}
}

// validate reports fields by their TOML key path so errors point at the
// file, e.g. "upload.max_size_mb".
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate checks settings that do not depend on the LLM provider. A
// missing API key is reported later, when a provider is built.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	key := fe.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest
	}
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", key, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", key, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s fails %q", key, fe.Tag())
	}
}
