// Package config loads dotlife's tool configuration.
//
// Settings are layered: embedded defaults, then an optional user config
// file under the XDG config directory, then DOTLIFE_* environment
// variables. The manifest itself (the .life file) is not handled here,
// see pkg/life.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	dlerrors "github.com/arthur-debert/dotlife/pkg/errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// Settings holds the resolved tool configuration
type Settings struct {
	Manifest struct {
		// Name is the manifest file name in the home directory
		Name string `koanf:"name"`
	} `koanf:"manifest"`

	Repo struct {
		// Dir is the clone directory name directly under home
		Dir string `koanf:"dir"`
		// Branch is the default tracked branch for new configurations
		Branch string `koanf:"branch"`
	} `koanf:"repo"`

	Remote struct {
		// Host is the git hosting domain used to build clone URLs
		Host string `koanf:"host"`
		// Owner is the hosting account; set once via config or given
		// per-invocation on the command line
		Owner string `koanf:"owner"`
	} `koanf:"remote"`

	Github struct {
		// API is the REST endpoint base used to create repositories
		API string `koanf:"api"`
		// Token authenticates repository creation; usually set via
		// DOTLIFE_GITHUB_TOKEN
		Token string `koanf:"token"`
	} `koanf:"github"`
}

// Load resolves settings from defaults, the user config file and the
// environment, in that order of precedence.
func Load() (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, dlerrors.Wrap(err, dlerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file, if present
	userConfig := filepath.Join(xdg.ConfigHome, "dotlife", "config.toml")
	if _, err := os.Stat(userConfig); err == nil {
		if err := k.Load(file.Provider(userConfig), toml.Parser()); err != nil {
			return nil, dlerrors.Wrapf(err, dlerrors.ErrConfigLoad, "failed to load %s", userConfig)
		}
	}

	// 3. Environment: DOTLIFE_GITHUB_TOKEN -> github.token etc.
	if err := k.Load(env.Provider("DOTLIFE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DOTLIFE_")), "_", ".")
	}), nil); err != nil {
		return nil, dlerrors.Wrap(err, dlerrors.ErrConfigLoad, "failed to load environment")
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, dlerrors.Wrap(err, dlerrors.ErrConfigValid, "failed to unmarshal settings")
	}

	return &settings, nil
}

// rawBytesProvider implements koanf.Provider for in-memory bytes
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("rawBytesProvider does not support Read()")
}
