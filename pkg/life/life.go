// Package life implements the Life Configuration store: the .life
// manifest describing which files and directories are tracked, plus the
// set algebra the reconciliation engine uses to decide what to copy.
//
// This package is the single writer of the manifest. Updates are pure
// functional: every operation returns a new Config and never mutates its
// arguments.
package life

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// Config is the parsed manifest. Files and Directories are sets of
// repository-relative paths; order is irrelevant in memory and sorted on
// disk for reproducible diffs.
type Config struct {
	Files       []string `toml:"files"`
	Directories []string `toml:"directories"`
	Branch      string   `toml:"branch"`
}

// New creates an empty configuration tracking the given branch
func New(branch string) *Config {
	return &Config{
		Files:       []string{},
		Directories: []string{},
		Branch:      branch,
	}
}

// Parse reads and decodes the manifest at path. A malformed manifest
// yields ErrConfigParse and the result is never partially populated.
func Parse(fs types.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read manifest %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "malformed manifest %s", path)
	}
	if cfg.Files == nil {
		cfg.Files = []string{}
	}
	if cfg.Directories == nil {
		cfg.Directories = []string{}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Persist serializes the configuration and writes it atomically: the
// content goes to a temp file in the same directory which is then
// renamed over the target, so a crash never leaves a truncated manifest.
func Persist(fs types.FS, cfg *Config, path string) error {
	out := cfg.normalized()
	data, err := toml.Marshal(out)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot serialize manifest")
	}

	tmp := path + ".tmp"
	if err := fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write manifest %s", tmp)
	}
	if err := fs.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot replace manifest %s", path)
	}
	return nil
}

// Merge unions the path sets of primary and other. The branch is taken
// from primary; this asymmetry is deliberate and relied upon by callers.
func Merge(primary, other *Config) *Config {
	return &Config{
		Files:       unionPaths(primary.Files, other.Files),
		Directories: unionPaths(primary.Directories, other.Directories),
		Branch:      primary.Branch,
	}
}

// Subtract removes from a every path present in minus. The branch is
// retained from a. The pull workflow uses this to exclude paths the
// operator is mid-editing from being clobbered.
func Subtract(a, minus *Config) *Config {
	return &Config{
		Files:       diffPaths(a.Files, minus.Files),
		Directories: diffPaths(a.Directories, minus.Directories),
		Branch:      a.Branch,
	}
}

// Insert adds one path to the set matching kind. Inserting an already
// tracked path is a no-op on content, not an error.
func Insert(cfg *Config, rel string, kind types.PathKind) *Config {
	out := cfg.clone()
	switch kind {
	case types.PathDirectory:
		out.Directories = unionPaths(out.Directories, []string{rel})
	default:
		out.Files = unionPaths(out.Files, []string{rel})
	}
	return out
}

// Remove drops rel from both sets; removing an untracked path is a no-op
func Remove(cfg *Config, rel string) *Config {
	out := cfg.clone()
	out.Files = diffPaths(out.Files, []string{rel})
	out.Directories = diffPaths(out.Directories, []string{rel})
	return out
}

// Contains reports whether rel is tracked as a file or a directory
func (c *Config) Contains(rel string) bool {
	return containsPath(c.Files, rel) || containsPath(c.Directories, rel)
}

// Empty reports whether no path is tracked
func (c *Config) Empty() bool {
	return len(c.Files) == 0 && len(c.Directories) == 0
}

func (c *Config) clone() *Config {
	out := &Config{
		Files:       make([]string, len(c.Files)),
		Directories: make([]string, len(c.Directories)),
		Branch:      c.Branch,
	}
	copy(out.Files, c.Files)
	copy(out.Directories, c.Directories)
	return out
}

// normalized returns a sorted copy for deterministic serialization
func (c *Config) normalized() *Config {
	out := c.clone()
	sort.Strings(out.Files)
	sort.Strings(out.Directories)
	return out
}

func (c *Config) validate() error {
	if c.Branch == "" {
		return errors.New(errors.ErrConfigValid, "manifest has no branch")
	}
	if strings.ContainsRune(c.Branch, filepath.Separator) {
		return errors.Newf(errors.ErrConfigValid, "branch %q contains a path separator", c.Branch)
	}
	for _, p := range append(append([]string{}, c.Files...), c.Directories...) {
		if filepath.IsAbs(p) {
			return errors.Newf(errors.ErrConfigValid, "tracked path %q is absolute", p)
		}
		if p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
			return errors.Newf(errors.ErrConfigValid, "tracked path %q escapes the repository", p)
		}
	}
	for _, f := range c.Files {
		if containsPath(c.Directories, f) {
			return errors.Newf(errors.ErrConfigValid, "path %q tracked as both file and directory", f)
		}
	}
	return nil
}

func containsPath(set []string, p string) bool {
	for _, s := range set {
		if s == p {
			return true
		}
	}
	return false
}

func unionPaths(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	for _, p := range b {
		if !containsPath(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func diffPaths(a, minus []string) []string {
	out := make([]string, 0, len(a))
	for _, p := range a {
		if !containsPath(minus, p) {
			out = append(out, p)
		}
	}
	return out
}
