// Package config reads and writes the nulldot profile.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jpicht/nulldot/lib/keystream"
	"github.com/jpicht/nulldot/lib/nulldot"
	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v3"
)

// Profile selects symbols, variant and keystream of a codec. Empty fields
// fall back to the defaults.
type Profile struct {
	Zero          string `yaml:"zero,omitempty"`
	One           string `yaml:"one,omitempty"`
	CharDelimiter string `yaml:"char-delimiter,omitempty"`
	WordDelimiter string `yaml:"word-delimiter,omitempty"`
	Variant       string `yaml:"variant,omitempty"`
	Hash          string `yaml:"hash,omitempty"`
	Legacy        bool   `yaml:"legacy,omitempty"`

	// path is the file path used for reading and writing this profile.
	path string `yaml:"-"`
}

// Symbols returns the configured symbols, defaults filled in
func (p *Profile) Symbols() nulldot.Symbols {
	s := nulldot.DefaultSymbols
	if p.Zero != "" {
		s.Zero = p.Zero
	}
	if p.One != "" {
		s.One = p.One
	}
	if p.CharDelimiter != "" {
		s.CharDelimiter = p.CharDelimiter
	}
	if p.WordDelimiter != "" {
		s.WordDelimiter = p.WordDelimiter
	}
	return s
}

// Codec builds the codec described by the profile
func (p *Profile) Codec() (*nulldot.Codec, error) {
	variant := nulldot.Classic7
	if p.Variant != "" {
		v, err := nulldot.VariantByName(p.Variant)
		if err != nil {
			return nil, err
		}
		variant = v
	}

	var source nulldot.Source = keystream.Legacy{}
	if !p.Legacy {
		h, err := keystream.HasherByName(p.Hash)
		if err != nil {
			return nil, err
		}
		source = keystream.New(h)
	} else if p.Hash != "" {
		return nil, fmt.Errorf("%w: legacy keystream always uses sha512", nulldot.ERR_INVALID_CONFIGURATION)
	}

	return nulldot.New(
		nulldot.WithSymbols(p.Symbols()),
		nulldot.WithVariant(variant),
		nulldot.WithSource(source),
	)
}

// Path is the file the profile was read from
func (p *Profile) Path() string {
	return p.path
}

// Write stores the profile where it was read from
func (p *Profile) Write() error {
	path := p.path
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}
	return p.WriteFile(path)
}

// WriteFile stores the profile atomically at path
func (p *Profile) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	if err := encoder.Encode(p); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	p.path = path
	return nil
}

// Read loads the profile at path. An empty path reads the default
// location, which may be missing.
func Read(path string) (p Profile, err error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Profile{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) && path == "" {
			return Profile{path: resolved}, nil
		}
		return Profile{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("decode config: %w", err)
	}
	p.path = resolved
	return p, nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		return DefaultPath()
	}
	return homedir.Expand(path)
}

// DefaultPath is $HOME/.nulldot/config
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".nulldot", "config"), nil
}
