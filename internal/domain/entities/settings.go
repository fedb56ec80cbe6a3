package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultHiddenPrefix skips dot files and dot directories.
	DefaultHiddenPrefix = "."
	// DefaultSignalPrefix precedes every emitted path.
	DefaultSignalPrefix = "rerun-if-changed="

	manifestSuffix = ".manifest.yaml"
)

// Settings is the configuration of a staging run.
type Settings struct {
	Source       string         `yaml:"source"`
	Patches      string         `yaml:"patches"`
	Output       string         `yaml:"output"`
	Manifest     string         `yaml:"manifest"`
	HiddenPrefix *string        `yaml:"hidden_prefix"`
	Exclude      []string       `yaml:"exclude"`
	Features     []string       `yaml:"features"`
	Defines      []string       `yaml:"defines"`
	Debug        bool           `yaml:"debug"`
	Signals      SignalSettings `yaml:"signals"`
}

// SignalSettings configures build-dependency signals.
type SignalSettings struct {
	Prefix string `yaml:"prefix"`
	File   string `yaml:"file"`
}

// SignalTarget tells the signal sink where to write.
type SignalTarget struct {
	Disabled bool
	File     string // empty means standard output
	Prefix   string
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a settings file, expanding environment variables in paths.
// The result is not validated; call Validate once flag overrides are applied.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Source = expandEnv(settings.Source)
	settings.Patches = expandEnv(settings.Patches)
	settings.Output = expandEnv(settings.Output)
	settings.Manifest = expandEnv(settings.Manifest)
	settings.Signals.File = expandEnv(settings.Signals.File)

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".vendorpatch.yaml",
		".vendorpatch.yml",
		"vendorpatch.yaml",
		"vendorpatch.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// expandEnv expands ${VAR} references, warning about unset variables.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// Hidden returns the hidden-entry marker, defaulting to a dot.
func (it *Settings) Hidden() string {
	if it.HiddenPrefix == nil {
		return DefaultHiddenPrefix
	}
	return *it.HiddenPrefix
}

// BaseDefines returns the configured base defines or the defaults.
func (it *Settings) BaseDefines() []string {
	if len(it.Defines) == 0 {
		return DefaultBaseDefines
	}
	return it.Defines
}

// ManifestPath returns where the build manifest goes, next to the output by default.
func (it *Settings) ManifestPath() string {
	if it.Manifest != "" {
		return it.Manifest
	}
	output := filepath.Clean(it.Output)
	return filepath.Join(filepath.Dir(output), filepath.Base(output)+manifestSuffix)
}

// SignalTarget returns the signal destination configured in the settings.
func (it *Settings) SignalTarget() SignalTarget {
	prefix := it.Signals.Prefix
	if prefix == "" {
		prefix = DefaultSignalPrefix
	}
	return SignalTarget{File: it.Signals.File, Prefix: prefix}
}

// Profile resolves the build profile of the settings.
func (it *Settings) Profile() (*BuildProfile, error) {
	return NewBuildProfile(it.Features, it.BaseDefines(), it.Debug)
}

// Validate checks for required configuration values. Output is only required for staging.
func (it *Settings) Validate(requireOutput bool) error {
	if it.Source == "" {
		return errors.New("source is required")
	}
	if it.Patches == "" {
		return errors.New("patches is required")
	}
	if requireOutput && it.Output == "" {
		return errors.New("output is required")
	}
	if requireOutput && pathWithin(it.Output, it.Source) {
		return fmt.Errorf("output %q must not be inside source %q", it.Output, it.Source)
	}

	for i, pattern := range it.Exclude {
		if pattern == "" {
			return fmt.Errorf("exclude[%d] must not be empty", i)
		}
	}

	if _, err := it.Profile(); err != nil {
		return err
	}
	return nil
}

// pathWithin reports whether child is root or lies under it, comparing absolute paths.
func pathWithin(child, root string) bool {
	absChild, err := filepath.Abs(child)
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absChild)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
