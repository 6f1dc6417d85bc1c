package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
)

// Version is the version of the running build. Overridden at release time
// via -ldflags "-X healthform/config.Version=...".
var Version = "0.1.8"

const (
	defaultAppName     = "HealthForm"
	defaultManifestURL = "https://healthform.app/download/manifest.json"

	// OverrideFileName is an optional YAML file next to the executable
	// that overrides the release defaults, mostly for staging manifests.
	OverrideFileName = "healthform.yaml"
)

// Config carries the application identity. It is built exactly once at
// process start and passed explicitly to every component that needs it;
// there is no other process-wide state.
type Config struct {
	AppName     string
	Version     string
	ManifestURL string
}

// overrideFile is the YAML shape of the optional healthform.yaml override.
type overrideFile struct {
	AppName     string `yaml:"app_name,omitempty"`
	ManifestURL string `yaml:"manifest_url,omitempty"`
}

// Load builds the Config from compiled-in defaults, applying an override
// file from the executable's directory when one exists. A missing override
// file is the normal case; a malformed one is an error so a broken staging
// setup does not silently check the production manifest.
func Load() (Config, error) {
	cfg := Config{
		AppName:     defaultAppName,
		Version:     Version,
		ManifestURL: defaultManifestURL,
	}

	path, err := overridePath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var over overrideFile
	if err := yaml.Unmarshal(data, &over); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if over.AppName != "" {
		cfg.AppName = over.AppName
	}
	if over.ManifestURL != "" {
		cfg.ManifestURL = over.ManifestURL
	}

	return cfg, nil
}

func overridePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), OverrideFileName), nil
}

// UserAgent returns the User-Agent header sent on every manifest and
// artifact request.
func (c Config) UserAgent() string {
	return fmt.Sprintf("%s/%s", c.AppName, c.Version)
}

// PlatformKey maps the current OS to the platform section name used in
// release manifests.
func (c Config) PlatformKey() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "mac"
	default:
		return "linux"
	}
}

// UpdatesDirName is the per-app subdirectory of the system temp root where
// downloaded artifacts are staged.
func (c Config) UpdatesDirName() string {
	return strings.ReplaceAll(c.AppName, " ", "") + "_updates"
}
