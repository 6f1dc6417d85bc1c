package updates

import (
	"encoding/json"
	"fmt"
)

// Manifest represents the release manifest fetched on every update check.
// It is read-only once parsed and never persisted.
type Manifest struct {
	Latest    string
	Changelog string
	Platforms map[string]Platform
}

// Platform describes the downloadable artifact for one platform section.
type Platform struct {
	URL    string `json:"url"`
	Page   string `json:"page"`
	SHA256 string `json:"sha256"`
}

// UnmarshalJSON decodes the wire shape of the manifest: top-level "latest"
// and "changelog" strings plus one object per platform, keyed by platform
// name ("windows", "mac", "linux", ...).
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Platforms = make(map[string]Platform)

	for key, value := range raw {
		switch key {
		case "latest":
			if err := json.Unmarshal(value, &m.Latest); err != nil {
				return fmt.Errorf("failed to parse latest field: %w", err)
			}
		case "changelog":
			if err := json.Unmarshal(value, &m.Changelog); err != nil {
				return fmt.Errorf("failed to parse changelog field: %w", err)
			}
		default:
			var platform Platform
			if err := json.Unmarshal(value, &platform); err != nil {
				return fmt.Errorf("failed to parse platform section %q: %w", key, err)
			}
			m.Platforms[key] = platform
		}
	}

	return nil
}

// PlatformFor returns the artifact section for the given platform key, or
// nil when the manifest carries no section for it.
func (m *Manifest) PlatformFor(key string) *Platform {
	if platform, ok := m.Platforms[key]; ok {
		return &platform
	}
	return nil
}
