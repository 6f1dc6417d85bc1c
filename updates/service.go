package updates

import (
	"context"
	"sync"

	"healthform/config"
	"healthform/semver"
)

// Check is the outcome of comparing the running build against the manifest.
type Check struct {
	Current   semver.Version
	Latest    semver.Version
	LatestRaw string
	Changelog string

	// Platform is the artifact section for the running platform, or nil
	// when the manifest has none (an update may still be Available).
	Platform *Platform

	// Available is true only when the manifest version is strictly newer;
	// equal or older versions are up to date.
	Available bool
}

// UpdateService answers "is there an update for this build". The manifest
// is fetched at most once per process.
type UpdateService interface {
	Check() (*Check, error)
}

// NewUpdateService creates an UpdateService for the given configuration.
func NewUpdateService(cfg config.Config) UpdateService {
	fetcher := NewFetcher(cfg)
	return &updateServiceImpl{
		cfg: cfg,
		fetchOnce: sync.OnceValues(func() (*Manifest, error) {
			ctx, cancel := context.WithTimeout(context.Background(), manifestTimeout)
			defer cancel()
			return fetcher.Fetch(ctx)
		}),
	}
}

type updateServiceImpl struct {
	cfg       config.Config
	fetchOnce func() (*Manifest, error)
}

func (impl *updateServiceImpl) Check() (*Check, error) {
	manifest, err := impl.fetchOnce()
	if err != nil {
		return nil, err
	}

	current := semver.Parse(impl.cfg.Version)
	latest := semver.Parse(manifest.Latest)

	return &Check{
		Current:   current,
		Latest:    latest,
		LatestRaw: manifest.Latest,
		Changelog: manifest.Changelog,
		Platform:  manifest.PlatformFor(impl.cfg.PlatformKey()),
		Available: semver.Compare(latest, current) > 0,
	}, nil
}
