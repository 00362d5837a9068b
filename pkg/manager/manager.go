package manager

import (
	"github.com/charmbracelet/log"

	"github.com/fetchy/fetchy/pkg/config"
	"github.com/fetchy/fetchy/pkg/fetch"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/store"
)

// Manager orchestrates the Repository Loader, Asset Selector, Fetcher,
// Archive Extractor, Install Store, and Dependency Graph Manager into
// the add-repo/remove-repo/list-repos/install/uninstall/update/list
// operations.
type Manager struct {
	cfg     config.Config
	fetcher *fetch.Fetcher
	store   *store.Store
	plat    platform.Platform
	logger  *log.Logger
}

// New wires a Manager from process configuration, creating the
// persisted state layout on disk if it does not yet exist and
// detecting the running host's platform.
func New(cfg config.Config) (*Manager, error) {
	if err := cfg.EnsureLayout(); err != nil {
		return nil, err
	}

	f, err := fetch.NewFetcher(cfg)
	if err != nil {
		return nil, err
	}

	plat, err := platform.Detect()
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:     cfg,
		fetcher: f,
		store:   store.New(cfg),
		plat:    plat,
		logger:  log.Default(),
	}, nil
}

// SetLogger overrides the Manager's logger, used by the CLI to thread
// its own per-command, per-verbosity logger through install/update
// operations.
func (m *Manager) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}
