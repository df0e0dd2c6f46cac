package container

import (
	"fmt"

	"filplus/app"
	"filplus/domain/dataset"
	"filplus/internal"
	"filplus/internal/config"
	loader "filplus/internal/dataset"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Loaded once at startup, read-only afterwards
	Snapshot *dataset.Snapshot
	Views    *app.ViewService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	}
	return &Container{
		Config: cfg,
		Logger: logger,
	}, nil
}

// InitDataset loads the configured file and builds the view service over it
func (c *Container) InitDataset() error {
	policy, err := dataset.ParseDuplicatePolicy(c.Config.Data.DuplicatePolicy)
	if err != nil {
		return err
	}

	snapshot, err := loader.NewLoader(policy, c.Logger).LoadFile(c.Config.Data.File)
	if err != nil {
		return err
	}

	c.Snapshot = snapshot
	c.Views = app.NewViewService(snapshot, c.Config.Data.HistogramBins)
	c.Logger.With("Container").Debug("Loaded %d clients from %s (last updated %s)",
		snapshot.RowCount(), c.Config.Data.File, snapshot.LastUpdated())
	return nil
}
