// Package train implements the training utilities for the point cloud
// reconstruction model: run configuration, losses, optimizers and
// learning rate schedules, epoch history, and model checkpointing.
package train

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds one training run's settings. Loaded from TOML or built
// in code; zero values are not valid, call Validate before use.
type Config struct {
	// Experiment names the run; used for log and summary paths.
	Experiment string `toml:"experiment"`
	// Category is the object category being trained on.
	Category string `toml:"category"`

	BatchSize int `toml:"batchSize"`
	// ChunkSize is the loader batch size (several chunks make up one
	// gradient accumulation batch).
	ChunkSize int `toml:"chunkSize"`
	// Workers is the per-batch parallel sample fetch width.
	Workers int `toml:"workers"`

	// Model geometry.
	OutViewN    int     `toml:"outViewN"`
	OutW        int     `toml:"outW"`
	OutH        int     `toml:"outH"`
	RenderDepth float64 `toml:"renderDepth"`

	// LoadPath selects a checkpoint directory under models/ to restore
	// from; empty trains from scratch. LoadEpoch picks an epoch
	// snapshot, nil picks best.
	LoadPath  string `toml:"loadPath"`
	LoadEpoch *int   `toml:"loadEpoch"`

	// Optimizer settings. TrueWD set selects decoupled weight decay
	// (AdamW/SGDW); otherwise WD is coupled L2.
	Optim  string   `toml:"optim"`
	LR     float64  `toml:"lr"`
	WD     float64  `toml:"wd"`
	TrueWD *float64 `toml:"trueWD"`

	// Learning rate schedule. Empty or "none" leaves the rate fixed.
	LRSched string  `toml:"lrSched"`
	LRStep  int     `toml:"lrStep"`
	LRGamma float64 `toml:"lrGamma"`
	TMax    int     `toml:"tMax"`
	EtaMin  float64 `toml:"etaMin"`

	// SaveEpoch writes an epoch snapshot every SaveEpoch epochs; zero
	// disables periodic snapshots.
	SaveEpoch int `toml:"saveEpoch"`
}

// LoadConfig reads a TOML run configuration and validates it.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("train: decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that every component relies on. Optimizer
// and scheduler names are checked by their constructors so the error
// points at the component that rejects them.
func (c Config) Validate() error {
	switch {
	case c.ChunkSize <= 0:
		return fmt.Errorf("train: chunk size %d, want > 0", c.ChunkSize)
	case c.OutViewN <= 0:
		return fmt.Errorf("train: outViewN %d, want > 0", c.OutViewN)
	case c.OutW <= 0 || c.OutH <= 0:
		return fmt.Errorf("train: output geometry %dx%d, want > 0", c.OutW, c.OutH)
	case c.LR <= 0:
		return fmt.Errorf("train: learning rate %g, want > 0", c.LR)
	case c.WD < 0:
		return fmt.Errorf("train: weight decay %g, want >= 0", c.WD)
	case c.SaveEpoch < 0:
		return fmt.Errorf("train: saveEpoch %d, want >= 0", c.SaveEpoch)
	}
	if c.TrueWD != nil && *c.TrueWD < 0 {
		return fmt.Errorf("train: decoupled weight decay %g, want >= 0", *c.TrueWD)
	}
	return nil
}

// ModelDir returns the snapshot directory for the run.
func (c Config) ModelDir() string {
	return filepath.Join("models", c.Experiment)
}

// MakeRunDirs creates the model and log directories for the run.
func (c Config) MakeRunDirs() error {
	for _, dir := range []string{c.ModelDir(), filepath.Join("runs", c.Experiment)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("train: create run dir: %w", err)
		}
	}
	return nil
}
