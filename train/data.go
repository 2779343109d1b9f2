package train

import (
	"github.com/charmbracelet/log"

	"pcg/dataset"
)

// Loader pairs for the two training stages. Stage 1 trains against
// fixed canonical views, stage 2 against novel views with a target
// transform per sample. Training loaders shuffle, test loaders do
// not; both drop trailing partial chunks.

// MakeFixed builds the stage-1 train/test loaders over tr and te.
func MakeFixed(cfg Config, tr, te dataset.Dataset, logger *log.Logger) (train, test *dataset.Loader, err error) {
	return makeLoaders(cfg, tr, te, logger, "fixed (stg1)")
}

// MakeNovel builds the stage-2 train/test loaders over tr and te.
func MakeNovel(cfg Config, tr, te dataset.Dataset, logger *log.Logger) (train, test *dataset.Loader, err error) {
	return makeLoaders(cfg, tr, te, logger, "novel (stg2)")
}

func makeLoaders(cfg Config, tr, te dataset.Dataset, logger *log.Logger, stage string) (*dataset.Loader, *dataset.Loader, error) {
	train, err := dataset.NewLoader(tr, dataset.Options{
		ChunkSize: cfg.ChunkSize,
		Shuffle:   true,
		Workers:   cfg.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	test, err := dataset.NewLoader(te, dataset.Options{
		ChunkSize: cfg.ChunkSize,
		Workers:   cfg.Workers,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("load data", "stage", stage, "category", cfg.Category,
		"batchSize", cfg.BatchSize, "chunkSize", cfg.ChunkSize)
	return train, test, nil
}
