package train_test

import (
	"os"
	"path/filepath"
	"testing"

	"pcg/dataset"
	"pcg/train"
)

const sampleConfig = `
experiment = "chair-stg1"
category = "chair"
batchSize = 100
chunkSize = 32
workers = 4
outViewN = 8
outW = 64
outH = 64
renderDepth = 1.0
optim = "adam"
lr = 1e-4
wd = 0.0
lrSched = "step"
lrStep = 100
lrGamma = 0.5
saveEpoch = 50
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := train.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Experiment != "chair-stg1" || cfg.OutViewN != 8 || cfg.LR != 1e-4 {
		t.Errorf("decoded config %+v", cfg)
	}
	if cfg.TrueWD != nil {
		t.Error("absent trueWD should stay nil")
	}
	if cfg.LoadEpoch != nil {
		t.Error("absent loadEpoch should stay nil")
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []func(*train.Config){
		func(c *train.Config) { c.ChunkSize = 0 },
		func(c *train.Config) { c.OutViewN = 0 },
		func(c *train.Config) { c.OutW = -1 },
		func(c *train.Config) { c.LR = 0 },
		func(c *train.Config) { c.WD = -1 },
		func(c *train.Config) { c.SaveEpoch = -1 },
	}
	for i, mutate := range bad {
		cfg := baseConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: invalid config accepted", i)
		}
	}
	if err := baseConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestMakeRunDirs(t *testing.T) {
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig()
	if err := cfg.MakeRunDirs(); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{cfg.ModelDir(), filepath.Join("runs", cfg.Experiment)} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("run dir %s missing", dir)
		}
	}
}

func TestMakeFixedLoaders(t *testing.T) {
	cfg := baseConfig()
	cfg.ChunkSize = 2
	tr := dataset.Synthetic(6, 1, 2, 2, false, 1)
	te := dataset.Synthetic(4, 1, 2, 2, false, 2)
	ltr, lte, err := train.MakeFixed(cfg, tr, te, discard())
	if err != nil {
		t.Fatal(err)
	}
	if ltr.Batches() != 3 || lte.Batches() != 2 {
		t.Errorf("batches = %d,%d want 3,2", ltr.Batches(), lte.Batches())
	}
	// Test loader is unshuffled: two passes agree.
	b1, _, err := lte.Next()
	if err != nil {
		t.Fatal(err)
	}
	lte.Reset()
	b2, _, err := lte.Next()
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range b1.InputImage.Data {
		if b2.InputImage.Data[i] != v {
			t.Fatal("test loader order changed across Reset")
		}
	}
}

func TestMakeNovelLoaders(t *testing.T) {
	cfg := baseConfig()
	cfg.ChunkSize = 2
	tr := dataset.Synthetic(4, 1, 2, 2, true, 3)
	te := dataset.Synthetic(4, 1, 2, 2, true, 4)
	ltr, _, err := train.MakeNovel(cfg, tr, te, discard())
	if err != nil {
		t.Fatal(err)
	}
	b, ok, err := ltr.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if _, _, _, _, err := b.Novel(); err != nil {
		t.Errorf("novel batch unpack: %v", err)
	}
}
