package train_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"pcg/train"
)

func TestParamsRoundTrip(t *testing.T) {
	g := train.NewGenerator(2, 4, 4, 1.0)
	var buf bytes.Buffer
	if err := train.SaveParams(&buf, g); err != nil {
		t.Fatal(err)
	}
	restored := train.NewGenerator(2, 4, 4, 0)
	if err := train.LoadParams(&buf, restored); err != nil {
		t.Fatal(err)
	}
	want := g.NamedParameters()
	got := restored.NamedParameters()
	for i := range want {
		for j, v := range want[i].Tensor.Data {
			if got[i].Tensor.Data[j] != v {
				t.Fatalf("%s[%d] = %v, want %v", want[i].Name, j, got[i].Tensor.Data[j], v)
			}
		}
	}
}

func TestLoadParamsShapeMismatch(t *testing.T) {
	g := train.NewGenerator(2, 4, 4, 1.0)
	var buf bytes.Buffer
	if err := train.SaveParams(&buf, g); err != nil {
		t.Fatal(err)
	}
	other := train.NewGenerator(3, 4, 4, 1.0)
	if err := train.LoadParams(&buf, other); err == nil {
		t.Error("restoring into a different geometry accepted")
	}
}

func TestLoadParamsBadMagic(t *testing.T) {
	g := train.NewGenerator(1, 2, 2, 1.0)
	if err := train.LoadParams(bytes.NewReader([]byte("not a checkpoint")), g); err == nil {
		t.Error("bad magic accepted")
	}
}

func TestSaveBestOnlyOnRunningMin(t *testing.T) {
	dir := t.TempDir()
	g := train.NewGenerator(1, 2, 2, 1.0)
	var h train.History
	h.Append(train.EpochStats{Epoch: 0, ValLoss: 1.0})
	wrote, err := train.SaveBest(dir, g, &h)
	if err != nil {
		t.Fatal(err)
	}
	if !wrote {
		t.Fatal("first epoch should always be a running min")
	}
	h.Append(train.EpochStats{Epoch: 1, ValLoss: 2.0})
	if wrote, _ = train.SaveBest(dir, g, &h); wrote {
		t.Error("worse epoch wrote best snapshot")
	}
	h.Append(train.EpochStats{Epoch: 2, ValLoss: 1.0}) // ties the min
	if wrote, _ = train.SaveBest(dir, g, &h); !wrote {
		t.Error("tying epoch should refresh best snapshot")
	}
	if _, err := os.Stat(filepath.Join(dir, "best.ckpt")); err != nil {
		t.Error("best.ckpt missing")
	}
}

func TestCheckpointEpochCadence(t *testing.T) {
	dir := t.TempDir()
	g := train.NewGenerator(1, 2, 2, 1.0)
	for epoch := 0; epoch < 6; epoch++ {
		wrote, err := train.CheckpointEpoch(dir, g, epoch, 3)
		if err != nil {
			t.Fatal(err)
		}
		want := epoch == 2 || epoch == 5
		if wrote != want {
			t.Errorf("epoch %d wrote = %v, want %v", epoch, wrote, want)
		}
	}
	if wrote, _ := train.CheckpointEpoch(dir, g, 99, 0); wrote {
		t.Error("saveEvery 0 must disable periodic snapshots")
	}
	if _, err := os.Stat(filepath.Join(dir, "2.ckpt")); err != nil {
		t.Error("2.ckpt missing")
	}
}

func TestBuildGeneratorMissingCheckpoint(t *testing.T) {
	cfg := baseConfig()
	cfg.LoadPath = "does-not-exist"
	if _, err := train.BuildGenerator(cfg, discard()); err == nil {
		t.Error("missing checkpoint dir accepted")
	}
}

func TestBuildGeneratorRestoresBest(t *testing.T) {
	// BuildGenerator resolves models/<LoadPath> relative to the
	// working directory.
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig()
	cfg.OutViewN, cfg.OutW, cfg.OutH = 2, 4, 4
	dir := filepath.Join("models", "run1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	g := train.NewGenerator(2, 4, 4, 1.0)
	g.Parameters()[0].Fill(42)
	if err := train.SaveCheckpoint(filepath.Join(dir, "best.ckpt"), g); err != nil {
		t.Fatal(err)
	}
	cfg.LoadPath = "run1"
	restored, err := train.BuildGenerator(cfg, discard())
	if err != nil {
		t.Fatal(err)
	}
	if restored.Parameters()[0].Data[0] != 42 {
		t.Error("best weights not restored")
	}
}
