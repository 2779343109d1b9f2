package train

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pcg/tensor"
)

// NamedParam pairs a parameter tensor with its checkpoint name.
type NamedParam struct {
	Name   string
	Tensor *tensor.Tensor
}

// Model is anything with trainable parameters. NamedParameters must
// return the same tensors as Parameters in a stable order; the names
// are the checkpoint identity of the weights.
type Model interface {
	Parameters() []*tensor.Tensor
	NamedParameters() []NamedParam
}

const generatorLatent = 256

// Generator holds the trainable weights of the structure generator:
// an image encoder head and per-view depth/mask decoder maps sized by
// the output view configuration. The forward pass lives with the
// model package consuming these utilities; here the generator is the
// parameter container that building, checkpointing and optimization
// operate on.
type Generator struct {
	OutViewN    int
	OutW, OutH  int
	RenderDepth float64

	params []NamedParam
}

// NewGenerator allocates a generator for the given output geometry.
// Weights get a small deterministic uniform init; the depth decoder
// bias starts at renderDepth so initial predictions sit at the render
// sphere rather than the camera origin.
func NewGenerator(outViewN, outW, outH int, renderDepth float64) *Generator {
	g := &Generator{
		OutViewN:    outViewN,
		OutW:        outW,
		OutH:        outH,
		RenderDepth: renderDepth,
	}
	rnd := rand.New(rand.NewSource(0))
	uniform := func(t *tensor.Tensor, scale float32) *tensor.Tensor {
		for i := range t.Data {
			t.Data[i] = scale * (2*rnd.Float32() - 1)
		}
		return t
	}
	encW := uniform(tensor.New(generatorLatent, 3, outH, outW), 0.05)
	encB := tensor.New(generatorLatent)
	depthW := uniform(tensor.New(outViewN, generatorLatent), 0.05)
	depthB := tensor.New(outViewN, outH, outW)
	depthB.Fill(float32(renderDepth))
	maskW := uniform(tensor.New(outViewN, generatorLatent), 0.05)
	maskB := tensor.New(outViewN, outH, outW)
	g.params = []NamedParam{
		{Name: "encoder.weight", Tensor: encW},
		{Name: "encoder.bias", Tensor: encB},
		{Name: "decoder.depth.weight", Tensor: depthW},
		{Name: "decoder.depth.bias", Tensor: depthB},
		{Name: "decoder.mask.weight", Tensor: maskW},
		{Name: "decoder.mask.bias", Tensor: maskB},
	}
	return g
}

func (g *Generator) Parameters() []*tensor.Tensor {
	ps := make([]*tensor.Tensor, len(g.params))
	for i, p := range g.params {
		ps[i] = p.Tensor
	}
	return ps
}

func (g *Generator) NamedParameters() []NamedParam { return g.params }

// BuildGenerator constructs the structure generator for cfg and, when
// cfg.LoadPath is set, restores weights from models/<LoadPath>: the
// best snapshot by default, or the cfg.LoadEpoch snapshot. A missing
// snapshot file is an error rather than a silent fresh start.
func BuildGenerator(cfg Config, logger *log.Logger) (*Generator, error) {
	g := NewGenerator(cfg.OutViewN, cfg.OutW, cfg.OutH, cfg.RenderDepth)
	if cfg.LoadPath == "" {
		logger.Info("build structure generator", "outViewN", cfg.OutViewN, "outW", cfg.OutW, "outH", cfg.OutH)
		return g, nil
	}
	dir := filepath.Join("models", cfg.LoadPath)
	name := "best" + ckptExt
	if cfg.LoadEpoch != nil {
		name = fmt.Sprintf("%d%s", *cfg.LoadEpoch, ckptExt)
	}
	path := filepath.Join(dir, name)
	if err := LoadCheckpoint(path, g); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("train: checkpoint %s not found: %w", path, err)
		}
		return nil, err
	}
	logger.Info("build structure generator with restored weights", "checkpoint", path)
	return g, nil
}
