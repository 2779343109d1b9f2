// Package dataset provides the 2D-to-3D point cloud datasets consumed
// by the training utilities: per-sample ground truth tensors and a
// chunked, optionally shuffled loader with parallel sample fetch.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"pcg/tensor"
)

// Errors surfaced by batch assembly.
var (
	ErrInconsistentSample = errors.New("dataset: sample tensor shapes differ within batch")
	ErrMissingField       = errors.New("dataset: sample missing required field")
)

// Sample is one training example. InputImage, DepthGT and MaskGT are
// always present; TargetTrans only for novel-view datasets.
type Sample struct {
	InputImage  *tensor.Tensor // [C,H,W] RGB input rendering
	DepthGT     *tensor.Tensor // [V,H,W] ground truth depth maps
	MaskGT      *tensor.Tensor // [V,H,W] ground truth masks
	TargetTrans *tensor.Tensor // [4,4] target view transform, novel-view only
}

// Dataset is a finite, indexable collection of samples.
type Dataset interface {
	// Len returns the number of samples.
	Len() int
	// Sample returns the i-th sample. Implementations must be safe for
	// concurrent calls with distinct indices.
	Sample(i int) (Sample, error)
	// Novel reports whether samples carry a TargetTrans transform.
	Novel() bool
}

// Batch is a stack of samples along a new leading axis.
type Batch struct {
	Size        int
	InputImage  *tensor.Tensor // [B,C,H,W]
	DepthGT     *tensor.Tensor // [B,V,H,W]
	MaskGT      *tensor.Tensor // [B,V,H,W]
	TargetTrans *tensor.Tensor // [B,4,4], nil for fixed datasets
}

// Fixed returns the stage-1 tensors of the batch.
func (b Batch) Fixed() (inputImage, depthGT, maskGT *tensor.Tensor, err error) {
	if b.InputImage == nil || b.DepthGT == nil || b.MaskGT == nil {
		return nil, nil, nil, ErrMissingField
	}
	return b.InputImage, b.DepthGT, b.MaskGT, nil
}

// Novel returns the stage-2 tensors of the batch, including the target
// view transform.
func (b Batch) Novel() (inputImage, targetTrans, depthGT, maskGT *tensor.Tensor, err error) {
	if b.TargetTrans == nil {
		return nil, nil, nil, nil, ErrMissingField
	}
	inputImage, depthGT, maskGT, err = b.Fixed()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return inputImage, b.TargetTrans, depthGT, maskGT, nil
}

// Collate stacks samples into a batch, enforcing identical tensor
// shapes across the chunk.
func Collate(samples []Sample, novel bool) (Batch, error) {
	if len(samples) == 0 {
		return Batch{}, errors.New("dataset: collate of empty chunk")
	}
	b := Batch{Size: len(samples)}
	var err error
	if b.InputImage, err = stack(samples, func(s Sample) *tensor.Tensor { return s.InputImage }); err != nil {
		return Batch{}, fmt.Errorf("inputImage: %w", err)
	}
	if b.DepthGT, err = stack(samples, func(s Sample) *tensor.Tensor { return s.DepthGT }); err != nil {
		return Batch{}, fmt.Errorf("depthGT: %w", err)
	}
	if b.MaskGT, err = stack(samples, func(s Sample) *tensor.Tensor { return s.MaskGT }); err != nil {
		return Batch{}, fmt.Errorf("maskGT: %w", err)
	}
	if novel {
		if b.TargetTrans, err = stack(samples, func(s Sample) *tensor.Tensor { return s.TargetTrans }); err != nil {
			return Batch{}, fmt.Errorf("targetTrans: %w", err)
		}
	}
	return b, nil
}

func stack(samples []Sample, field func(Sample) *tensor.Tensor) (*tensor.Tensor, error) {
	first := field(samples[0])
	if first == nil {
		return nil, ErrMissingField
	}
	shape := append([]int{len(samples)}, first.Shape()...)
	out := tensor.New(shape...)
	n := first.Len()
	for i, s := range samples {
		t := field(s)
		if t == nil {
			return nil, ErrMissingField
		}
		if !t.SameShape(first) {
			return nil, ErrInconsistentSample
		}
		copy(out.Data[i*n:(i+1)*n], t.Data)
	}
	return out, nil
}

// InMemory is a Dataset over a slice of samples.
type InMemory struct {
	samples []Sample
	novel   bool
}

// NewInMemory wraps samples. novel declares whether TargetTrans is
// expected on every sample.
func NewInMemory(samples []Sample, novel bool) *InMemory {
	return &InMemory{samples: samples, novel: novel}
}

func (d *InMemory) Len() int { return len(d.samples) }

func (d *InMemory) Sample(i int) (Sample, error) {
	if i < 0 || i >= len(d.samples) {
		return Sample{}, fmt.Errorf("dataset: sample index %d out of range [0,%d)", i, len(d.samples))
	}
	return d.samples[i], nil
}

func (d *InMemory) Novel() bool { return d.novel }

// Synthetic builds an in-memory dataset of n pseudo-random samples
// with the given image geometry. Deterministic for a fixed seed.
// Intended for tests and examples.
func Synthetic(n, views, w, h int, novel bool, seed int64) *InMemory {
	rnd := rand.New(rand.NewSource(seed))
	fill := func(t *tensor.Tensor) *tensor.Tensor {
		for i := range t.Data {
			t.Data[i] = rnd.Float32()
		}
		return t
	}
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{
			InputImage: fill(tensor.New(3, h, w)),
			DepthGT:    fill(tensor.New(views, h, w)),
			MaskGT:     fill(tensor.New(views, h, w)),
		}
		if novel {
			samples[i].TargetTrans = fill(tensor.New(4, 4))
		}
	}
	return NewInMemory(samples, novel)
}
