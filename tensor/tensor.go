// Package tensor implements small dense float32 tensors used by the
// training utilities: model parameters, batch fields and loss
// gradients. Tensors are row-major and carry an optional gradient
// buffer of the same shape.
package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Tensor is a dense row-major float32 array.
type Tensor struct {
	Data  []float32
	Grad  []float32 // nil until RequireGrad or ZeroGrad is called.
	shape []int
}

// New returns a zero-filled tensor of the given shape.
func New(shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		if s < 0 {
			panic("tensor: negative dimension")
		}
		n *= s
	}
	return &Tensor{
		Data:  make([]float32, n),
		shape: append([]int(nil), shape...),
	}
}

// FromSlice wraps data in a tensor of the given shape. The slice is
// used directly. Returns an error if the shape does not describe
// len(data) elements.
func FromSlice(data []float32, shape ...int) (*Tensor, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(data) {
		return nil, fmt.Errorf("tensor: shape %v wants %d elements, data has %d", shape, n, len(data))
	}
	return &Tensor{Data: data, shape: append([]int(nil), shape...)}, nil
}

// Shape returns the tensor's dimensions. Callers must not modify the
// returned slice.
func (t *Tensor) Shape() []int { return t.shape }

// Len returns the total number of elements.
func (t *Tensor) Len() int { return len(t.Data) }

// SameShape reports whether t and u have identical shapes.
func (t *Tensor) SameShape(u *Tensor) bool {
	if len(t.shape) != len(u.shape) {
		return false
	}
	for i, s := range t.shape {
		if u.shape[i] != s {
			return false
		}
	}
	return true
}

// At returns the element at the multi-index idx.
func (t *Tensor) At(idx ...int) float32 {
	return t.Data[t.offset(idx)]
}

// Set assigns the element at the multi-index idx.
func (t *Tensor) Set(v float32, idx ...int) {
	t.Data[t.offset(idx)] = v
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: %d indices into rank-%d tensor", len(idx), len(t.shape)))
	}
	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for axis %d of size %d", ix, i, t.shape[i]))
		}
		off = off*t.shape[i] + ix
	}
	return off
}

// Clone returns a deep copy of t. Gradients are not copied.
func (t *Tensor) Clone() *Tensor {
	c := New(t.shape...)
	copy(c.Data, t.Data)
	return c
}

// RequireGrad allocates the gradient buffer if absent.
func (t *Tensor) RequireGrad() {
	if t.Grad == nil {
		t.Grad = make([]float32, len(t.Data))
	}
}

// ZeroGrad clears the gradient buffer, allocating it if absent.
func (t *Tensor) ZeroGrad() {
	if t.Grad == nil {
		t.Grad = make([]float32, len(t.Data))
		return
	}
	for i := range t.Grad {
		t.Grad[i] = 0
	}
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float32) {
	for i := range t.Data {
		t.Data[i] = v
	}
}

// Scale multiplies every element by v.
func (t *Tensor) Scale(v float32) {
	for i := range t.Data {
		t.Data[i] *= v
	}
}

// AddScaled adds alpha*u to t element-wise. Panics on shape mismatch.
func (t *Tensor) AddScaled(alpha float32, u *Tensor) {
	if !t.SameShape(u) {
		panic("tensor: AddScaled shape mismatch")
	}
	for i := range t.Data {
		t.Data[i] += alpha * u.Data[i]
	}
}

// Norm returns the L2 norm of the tensor's data.
func (t *Tensor) Norm() float32 {
	var s float32
	for _, v := range t.Data {
		s += v * v
	}
	return math32.Sqrt(s)
}

// MinMax returns the smallest and largest elements. Panics on an
// empty tensor.
func (t *Tensor) MinMax() (min, max float32) {
	if len(t.Data) == 0 {
		panic("tensor: MinMax of empty tensor")
	}
	min, max = t.Data[0], t.Data[0]
	for _, v := range t.Data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
