package train

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"

	"pcg/tensor"
)

// UnsupportedOptionError reports a configuration string outside the
// recognized option set for its field.
type UnsupportedOptionError struct {
	Field string
	Value string
}

func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("train: unsupported %s %q", e.Field, e.Value)
}

// OptimKind enumerates the supported optimizers.
type OptimKind int

const (
	OptimAdam OptimKind = iota
	OptimSGD
)

// ParseOptimKind maps a configuration string to an optimizer kind by
// exact, case-insensitive match.
func ParseOptimKind(s string) (OptimKind, error) {
	switch strings.ToLower(s) {
	case "adam":
		return OptimAdam, nil
	case "sgd":
		return OptimSGD, nil
	}
	return 0, &UnsupportedOptionError{Field: "optimizer", Value: s}
}

func (k OptimKind) String() string {
	switch k {
	case OptimAdam:
		return "adam"
	case OptimSGD:
		return "sgd"
	}
	return fmt.Sprintf("OptimKind(%d)", int(k))
}

// Optimizer updates model parameters from their accumulated gradients.
type Optimizer interface {
	// Step applies one update from the current gradients.
	Step()
	// ZeroGrad clears all parameter gradients.
	ZeroGrad()
	LR() float64
	SetLR(lr float64)
}

// Adam hyperparameter defaults.
const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

// NewOptimizer builds the optimizer selected by cfg.Optim over the
// model's parameters. cfg.TrueWD selects decoupled weight decay
// applied directly to the weights at each step (the AdamW/SGDW
// variants); otherwise cfg.WD couples decay into the gradients as L2
// regularization.
func NewOptimizer(cfg Config, model Model, logger *log.Logger) (Optimizer, error) {
	kind, err := ParseOptimKind(cfg.Optim)
	if err != nil {
		return nil, err
	}
	if cfg.LR <= 0 {
		return nil, fmt.Errorf("train: learning rate %g, want > 0", cfg.LR)
	}
	params := model.Parameters()
	for _, p := range params {
		p.RequireGrad()
	}
	base := optimBase{params: params, lr: cfg.LR}
	if cfg.TrueWD != nil {
		base.decoupledWD = *cfg.TrueWD
		logger.Info("use decoupled weight decay",
			"optimizer", kind.String()+"w", "lr", cfg.LR, "wd", *cfg.TrueWD)
	} else {
		base.coupledWD = cfg.WD
		logger.Info("use coupled weight decay",
			"optimizer", kind, "lr", cfg.LR, "wd", cfg.WD)
	}
	switch kind {
	case OptimAdam:
		a := &adam{optimBase: base}
		a.m = make([]*tensor.Tensor, len(params))
		a.v = make([]*tensor.Tensor, len(params))
		for i, p := range params {
			a.m[i] = tensor.New(p.Shape()...)
			a.v[i] = tensor.New(p.Shape()...)
		}
		return a, nil
	case OptimSGD:
		return &sgd{optimBase: base}, nil
	}
	panic("unreachable")
}

type optimBase struct {
	params      []*tensor.Tensor
	lr          float64
	coupledWD   float64
	decoupledWD float64
}

func (o *optimBase) ZeroGrad() {
	for _, p := range o.params {
		p.ZeroGrad()
	}
}

func (o *optimBase) LR() float64      { return o.lr }
func (o *optimBase) SetLR(lr float64) { o.lr = lr }

// gradAt returns the effective gradient with coupled L2 decay folded in.
func (o *optimBase) gradAt(p *tensor.Tensor, i int) float32 {
	g := p.Grad[i]
	if o.coupledWD != 0 {
		g += float32(o.coupledWD) * p.Data[i]
	}
	return g
}

// decay applies decoupled weight decay after the gradient step.
func (o *optimBase) decay(p *tensor.Tensor, i int) {
	if o.decoupledWD != 0 {
		p.Data[i] -= float32(o.lr*o.decoupledWD) * p.Data[i]
	}
}

type sgd struct {
	optimBase
}

func (o *sgd) Step() {
	lr := float32(o.lr)
	for _, p := range o.params {
		for i := range p.Data {
			p.Data[i] -= lr * o.gradAt(p, i)
			o.decay(p, i)
		}
	}
}

type adam struct {
	optimBase
	m, v []*tensor.Tensor
	t    int
}

func (o *adam) Step() {
	o.t++
	c1 := 1 - math32.Pow(adamBeta1, float32(o.t))
	c2 := 1 - math32.Pow(adamBeta2, float32(o.t))
	lr := float32(o.lr)
	for k, p := range o.params {
		m, v := o.m[k], o.v[k]
		for i := range p.Data {
			g := o.gradAt(p, i)
			m.Data[i] = adamBeta1*m.Data[i] + (1-adamBeta1)*g
			v.Data[i] = adamBeta2*v.Data[i] + (1-adamBeta2)*g*g
			mhat := m.Data[i] / c1
			vhat := v.Data[i] / c2
			p.Data[i] -= lr * mhat / (math32.Sqrt(vhat) + adamEps)
			o.decay(p, i)
		}
	}
}
