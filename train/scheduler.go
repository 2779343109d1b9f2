package train

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"
)

// SchedKind enumerates the supported learning rate schedules.
type SchedKind int

const (
	SchedNone SchedKind = iota
	SchedStep
	SchedExponential
	SchedCosine
)

// ParseSchedKind maps a configuration string to a schedule kind by
// exact, case-insensitive match. The empty string means no schedule.
func ParseSchedKind(s string) (SchedKind, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return SchedNone, nil
	case "step":
		return SchedStep, nil
	case "exponential":
		return SchedExponential, nil
	case "cosine":
		return SchedCosine, nil
	}
	return 0, &UnsupportedOptionError{Field: "lr schedule", Value: s}
}

func (k SchedKind) String() string {
	switch k {
	case SchedNone:
		return "none"
	case SchedStep:
		return "step"
	case SchedExponential:
		return "exponential"
	case SchedCosine:
		return "cosine"
	}
	return fmt.Sprintf("SchedKind(%d)", int(k))
}

// Scheduler drives an optimizer's learning rate across epochs.
type Scheduler interface {
	// Step advances one epoch and updates the optimizer's rate.
	Step()
	// LastLR returns the rate set by the most recent Step, or the base
	// rate before the first.
	LastLR() float64
}

// NewScheduler builds the schedule selected by cfg.LRSched over opt.
// Returns (nil, nil) when the configuration asks for no schedule; the
// optimizer then keeps its base rate.
func NewScheduler(cfg Config, opt Optimizer, logger *log.Logger) (Scheduler, error) {
	kind, err := ParseSchedKind(cfg.LRSched)
	if err != nil {
		return nil, err
	}
	switch kind {
	case SchedNone:
		return nil, nil
	case SchedStep:
		if cfg.LRStep <= 0 {
			return nil, fmt.Errorf("train: step schedule with lrStep %d, want > 0", cfg.LRStep)
		}
		logger.Info("use step lr schedule", "gamma", cfg.LRGamma, "step", cfg.LRStep)
		return &decaySched{
			opt: opt, base: opt.LR(),
			factor: func(epoch int) float64 {
				return math.Pow(cfg.LRGamma, float64(epoch/cfg.LRStep))
			},
		}, nil
	case SchedExponential:
		logger.Info("use exponential lr schedule", "gamma", cfg.LRGamma)
		return &decaySched{
			opt: opt, base: opt.LR(),
			factor: func(epoch int) float64 {
				return math.Pow(cfg.LRGamma, float64(epoch))
			},
		}, nil
	case SchedCosine:
		if cfg.TMax <= 0 {
			return nil, fmt.Errorf("train: cosine schedule with tMax %d, want > 0", cfg.TMax)
		}
		logger.Info("use cosine annealing lr schedule", "tMax", cfg.TMax, "etaMin", cfg.EtaMin)
		base := opt.LR()
		return &decaySched{
			opt: opt, base: base,
			factor: func(epoch int) float64 {
				cos := (1 + math.Cos(math.Pi*float64(epoch)/float64(cfg.TMax))) / 2
				return (cfg.EtaMin + (base-cfg.EtaMin)*cos) / base
			},
		}, nil
	}
	panic("unreachable")
}

// decaySched computes the rate as base times a factor of the epoch
// count, so schedules are stateless in everything but the counter.
type decaySched struct {
	opt    Optimizer
	base   float64
	epoch  int
	factor func(epoch int) float64
}

func (s *decaySched) Step() {
	s.epoch++
	s.opt.SetLR(s.base * s.factor(s.epoch))
}

func (s *decaySched) LastLR() float64 {
	return s.base * s.factor(s.epoch)
}
