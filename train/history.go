package train

import "github.com/charmbracelet/log"

// EpochStats is one epoch's loss summary. The XYZ components are
// populated in stage-1 training, the depth components in stage-2; the
// unused pair stays zero.
type EpochStats struct {
	Epoch     int
	TrainLoss float64
	ValLoss   float64

	TrainLossXYZ   float64
	ValLossXYZ     float64
	TrainLossDepth float64
	ValLossDepth   float64
	TrainLossMask  float64
	ValLossMask    float64
}

// History is the append-only record of epoch summaries for a run.
type History struct {
	rows []EpochStats
}

// Append records one epoch.
func (h *History) Append(s EpochStats) { h.rows = append(h.rows, s) }

// Len returns the number of recorded epochs.
func (h *History) Len() int { return len(h.rows) }

// Rows returns all recorded epochs in order.
func (h *History) Rows() []EpochStats { return h.rows }

// Last returns the most recent epoch.
func (h *History) Last() (EpochStats, bool) {
	if len(h.rows) == 0 {
		return EpochStats{}, false
	}
	return h.rows[len(h.rows)-1], true
}

// Best returns the epoch with the lowest validation loss, earliest on
// ties.
func (h *History) Best() (EpochStats, bool) {
	if len(h.rows) == 0 {
		return EpochStats{}, false
	}
	best := h.rows[0]
	for _, r := range h.rows[1:] {
		if r.ValLoss < best.ValLoss {
			best = r
		}
	}
	return best, true
}

// IsRunningMin reports whether the most recent validation loss is a
// running minimum over the whole history.
func (h *History) IsRunningMin() bool {
	last, ok := h.Last()
	if !ok {
		return false
	}
	best, _ := h.Best()
	return last.ValLoss <= best.ValLoss
}

// LogHistory writes the last and best epochs through the run logger.
func LogHistory(logger *log.Logger, h *History) {
	last, ok := h.Last()
	if !ok {
		return
	}
	best, _ := h.Best()
	logger.Debug("last", "epoch", last.Epoch, "train_loss", last.TrainLoss, "val_loss", last.ValLoss)
	logger.Debug("best", "epoch", best.Epoch, "train_loss", best.TrainLoss, "val_loss", best.ValLoss)
}
