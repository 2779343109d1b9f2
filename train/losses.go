package train

import (
	"fmt"

	"github.com/chewxy/math32"

	"pcg/tensor"
)

// Mean-reduced losses over tensors. Both accumulate d(loss)/d(pred)
// into pred.Grad when the prediction has a gradient buffer, so the
// optimizer can consume them directly.

// L1Loss returns mean |pred - gt|.
func L1Loss(pred, gt *tensor.Tensor) (float32, error) {
	if !pred.SameShape(gt) {
		return 0, fmt.Errorf("train: l1 loss shape mismatch %v vs %v", pred.Shape(), gt.Shape())
	}
	n := float32(pred.Len())
	var sum float32
	for i, v := range pred.Data {
		d := v - gt.Data[i]
		sum += math32.Abs(d)
		if pred.Grad != nil {
			if d > 0 {
				pred.Grad[i] += 1 / n
			} else if d < 0 {
				pred.Grad[i] -= 1 / n
			}
		}
	}
	return sum / n, nil
}

// BCEWithLogitsLoss returns the mean binary cross entropy between
// sigmoid(logits) and gt, computed in the numerically stable
// log-sum-exp form (the sigmoid never materializes in the loss).
func BCEWithLogitsLoss(logits, gt *tensor.Tensor) (float32, error) {
	if !logits.SameShape(gt) {
		return 0, fmt.Errorf("train: bce loss shape mismatch %v vs %v", logits.Shape(), gt.Shape())
	}
	n := float32(logits.Len())
	var sum float32
	for i, x := range logits.Data {
		z := gt.Data[i]
		// max(x,0) - x*z + log(1+exp(-|x|))
		m := x
		if m < 0 {
			m = 0
		}
		sum += m - x*z + math32.Log1p(math32.Exp(-math32.Abs(x)))
		if logits.Grad != nil {
			logits.Grad[i] += (sigmoid(x) - z) / n
		}
	}
	return sum / n, nil
}

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}
