package summary

import (
	"image"

	"pcg/train"
)

// Fixed tags shared with the dashboards that read the run directory.
// Renaming any of these breaks downstream tooling.
const (
	TagLoss      = "loss"
	TagLossXYZ   = "loss_XYZ"
	TagLossDepth = "loss_depth"
	TagLossMask  = "loss_mask"
	TagLR        = "learning rate"

	TagRGB          = "RGB"
	TagDepthGT      = "depth/GT"
	TagDepthPred    = "depth/pred"
	TagMaskGT       = "mask/GT"
	TagMaskPred     = "mask/pred"
	TagDepthMask    = "depth*mask"
	TagMaskRendered = "mask/rendered"
)

// WriteLosses1 records the stage-1 scalar summaries for the most
// recent epoch of h: total, XYZ and mask loss, train/val pairs each.
func WriteLosses1(w *Writer, h *train.History) error {
	row, ok := h.Last()
	if !ok {
		return nil
	}
	if err := w.AddScalars(TagLoss, map[string]float64{
		"train": row.TrainLoss,
		"val":   row.ValLoss,
	}, row.Epoch); err != nil {
		return err
	}
	if err := w.AddScalars(TagLossXYZ, map[string]float64{
		"train": row.TrainLossXYZ,
		"val":   row.ValLossXYZ,
	}, row.Epoch); err != nil {
		return err
	}
	return w.AddScalars(TagLossMask, map[string]float64{
		"train": row.TrainLossMask,
		"val":   row.ValLossMask,
	}, row.Epoch)
}

// WriteLosses2 records the stage-2 scalar summaries for the most
// recent epoch of h: total, depth and mask loss, train/val pairs each.
func WriteLosses2(w *Writer, h *train.History) error {
	row, ok := h.Last()
	if !ok {
		return nil
	}
	if err := w.AddScalars(TagLoss, map[string]float64{
		"train": row.TrainLoss,
		"val":   row.ValLoss,
	}, row.Epoch); err != nil {
		return err
	}
	if err := w.AddScalars(TagLossDepth, map[string]float64{
		"train": row.TrainLossDepth,
		"val":   row.ValLossDepth,
	}, row.Epoch); err != nil {
		return err
	}
	return w.AddScalars(TagLossMask, map[string]float64{
		"train": row.TrainLossMask,
		"val":   row.ValLossMask,
	}, row.Epoch)
}

// Images collects the per-epoch sample renderings. DepthMask is only
// written in stage 1, MaskRendered only in stage 2; the rest are
// common to both.
type Images struct {
	RGB          image.Image
	DepthGT      image.Image
	DepthPred    image.Image
	MaskGT       image.Image
	MaskPred     image.Image
	DepthMask    image.Image // stage 1: depth masked by predicted mask
	MaskRendered image.Image // stage 2: mask re-rendered from the novel view
}

// WriteImages1 records the stage-1 image summaries for epoch.
func WriteImages1(w *Writer, imgs Images, epoch int) error {
	return writeImages(w, epoch, []taggedImage{
		{TagRGB, imgs.RGB},
		{TagDepthGT, imgs.DepthGT},
		{TagDepthPred, imgs.DepthPred},
		{TagMaskGT, imgs.MaskGT},
		{TagMaskPred, imgs.MaskPred},
		{TagDepthMask, imgs.DepthMask},
	})
}

// WriteImages2 records the stage-2 image summaries for epoch.
func WriteImages2(w *Writer, imgs Images, epoch int) error {
	return writeImages(w, epoch, []taggedImage{
		{TagRGB, imgs.RGB},
		{TagDepthGT, imgs.DepthGT},
		{TagDepthPred, imgs.DepthPred},
		{TagMaskGT, imgs.MaskGT},
		{TagMaskPred, imgs.MaskPred},
		{TagMaskRendered, imgs.MaskRendered},
	})
}

type taggedImage struct {
	tag string
	img image.Image
}

func writeImages(w *Writer, epoch int, imgs []taggedImage) error {
	for _, ti := range imgs {
		if ti.img == nil {
			continue
		}
		if err := w.AddImage(ti.tag, ti.img, epoch); err != nil {
			return err
		}
	}
	return nil
}

// WriteLR records the learning rate for epoch. A nil scheduler means
// the rate never moves and nothing is recorded.
func WriteLR(w *Writer, sched train.Scheduler, epoch int) error {
	if sched == nil {
		return nil
	}
	return w.AddScalar(TagLR, sched.LastLR(), epoch)
}
