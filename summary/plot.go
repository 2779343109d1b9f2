package summary

import (
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"pcg/train"
)

// PlotLoss renders the train and validation loss curves of h to
// <dir>/loss.png and returns the file path. A history shorter than
// one epoch is an error from the plotting layer, so callers should
// plot only after the first epoch lands.
func (w *Writer) PlotLoss(h *train.History) (string, error) {
	rows := h.Rows()
	trainXY := make(plotter.XYs, len(rows))
	valXY := make(plotter.XYs, len(rows))
	for i, r := range rows {
		trainXY[i].X = float64(r.Epoch)
		trainXY[i].Y = r.TrainLoss
		valXY[i].X = float64(r.Epoch)
		valXY[i].Y = r.ValLoss
	}
	p := plot.New()
	p.Title.Text = "loss"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "loss"
	tl, err := plotter.NewLine(trainXY)
	if err != nil {
		return "", err
	}
	vl, err := plotter.NewLine(valXY)
	if err != nil {
		return "", err
	}
	vl.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(tl, vl)
	p.Legend.Add("train", tl)
	p.Legend.Add("val", vl)
	path := filepath.Join(w.dir, "loss.png")
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}
