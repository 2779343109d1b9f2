package train

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Binary weight snapshots. The format is a little-endian stream:
// header (magic, version, tensor count), then per tensor a name,
// a shape and the raw float32 data. Loading matches tensors by name
// and shape so a snapshot never silently restores into a different
// architecture.

const ckptExt = ".ckpt"

var ckptMagic = [4]byte{'P', 'C', 'G', 'W'}

const ckptVersion = 1

type ckptHeader struct {
	Magic   [4]byte
	Version uint32
	Count   uint32
}

// SaveParams writes the model's named parameters to w.
func SaveParams(w io.Writer, model Model) error {
	params := model.NamedParameters()
	h := ckptHeader{Magic: ckptMagic, Version: ckptVersion, Count: uint32(len(params))}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	for _, p := range params {
		if err := writeString(w, p.Name); err != nil {
			return err
		}
		shape := p.Tensor.Shape()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(shape))); err != nil {
			return err
		}
		for _, s := range shape {
			if err := binary.Write(w, binary.LittleEndian, uint32(s)); err != nil {
				return err
			}
		}
		if err := binary.Write(w, binary.LittleEndian, p.Tensor.Data); err != nil {
			return err
		}
	}
	return nil
}

// LoadParams restores the model's parameters from r. The stream must
// carry exactly the model's named parameters in order, with matching
// shapes.
func LoadParams(r io.Reader, model Model) error {
	var h ckptHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("train: read checkpoint header: %w", err)
	}
	if h.Magic != ckptMagic {
		return fmt.Errorf("train: bad checkpoint magic %q", h.Magic[:])
	}
	if h.Version != ckptVersion {
		return fmt.Errorf("train: unsupported checkpoint version %d", h.Version)
	}
	params := model.NamedParameters()
	if int(h.Count) != len(params) {
		return fmt.Errorf("train: checkpoint has %d tensors, model wants %d", h.Count, len(params))
	}
	for _, p := range params {
		name, err := readString(r)
		if err != nil {
			return err
		}
		if name != p.Name {
			return fmt.Errorf("train: checkpoint tensor %q, model wants %q", name, p.Name)
		}
		var rank uint32
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return err
		}
		shape := p.Tensor.Shape()
		if int(rank) != len(shape) {
			return fmt.Errorf("train: %s: checkpoint rank %d, model wants %d", name, rank, len(shape))
		}
		for i := range shape {
			var s uint32
			if err := binary.Read(r, binary.LittleEndian, &s); err != nil {
				return err
			}
			if int(s) != shape[i] {
				return fmt.Errorf("train: %s: checkpoint axis %d is %d, model wants %d", name, i, s, shape[i])
			}
		}
		if err := binary.Read(r, binary.LittleEndian, p.Tensor.Data); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// SaveCheckpoint writes the model's weights to path.
func SaveCheckpoint(path string, model Model) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := SaveParams(w, model); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadCheckpoint restores the model's weights from path.
func LoadCheckpoint(path string, model Model) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return LoadParams(bufio.NewReader(f), model)
}

// SaveBest writes dir/best.ckpt when the history's latest validation
// loss is a running minimum. Returns whether a snapshot was written.
func SaveBest(dir string, model Model, h *History) (bool, error) {
	if !h.IsRunningMin() {
		return false, nil
	}
	if err := SaveCheckpoint(filepath.Join(dir, "best"+ckptExt), model); err != nil {
		return false, err
	}
	return true, nil
}

// CheckpointEpoch writes dir/<epoch>.ckpt every saveEvery epochs
// (counting from one, so epoch 0 with saveEvery 1 writes). saveEvery
// zero disables periodic snapshots. Returns whether a snapshot was
// written.
func CheckpointEpoch(dir string, model Model, epoch, saveEvery int) (bool, error) {
	if saveEvery <= 0 || (epoch+1)%saveEvery != 0 {
		return false, nil
	}
	if err := SaveCheckpoint(filepath.Join(dir, fmt.Sprintf("%d%s", epoch, ckptExt)), model); err != nil {
		return false, err
	}
	return true, nil
}
