package dataset

import (
	"fmt"
	"math/rand"
	"sync"
)

// Options configure a Loader.
type Options struct {
	// ChunkSize is the number of samples per batch. Required.
	ChunkSize int
	// Shuffle randomizes sample order on every Reset.
	Shuffle bool
	// Workers is the number of goroutines fetching samples per batch.
	// Zero or one fetches sequentially.
	Workers int
	// Seed feeds the shuffle. Ignored when Shuffle is false.
	Seed int64
}

// Loader iterates a Dataset in batches of ChunkSize samples. Trailing
// samples that do not fill a chunk are dropped, matching the training
// loop's fixed batch geometry. A Loader is not safe for concurrent
// use; its per-batch sample fetch is parallel internally.
type Loader struct {
	ds    Dataset
	opts  Options
	rnd   *rand.Rand
	order []int
	next  int
}

// NewLoader creates a loader over ds.
func NewLoader(ds Dataset, opts Options) (*Loader, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("dataset: chunk size %d, want > 0", opts.ChunkSize)
	}
	l := &Loader{ds: ds, opts: opts}
	if opts.Shuffle {
		l.rnd = rand.New(rand.NewSource(opts.Seed))
	}
	l.Reset()
	return l, nil
}

// Batches returns the number of full batches per epoch.
func (l *Loader) Batches() int { return l.ds.Len() / l.opts.ChunkSize }

// Reset rewinds the loader and, when shuffling, draws a new order.
func (l *Loader) Reset() {
	n := l.ds.Len()
	if cap(l.order) < n {
		l.order = make([]int, n)
	}
	l.order = l.order[:n]
	for i := range l.order {
		l.order[i] = i
	}
	if l.rnd != nil {
		l.rnd.Shuffle(n, func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
	l.next = 0
}

// Next assembles the next batch. ok is false once fewer than
// ChunkSize samples remain.
func (l *Loader) Next() (b Batch, ok bool, err error) {
	cs := l.opts.ChunkSize
	if l.next+cs > len(l.order) {
		return Batch{}, false, nil
	}
	idx := l.order[l.next : l.next+cs]
	l.next += cs

	samples := make([]Sample, cs)
	errs := make([]error, cs)
	workers := l.opts.Workers
	if workers <= 1 {
		for k, i := range idx {
			samples[k], errs[k] = l.ds.Sample(i)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, workers)
		for k, i := range idx {
			wg.Add(1)
			sem <- struct{}{}
			go func(k, i int) {
				defer wg.Done()
				samples[k], errs[k] = l.ds.Sample(i)
				<-sem
			}(k, i)
		}
		wg.Wait()
	}
	for _, e := range errs {
		if e != nil {
			return Batch{}, false, e
		}
	}
	b, err = Collate(samples, l.ds.Novel())
	if err != nil {
		return Batch{}, false, err
	}
	return b, true, nil
}
