package child

import (
	"errors"
	"io"
	"sync"
)

// Bundle aggregates ownership of the auxiliary resources produced while
// launching a process, such as redirect files and pipe ends. Those resources
// must stay open for as long as the process handle that depends on them, so
// the bundle travels with the Child and is released exactly once when the
// Child is closed.
type Bundle struct {
	once    sync.Once
	closers []io.Closer
	err     error
}

// NewBundle collects the resources produced by the launch initializers.
// Initializers that produced nothing contribute a nil entry; nils are
// discarded and the relative order of the remaining resources is preserved.
// If nothing survives the filter the bundle is nil, which is a valid empty
// bundle requiring no release.
func NewBundle(resources ...io.Closer) *Bundle {
	kept := make([]io.Closer, 0, len(resources))
	for _, r := range resources {
		if r == nil {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return nil
	}
	return &Bundle{closers: kept}
}

// Close releases every resource in the bundle, in reverse of the order they
// were produced. Only the first call releases anything; repeated calls and
// calls on a nil bundle return the first call's result and nil respectively.
func (b *Bundle) Close() error {
	if b == nil {
		return nil
	}
	b.once.Do(func() {
		var errs []error
		for i := len(b.closers) - 1; i >= 0; i-- {
			if err := b.closers[i].Close(); err != nil {
				errs = append(errs, err)
			}
		}
		b.closers = nil
		b.err = errors.Join(errs...)
	})
	return b.err
}
