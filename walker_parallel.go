// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"path"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-sah-extract/archive"
	"golang.org/x/sync/errgroup"
)

// runParallel extracts folder like extractDir, but hands sibling subtrees to
// a pool of Concurrency() workers. A directory and its files are always
// written before its subdirectories are scheduled. If the pool is busy, the
// subtree is extracted by the current goroutine.
//
// After the first failure no new directories are entered. All errors that
// occurred are returned.
func (w *walker) runParallel(ctx context.Context, dst string, rel string, folder *archive.Directory) error {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu     sync.Mutex
		result *multierror.Error
		failed atomic.Bool
	)
	fail := func(err error) {
		// the bare ctx.Err() of a branch stopped by an earlier failure is
		// not an error of its own
		if err == context.Canceled && failed.Load() && parent.Err() == nil {
			return
		}
		failed.Store(true)
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
		w.errs.Add(1)
		cancel()
	}

	g := &errgroup.Group{}
	g.SetLimit(w.cfg.Concurrency())

	var visit func(dst string, rel string, d *archive.Directory)
	visit = func(dst string, rel string, d *archive.Directory) {
		if ctx.Err() != nil {
			return
		}
		if err := w.enterDir(ctx, dst, rel, d); err != nil {
			fail(err)
			return
		}

		for _, child := range d.Directories {
			child := child
			childDst, err := joinEntry(dst, child.Name)
			if err != nil {
				fail(err)
				return
			}
			childRel := path.Join(rel, child.Name)

			task := func() error {
				visit(childDst, childRel, child)
				return nil
			}
			if !g.TryGo(task) {
				_ = task()
			}
		}
	}

	visit(dst, rel, folder)
	_ = g.Wait()

	// report cancellation by the caller
	if err := parent.Err(); err != nil && result == nil {
		w.errs.Add(1)
		return err
	}

	if result == nil {
		return nil
	}
	if len(result.Errors) == 1 {
		return result.Errors[0]
	}
	return result
}
