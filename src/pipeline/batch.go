// Package pipeline runs the batch subtraction: the query is extracted once and then every target in the siglist is processed as an independent unit.
package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/will-rowe/sigsub/src/logger"
	"github.com/will-rowe/sigsub/src/minhash"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultProgressStride is how many started units pass between progress messages
const DefaultProgressStride uint64 = 1000

// Config controls a batch run
type Config struct {
	Template       minhash.Template
	OutDir         string // the ksize scoped directory returned by PrepareOutDir
	NumProc        int    // number of units processed at once (>=1)
	ProgressStride uint64 // log every n started units; 0 uses DefaultProgressStride
}

// Run subtracts the query hashes from every target, writing one signature per target to cfg.OutDir.
// The first unit to fail stops any more units being started; units already running are left to finish
// and nothing they wrote is removed. The first error is returned along with the results of the units that succeeded.
func Run(ctx context.Context, cfg Config, query minhash.HashSet, targets []string) ([]*UnitResult, error) {
	if cfg.NumProc < 1 {
		cfg.NumProc = 1
	}
	if cfg.ProgressStride == 0 {
		cfg.ProgressStride = DefaultProgressStride
	}
	if err := checkOutputNames(targets); err != nil {
		return nil, err
	}

	var (
		started atomic.Uint64
		mu      sync.Mutex
		results = make([]*UnitResult, 0, len(targets))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.NumProc)

dispatch:
	for _, target := range targets {
		select {
		case <-gctx.Done():
			break dispatch
		default:
		}
		target := target
		g.Go(func() error {

			// the group may have been cancelled while this unit waited for a slot
			if gctx.Err() != nil {
				return nil
			}
			if i := started.Add(1) - 1; i%cfg.ProgressStride == 0 {
				logger.Info("processed sigs", zap.Uint64("count", i))
			}
			result, err := subtractOne(&cfg, query, target)
			if err != nil {
				return err
			}
			logger.Debug("subtracted", zap.String("target", target), zap.Int("removed", result.Removed()), zap.Int("retained", result.SizeAfter))
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
