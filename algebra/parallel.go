package algebra

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/manybody/secondq/logger"
	"github.com/manybody/secondq/rational"
)

// expansionLogger wraps the shared zap logger with the lifecycle verbs the
// expansion pool logs with.
type expansionLogger struct {
	*zap.SugaredLogger
}

func (l expansionLogger) Starting(msg string, keysAndValues ...interface{}) {
	l.Debugw(msg, keysAndValues...)
}

func (l expansionLogger) Closing(msg string, keysAndValues ...interface{}) {
	l.Debugw(msg, keysAndValues...)
}

// expansionJob is one term handed to a worker, keyed so results can be
// attributed in logs.
type expansionJob struct {
	term  *Term
	coeff rational.Rational
}

// ParallelVacuumNormalOrder expands every term of expr through the Wick
// engine on a fixed pool of workers. Each term's expansion is independent;
// the partial expressions funnel through a single aggregation goroutine, and
// since merging is commutative the completion order does not affect the
// result. The registry is frozen for the duration so configuration cannot
// shift while expansions are in flight. Cancellation of ctx, or the first
// per-term error, cancels outstanding work and is returned; the input is
// never mutated.
func (e *Engine) ParallelVacuumNormalOrder(ctx context.Context, expr *Expression, workers int) (*Expression, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	entries := expr.Entries()
	if len(entries) == 0 {
		return NewExpression(), nil
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	e.registry.Freeze()
	defer e.registry.Thaw()

	log := expansionLogger{logger.Logger.Named("wick-pool")}
	log.Starting("expansion pool starting",
		logger.FieldWorkers, workers,
		logger.FieldTermCount, len(entries),
	)

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan expansionJob)
	results := make(chan *Expression, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				expanded, err := e.NormalOrder(job.term)
				if err != nil {
					select {
					case errs <- err:
					default:
					}
					cancel()
					return
				}
				select {
				case results <- expanded.ScalarMultiply(job.coeff):
				case <-workCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, ent := range entries {
			select {
			case jobs <- expansionJob{term: ent.Term, coeff: ent.Coefficient}:
			case <-workCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single aggregation point: merge order is performance-only, never
	// correctness-affecting.
	merged := NewExpression()
	for partial := range results {
		merged.Add(partial)
	}

	select {
	case err := <-errs:
		log.Closing("expansion pool aborted", logger.FieldError, err)
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		log.Closing("expansion pool cancelled", logger.FieldError, err)
		return nil, err
	}

	log.Closing("expansion pool drained", logger.FieldTermCount, merged.Size())
	return merged, nil
}
