package async

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// OrderedMap applies fn to every item with at most limit concurrent calls and
// returns the results in the order of items.
//
// Behavior:
//   - limit < 1 runs the calls sequentially
//   - the first error cancels the context passed to pending calls and is returned
//   - a panic in fn is recovered, logged with its stack and returned as an error
func OrderedMap[T, R any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	if limit < 1 {
		limit = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, item := range items {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					ctxlog.From(egCtx).Error("panic in async handler",
						"recover", r,
						"stack", string(stack))
					err = goerr.New("panic in async handler", goerr.V("recover", fmt.Sprint(r)))
				}
			}()

			result, err := fn(egCtx, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
