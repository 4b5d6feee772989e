package proofread

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

const (
	DefaultBatchSize   = 80
	DefaultConcurrency = 3
)

func splitBatches[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

// runBatches runs fn over every batch with up to concurrency workers
// pulling from a shared queue. Results are concatenated in batch order.
// The first failure cancels the remaining work and is returned.
func runBatches[In, Out any](
	ctx context.Context,
	batches [][]In,
	concurrency int,
	fn func(ctx context.Context, batch []In) ([]Out, error),
) ([]Out, error) {
	if len(batches) == 0 {
		return []Out{}, nil
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if len(batches) == 1 {
		out, err := fn(ctx, batches[0])
		if err != nil {
			return nil, fmt.Errorf("batch 0 failed: %w", err)
		}
		return out, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		Index   int
		Results []Out
		Error   error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case batchIdx, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := fn(ctx, batches[batchIdx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{
						Index:   batchIdx,
						Results: results,
						Error:   err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]batchResult, 0, len(batches))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil {
			// batches aborted by our own cancel must not mask the cause
			if firstErr == nil ||
				(errors.Is(firstErr, context.Canceled) &&
					!errors.Is(result.Error, context.Canceled)) {
				firstErr = fmt.Errorf(
					"batch %d failed: %w",
					result.Index,
					result.Error,
				)
			}
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	// parent cancellation stops workers without a batch error
	if err := ctx.Err(); err != nil && len(results) < len(batches) {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var all []Out
	for _, r := range results {
		all = append(all, r.Results...)
	}
	return all, nil
}
