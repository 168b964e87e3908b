package export

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mgpai22/snip/internal/command"
	"github.com/mgpai22/snip/internal/video"
)

// exported clip
type Result struct {
	Index  int
	Output string
}

// Run trims every command through proc using up to concurrency workers.
// If concurrency is 0 or negative, it defaults to 2. The first failure stops
// new trims from starting and is returned.
func Run(
	ctx context.Context,
	proc video.Processor,
	input string,
	cmds []command.Command,
	concurrency int,
) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = 2
	}

	var (
		mu       sync.Mutex
		results  []Result
		firstErr error
		wg       sync.WaitGroup
	)

	// semaphore to limit concurrent ffmpeg processes
	sem := make(chan struct{}, concurrency)

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for _, c := range cmds {
		if ctx.Err() != nil || failed() {
			break
		}

		wg.Add(1)
		go func(c command.Command) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil || failed() {
				return
			}

			err := proc.Trim(ctx, input, c.Output, c.Segment, c.OpenEnded)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to export segment %d: %w", c.Index, err)
				}
				return
			}
			results = append(results, Result{Index: c.Index, Output: c.Output})
		}(c)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	return results, nil
}
