package transcode

import (
	"context"
	"sync"
)

// Task names one utterance conversion.
type Task struct {
	Source string
	Dest   string
}

// Outcome reports one completed task in task order.
type Outcome struct {
	Size       int64
	Transcoded bool
}

// Run converts tasks using up to workers concurrent ffmpeg processes and
// returns outcomes indexed like tasks. The first error cancels remaining
// work and is returned. progress, if non-nil, is invoked once per finished
// task from worker goroutines.
func (f *FFmpeg) Run(ctx context.Context, tasks []Task, workers int, progress func()) ([]Outcome, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]Outcome, len(tasks))
	indexes := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				task := tasks[idx]
				size, transcoded, err := f.EnsureWAV(ctx, task.Source, task.Dest)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				outcomes[idx] = Outcome{Size: size, Transcoded: transcoded}
				if progress != nil {
					progress()
				}
			}
		}()
	}

feed:
	for idx := range tasks {
		select {
		case indexes <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
