package tailoring

import (
	"context"
	"sync"

	"cvtailor-backend/internal/stages"
)

const defaultStageWorkers = 4

// StageDispatcher turns each stage invocation into a queued unit of work.
// Run submits a job to the stage queue and blocks until a pool worker signals
// completion, so the retry coordinator keeps its synchronous contract while
// stage execution is scheduled independently of the caller.
type StageDispatcher struct {
	runner StageRunner
	jobs   chan *stageJob
	wg     sync.WaitGroup
	once   sync.Once
}

type stageJob struct {
	ctx     context.Context
	stage   stages.Stage
	payload stages.Payload
	done    chan stageOutcome
}

type stageOutcome struct {
	res stages.Result
	err error
}

var _ StageRunner = (*StageDispatcher)(nil)

// NewStageDispatcher starts a pool of the given size consuming the stage
// queue. A size below one falls back to the default.
func NewStageDispatcher(runner StageRunner, workers int) *StageDispatcher {
	if workers < 1 {
		workers = defaultStageWorkers
	}
	d := &StageDispatcher{
		runner: runner,
		jobs:   make(chan *stageJob),
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}
	return d
}

func (d *StageDispatcher) work() {
	defer d.wg.Done()
	for job := range d.jobs {
		res, err := d.runner.Run(job.ctx, job.stage, job.payload)
		job.done <- stageOutcome{res: res, err: err}
	}
}

// Run submits the stage to the job queue and waits on its completion signal.
// A cancelled context abandons the wait; the buffered done channel lets the
// worker finish without blocking.
func (d *StageDispatcher) Run(ctx context.Context, stage stages.Stage, p stages.Payload) (stages.Result, error) {
	job := &stageJob{ctx: ctx, stage: stage, payload: p, done: make(chan stageOutcome, 1)}
	select {
	case d.jobs <- job:
	case <-ctx.Done():
		return stages.Result{}, ctx.Err()
	}
	select {
	case out := <-job.done:
		return out.res, out.err
	case <-ctx.Done():
		return stages.Result{}, ctx.Err()
	}
}

// Close stops the pool once in-flight jobs have finished.
func (d *StageDispatcher) Close() {
	d.once.Do(func() { close(d.jobs) })
	d.wg.Wait()
}
