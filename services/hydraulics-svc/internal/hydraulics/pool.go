package hydraulics

import (
	"context"
	"sync"
)

// =============================================================================
// Pool
// =============================================================================

// DefaultWorkers размер пула при maxConcurrency <= 0
const DefaultWorkers = 10

// Pool ограничивает число одновременных расчётов.
//
// Один расчёт однопоточный; пул распараллеливает независимые вызовы
// (методы в Compare, точки свипа, задачи Batch).
//
// # Example
//
//	pool := NewPool(runtime.NumCPU())
//	results := pool.Batch(ctx, []BatchTask{
//	    {TaskID: "hb", Input: hbInput},
//	    {TaskID: "bb", Input: bbInput},
//	})
type Pool struct {
	workers chan struct{}
	opts    []Option
}

// NewPool создаёт пул на maxConcurrency слотов; opts передаются в каждый Calculate
func NewPool(maxConcurrency int, opts ...Option) *Pool {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultWorkers
	}
	return &Pool{
		workers: make(chan struct{}, maxConcurrency),
		opts:    opts,
	}
}

// Workers максимальная параллельность
func (p *Pool) Workers() int {
	return cap(p.workers)
}

// InFlight занятые слоты
func (p *Pool) InFlight() int {
	return len(p.workers)
}

// Acquire занимает слот; блокируется до освобождения слота или отмены ctx.
// После успешного Acquire нужно ровно один раз вызвать Release.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.workers <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release освобождает слот
func (p *Pool) Release() {
	<-p.workers
}

// CalculatePooled Calculate в слоте пула
func (p *Pool) CalculatePooled(ctx context.Context, in *Input) (*Result, error) {
	if err := p.Acquire(ctx); err != nil {
		return nil, ContextError(err)
	}
	defer p.Release()

	return Calculate(ctx, in, p.opts...)
}

// BatchTask одна задача пакетного расчёта
type BatchTask struct {
	// TaskID идентификатор для сопоставления результатов
	TaskID string
	Input  *Input
}

// BatchResult результат задачи; порядок совпадает с порядком задач
type BatchResult struct {
	TaskID string
	Result *Result
	Err    error
}

// Batch считает задачи параллельно в пределах пула и ждёт завершения всех
func (p *Pool) Batch(ctx context.Context, tasks []BatchTask) []BatchResult {
	results := make([]BatchResult, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, t BatchTask) {
			defer wg.Done()
			res, err := p.CalculatePooled(ctx, t.Input)
			results[idx] = BatchResult{
				TaskID: t.TaskID,
				Result: res,
				Err:    err,
			}
		}(i, task)
	}

	wg.Wait()
	return results
}
