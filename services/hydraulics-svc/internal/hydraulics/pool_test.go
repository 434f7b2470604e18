package hydraulics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellflow/pkg/apperror"
)

func TestNewPool(t *testing.T) {
	assert.Equal(t, DefaultWorkers, NewPool(0).Workers())
	assert.Equal(t, DefaultWorkers, NewPool(-3).Workers())
	assert.Equal(t, 3, NewPool(3).Workers())
}

func TestPool_Batch(t *testing.T) {
	pool := NewPool(3)
	tasks := []BatchTask{
		{TaskID: "hb", Input: scenarioInput(MethodHagedornBrown)},
		{TaskID: "bad", Input: scenarioInput("nope")},
		{TaskID: "gray", Input: scenarioInput(MethodGray)},
	}

	results := pool.Batch(context.Background(), tasks)
	require.Len(t, results, 3)

	assert.Equal(t, "hb", results[0].TaskID)
	require.NoError(t, results[0].Err)
	assert.Equal(t, MethodHagedornBrown, results[0].Result.Method)

	assert.Equal(t, "bad", results[1].TaskID)
	assert.True(t, apperror.Is(results[1].Err, apperror.CodeUnknownMethod))

	require.NoError(t, results[2].Err)
	assert.Equal(t, MethodGray, results[2].Result.Method)
	assert.Zero(t, pool.InFlight())
}

func TestPool_ConcurrentCalculations(t *testing.T) {
	pool := NewPool(4)
	var wg sync.WaitGroup
	errs := make(chan error, 32)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(m Method) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := pool.CalculatePooled(ctx, scenarioInput(m)); err != nil {
				errs <- err
			}
		}(AllMethods()[i%10])
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestPool_Exhaustion(t *testing.T) {
	pool := NewPool(1)
	require.NoError(t, pool.Acquire(context.Background()))
	assert.Equal(t, 1, pool.InFlight())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.CalculatePooled(ctx, scenarioInput(MethodHagedornBrown))
	assert.True(t, apperror.Is(err, apperror.CodeTimeout))

	pool.Release()
	_, err = pool.CalculatePooled(context.Background(), scenarioInput(MethodHagedornBrown))
	assert.NoError(t, err)
}
