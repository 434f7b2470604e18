package hydraulics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellflow/pkg/apperror"
	"wellflow/services/hydraulics-svc/internal/pvt"
)

const brokenMethod Method = "broken"

// broken всегда возвращает NaN-градиент
type broken struct{}

func (broken) Name() Method { return brokenMethod }

func (broken) Step(*State) StepResult {
	return StepResult{Holdup: 0.5, Elevation: math.NaN()}
}

func init() {
	Register(broken{}, "Broken", "always fails")
}

func TestCompare_AllMethods(t *testing.T) {
	cmp, err := Compare(context.Background(), scenarioInput(""), nil)
	require.NoError(t, err)

	assert.Equal(t, AllMethods(), cmp.Order)
	assert.Len(t, cmp.Results, 10)
	assert.Equal(t, 10, cmp.Statistics.Successful)
	assert.Zero(t, cmp.Statistics.Failed)

	var bhp []float64
	for _, m := range cmp.Order {
		o := cmp.Results[m]
		require.True(t, o.OK(), "method %s failed: %s", m, o.Error)
		assert.Equal(t, m, o.Result.Method)
		bhp = append(bhp, o.Result.BottomholePressure)
	}

	s := cmp.Statistics
	assert.LessOrEqual(t, s.Min, s.Average)
	assert.GreaterOrEqual(t, s.Max, s.Average)
	assert.InDelta(t, s.Max-s.Min, s.Range, 1e-9)
	assert.InDelta(t, s.Range/s.Average*100, s.PercentRange, 1e-9)
	assert.Greater(t, s.StdDev, 0.0)
	assert.Len(t, cmp.Successful(), 10)
}

func TestCompare_SingleMethodEqualsCalculate(t *testing.T) {
	for _, m := range []Method{MethodHagedornBrown, MethodAnsari, MethodMukherjeeBrill} {
		t.Run(string(m), func(t *testing.T) {
			want, err := Calculate(context.Background(), scenarioInput(m))
			require.NoError(t, err)

			cmp, err := Compare(context.Background(), scenarioInput(""), []Method{m})
			require.NoError(t, err)

			got := cmp.Results[m].Result
			assert.Equal(t, want.BottomholePressure, got.BottomholePressure)
			assert.Equal(t, want.Points, got.Points)
			assert.Equal(t, want.BottomholePressure, cmp.Statistics.Average)
			assert.Zero(t, cmp.Statistics.StdDev)
		})
	}
}

func TestCompare_FailureIsolated(t *testing.T) {
	cmp, err := Compare(context.Background(), scenarioInput(""),
		[]Method{MethodHagedornBrown, brokenMethod, MethodGray})
	require.NoError(t, err)

	assert.Equal(t, 2, cmp.Statistics.Successful)
	assert.Equal(t, 1, cmp.Statistics.Failed)

	failed := cmp.Results[brokenMethod]
	assert.False(t, failed.OK())
	assert.True(t, apperror.Is(failed.Err, apperror.CodeCalculationFailed))
	assert.NotEmpty(t, failed.Error)

	assert.True(t, cmp.Results[MethodGray].OK())
}

func TestCompare_Errors(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		in := scenarioInput("")
		in.SurfacePressure = 0
		_, err := Compare(context.Background(), in, nil)
		assert.True(t, apperror.Is(err, apperror.CodeInvalidInput))
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := Compare(context.Background(), scenarioInput(""), []Method{MethodGray, "nope"})
		assert.True(t, apperror.Is(err, apperror.CodeUnknownMethod))
	})

	t.Run("nothing succeeded", func(t *testing.T) {
		failing := pvt.Func(func(float64, float64, pvt.Fluid) (pvt.Properties, error) {
			return pvt.Properties{}, errors.New("boom")
		})
		cmp, err := Compare(context.Background(), scenarioInput(""), []Method{MethodGray, MethodAziz}, WithProvider(failing))
		assert.True(t, apperror.Is(err, apperror.CodeNoSuccessfulMethod))
		require.NotNil(t, cmp)
		assert.Equal(t, 2, cmp.Statistics.Failed)
	})

	t.Run("nil input", func(t *testing.T) {
		_, err := Compare(context.Background(), nil, nil)
		assert.True(t, apperror.Is(err, apperror.CodeNilInput))
	})
}

func TestCompare_DuplicateMethods(t *testing.T) {
	cmp, err := NewPool(4).Compare(context.Background(), scenarioInput(""),
		[]Method{MethodGray, MethodGray, MethodAziz})
	require.NoError(t, err)
	assert.Equal(t, []Method{MethodGray, MethodAziz}, cmp.Order)
}
