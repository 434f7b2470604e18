package hydraulics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellflow/pkg/apperror"
)

func TestSolveForSurfacePressure_Converges(t *testing.T) {
	res, err := SolveForSurfacePressure(context.Background(), scenarioInput(MethodHagedornBrown), 3000, DefaultTargetConfig())
	require.NoError(t, err)

	require.NotNil(t, res.TargetBHP)
	assert.Equal(t, 3000.0, *res.TargetBHP)
	assert.InDelta(t, 3000, res.BottomholePressure, DefaultTargetTolerance)
	assert.Greater(t, res.SurfacePressure, 50.0)
	assert.LessOrEqual(t, res.SurfacePressure, 2700.0)
}

func TestSolveForSurfacePressure_Unreachable(t *testing.T) {
	// даже минимальное устьевое давление даёт забойное выше цели
	res, err := SolveForSurfacePressure(context.Background(), scenarioInput(MethodHagedornBrown), 1000, DefaultTargetConfig())
	require.Error(t, err)

	assert.True(t, apperror.Is(err, apperror.CodeTargetNotConverged))
	assert.True(t, apperror.IsWarning(err))
	require.NotNil(t, res)
	require.NotNil(t, res.TargetBHP)
	assert.Equal(t, 1000.0, *res.TargetBHP)
	assert.Equal(t, DefaultTargetMaxIterations, apperror.DetailsOf(err)["iterations"])
}

func TestSolveForSurfacePressure_InvalidTarget(t *testing.T) {
	for _, target := range []float64{0, -100} {
		_, err := SolveForSurfacePressure(context.Background(), scenarioInput(MethodHagedornBrown), target, DefaultTargetConfig())
		assert.True(t, apperror.Is(err, apperror.CodeInvalidRange), "target %g", target)
	}

	_, err := SolveForSurfacePressure(context.Background(), nil, 3000, TargetConfig{})
	assert.True(t, apperror.Is(err, apperror.CodeNilInput))
}

func TestSolveForSurfacePressure_ZeroConfigUsesDefaults(t *testing.T) {
	res, err := SolveForSurfacePressure(context.Background(), scenarioInput(MethodHagedornBrown), 3000, TargetConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 3000, res.BottomholePressure, DefaultTargetTolerance)
}

func TestSolveForSurfacePressure_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SolveForSurfacePressure(ctx, scenarioInput(MethodHagedornBrown), 3000, DefaultTargetConfig())
	assert.True(t, apperror.Is(err, apperror.CodeUnavailable))
}
