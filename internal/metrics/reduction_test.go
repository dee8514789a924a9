package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReductionMetrics_ObserveSuccess(t *testing.T) {
	t.Parallel()

	m := NewReductionMetrics()
	m.ObserveSuccess("loop", 4, 100, 20*time.Millisecond)
	m.ObserveSuccess("loop", 8, 50, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reductions.WithLabelValues("loop", StatusSuccess)))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.workers))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.integers))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestReductionMetrics_ObserveFailure(t *testing.T) {
	t.Parallel()

	m := NewReductionMetrics()
	m.ObserveFailure("formula", StatusTimeout)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reductions.WithLabelValues("formula", StatusTimeout)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.integers))
}

func TestReductionMetrics_WriteToFile(t *testing.T) {
	t.Parallel()

	m := NewReductionMetrics()
	m.ObserveSuccess("formula", 2, 10, time.Millisecond)

	path := filepath.Join(t.TempDir(), "rangesum.prom")
	require.NoError(t, m.WriteToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	for _, name := range []string{
		"rangesum_reductions_total",
		"rangesum_reduction_duration_seconds",
		"rangesum_workers",
		"rangesum_integers_summed_total",
		"go_goroutines",
	} {
		assert.True(t, strings.Contains(body, name), "metrics file should contain %s", name)
	}
}
