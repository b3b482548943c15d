package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.Accepted()
	c.Accepted()
	c.Rejected("double_spend")
	c.SetPoolSize(7)

	require.Equal(t, 2.0, testutil.ToFloat64(c.accepted))
	require.Equal(t, 1.0, testutil.ToFloat64(c.rejected.WithLabelValues("double_spend")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.rejected.WithLabelValues("missing_utxo")))
	require.Equal(t, 7.0, testutil.ToFloat64(c.poolSize))

	_, err = NewCollector(reg)
	require.Error(t, err)
}
