package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector("")
	c.ObserveMutation("transaction", "created", 3)
	c.ObserveMutation("transaction", "created", 4)
	c.ObserveMutation("product", "deleted", 5)
	c.ObservePersistenceFailure("inventory")
	c.ObserveRebuild(2)

	require.Equal(t, 2.0, testutil.ToFloat64(c.mutations.WithLabelValues("transaction", "created")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("product", "deleted")))
	require.Equal(t, 5.0, testutil.ToFloat64(c.revision))
	require.Equal(t, 1.0, testutil.ToFloat64(c.persistenceFailures.WithLabelValues("inventory")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.rebuildMismatches))
}

func TestWriteTextfile(t *testing.T) {
	c := NewCollector("test")
	c.ObserveMutation("product", "created", 1)

	path := filepath.Join(t.TempDir(), "ledger.prom")
	require.NoError(t, c.WriteTextfile(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `test_ledger_mutations_total{action="created",reference="product"} 1`))
}
