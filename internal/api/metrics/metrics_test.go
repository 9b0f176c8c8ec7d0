package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDatabase(t *testing.T) {
	before := testutil.ToFloat64(DatabaseDisconnectsTotal)

	ObserveDatabase(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(DatabaseUp))

	ObserveDatabase(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(DatabaseUp))
	assert.Equal(t, before+1, testutil.ToFloat64(DatabaseDisconnectsTotal))
}
