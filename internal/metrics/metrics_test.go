package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMode(t *testing.T) {
	assert.Equal(t, ModeDetailed, Mode(true))
	assert.Equal(t, ModeBasic, Mode(false))
}

func TestLookupFailuresByCollaborator(t *testing.T) {
	before := testutil.ToFloat64(LookupFailures.WithLabelValues(CollaboratorLocation))
	LookupFailures.WithLabelValues(CollaboratorLocation).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LookupFailures.WithLabelValues(CollaboratorLocation)))
}
