package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveConflict(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		local  Version
		remote time.Time
		force  bool
		want   Decision
	}{
		{"NoLocal", Version{}, t1, false, DecisionCreate},
		{"NoLocalForced", Version{}, t1, true, DecisionCreate},
		{"LocalNewer", Version{Exists: true, ModifiedAt: t1}, t2, false, DecisionKeepLocal},
		{"LocalEqual", Version{Exists: true, ModifiedAt: t1}, t1, false, DecisionKeepLocal},
		{"RemoteNewer", Version{Exists: true, ModifiedAt: t2}, t1, false, DecisionOverwrite},
		{"LocalNewerForced", Version{Exists: true, ModifiedAt: t1}, t2, true, DecisionOverwrite},
		{"RemoteMissing", Version{Exists: true, ModifiedAt: t2}, time.Time{}, false, DecisionKeepLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveConflict(tt.local, tt.remote, tt.force))
		})
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "create", DecisionCreate.String())
	assert.Equal(t, "overwrite", DecisionOverwrite.String())
	assert.Equal(t, "keep_local", DecisionKeepLocal.String())
}
