package redisbus

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/petpals/internal/live"
)

type recordingFanOut struct {
	mu    sync.Mutex
	calls []live.Key
}

func (r *recordingFanOut) FanOut(_ context.Context, tenantID string, resource live.Resource) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, live.Key{TenantID: tenantID, Resource: resource})
	return 1
}

func TestEventEncoding(t *testing.T) {
	ev := Event{Origin: "replica-1", TenantID: "org-a", Resource: "pet"}

	data, err := encodeEvent(ev)
	require.NoError(t, err)

	got, err := decodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = decodeEvent([]byte{0xff, 0x00})
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	bus := newBus(nil, "", "self", nil)
	assert.Equal(t, DefaultChannel, bus.channel)

	encode := func(ev Event) []byte {
		data, err := encodeEvent(ev)
		require.NoError(t, err)
		return data
	}

	tests := []struct {
		name    string
		event   Event
		wantErr bool
		want    []live.Key
	}{
		{
			name:  "foreign event fans out",
			event: Event{Origin: "other", TenantID: "org-a", Resource: "todos"},
			want:  []live.Key{{TenantID: "org-a", Resource: live.ResourceTodos}},
		},
		{
			name:  "own event ignored",
			event: Event{Origin: "self", TenantID: "org-a", Resource: "todos"},
		},
		{
			name:    "unknown resource",
			event:   Event{Origin: "other", TenantID: "org-a", Resource: "invoices"},
			wantErr: true,
		},
		{
			name:    "missing tenant",
			event:   Event{Origin: "other", Resource: "pet"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &recordingFanOut{}
			err := bus.handle(context.Background(), encode(tt.event), target)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, target.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, target.calls)
		})
	}
}
