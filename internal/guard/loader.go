package guard

import (
	"context"
	"fmt"

	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/tenant"
)

// Loader reads live snapshots through a system guard so the notifier never
// touches the store directly.
type Loader struct {
	b *Backend
}

var _ live.Loader = (*Loader)(nil)

// NewLoader creates a snapshot loader over b.
func NewLoader(b *Backend) *Loader {
	return &Loader{b: b}
}

// Load returns the current data for resource: []*models.Todo, *models.Pet,
// []*models.Message or []*models.HistoryEntry.
func (l *Loader) Load(ctx context.Context, tenantID string, resource live.Resource) (any, error) {
	g, err := New(l.b, tenant.System(tenantID))
	if err != nil {
		return nil, err
	}

	switch resource {
	case live.ResourceTodos:
		return g.ListTodos(ctx)
	case live.ResourcePet:
		return g.Pet(ctx)
	case live.ResourceMessages:
		return g.Messages(ctx, DefaultListLimit)
	case live.ResourceHistory:
		return g.History(ctx, DefaultListLimit)
	default:
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
}
