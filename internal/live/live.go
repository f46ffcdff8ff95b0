// Package live fans out tenant snapshots to connected streaming clients.
//
// A stream registers a Sink for a (tenant, resource) key. Every guarded write
// calls Hub.Notify, which reloads the authoritative snapshot and hands it to
// every sink registered for the key. Snapshots are full replacements, so a
// duplicate delivery is harmless.
package live

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Resource names a kind of tenant state a client can watch.
type Resource string

const (
	ResourceTodos    Resource = "todos"
	ResourcePet      Resource = "pet"
	ResourceMessages Resource = "messages"
	ResourceHistory  Resource = "history"
)

// Resources lists every watchable resource.
var Resources = []Resource{ResourceTodos, ResourcePet, ResourceMessages, ResourceHistory}

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	switch r {
	case ResourceTodos, ResourcePet, ResourceMessages, ResourceHistory:
		return true
	}
	return false
}

// ParseResource converts a string into a Resource.
func ParseResource(s string) (Resource, error) {
	r := Resource(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown resource %q", s)
	}
	return r, nil
}

// Key identifies a subscriber set.
type Key struct {
	TenantID string
	Resource Resource
}

func (k Key) String() string {
	return k.TenantID + "/" + string(k.Resource)
}

// Snapshot is the full current state of one resource for one tenant.
//
// Seq is drawn from a hub-wide counter before the load starts, so a snapshot
// with a higher Seq never reflects older state than one with a lower Seq.
// Zero means unsequenced.
type Snapshot struct {
	TenantID string
	Resource Resource
	Data     any
	TakenAt  time.Time
	Seq      uint64
}

// ErrClosed is returned by a Sink that no longer accepts snapshots.
var ErrClosed = errors.New("live: sink closed")

// Sink receives snapshots. Deliver must not block on a slow reader.
type Sink interface {
	Deliver(Snapshot) error
}

// Loader reads the authoritative snapshot data for a key.
type Loader interface {
	Load(ctx context.Context, tenantID string, resource Resource) (any, error)
}

// Broadcaster forwards a change notification to other server replicas.
type Broadcaster interface {
	Publish(ctx context.Context, tenantID string, resource Resource) error
}
