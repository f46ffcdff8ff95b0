package live

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const shardCount = 16

// Subscription is the handle returned by Registry.Add.
type Subscription struct {
	id   uint64
	key  Key
	sink Sink
}

// ID returns the process-unique subscription id.
func (s *Subscription) ID() uint64 { return s.id }

// Key returns the (tenant, resource) the subscription is registered under.
func (s *Subscription) Key() Key { return s.key }

// Sink returns the subscribed sink.
func (s *Subscription) Sink() Sink { return s.sink }

type shard struct {
	mu   sync.RWMutex
	subs map[Key]map[uint64]*Subscription
}

// Registry is a concurrent map from Key to the set of live subscriptions.
// Keys are spread over lock-striped shards so unrelated tenants do not contend.
type Registry struct {
	shards [shardCount]shard
	nextID atomic.Uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].subs = make(map[Key]map[uint64]*Subscription)
	}
	return r
}

func (r *Registry) shardFor(key Key) *shard {
	h := fnv.New32a()
	h.Write([]byte(key.TenantID))
	h.Write([]byte{0})
	h.Write([]byte(key.Resource))
	return &r.shards[h.Sum32()%shardCount]
}

// Add registers sink under key.
func (r *Registry) Add(key Key, sink Sink) *Subscription {
	sub := &Subscription{id: r.nextID.Add(1), key: key, sink: sink}

	s := r.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.subs[key]
	if !ok {
		set = make(map[uint64]*Subscription)
		s.subs[key] = set
	}
	set[sub.id] = sub
	return sub
}

// Remove deletes sub. It reports whether sub was still registered, so
// concurrent removals of the same handle are counted once.
func (r *Registry) Remove(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	s := r.shardFor(sub.key)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.subs[sub.key]
	if !ok {
		return false
	}
	if _, ok := set[sub.id]; !ok {
		return false
	}
	delete(set, sub.id)
	if len(set) == 0 {
		delete(s.subs, sub.key)
	}
	return true
}

// Subscribers returns a copy of the subscriptions registered under key.
// Callers iterate the copy without holding any lock.
func (r *Registry) Subscribers(key Key) []*Subscription {
	s := r.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.subs[key]
	out := make([]*Subscription, 0, len(set))
	for _, sub := range set {
		out = append(out, sub)
	}
	return out
}

// Len returns the number of subscriptions under key.
func (r *Registry) Len(key Key) int {
	s := r.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[key])
}
