// Package eventbus is a typed in-process publish/subscribe bus. The
// compiler and tool server publish events without knowing who listens;
// logging and tracing attach as subscribers at startup.
package eventbus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// Bus dispatches events to subscribers keyed by the event's dynamic type.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[reflect.Type][]subscription
}

type subscription struct {
	id int
	fn func(context.Context, any)
}

// New creates an empty Bus.
func New() *Bus { return &Bus{subs: make(map[reflect.Type][]subscription)} }

func (b *Bus) add(t reflect.Type, fn func(context.Context, any)) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[t]
		for i, sub := range list {
			if sub.id == id {
				list = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(b.subs, t)
		} else {
			b.subs[t] = list
		}
	}
}

func (b *Bus) emit(ctx context.Context, e any) {
	if b == nil {
		return
	}
	t := reflect.TypeOf(e)
	b.mu.RLock()
	list := append([]subscription(nil), b.subs[t]...)
	b.mu.RUnlock()
	for _, sub := range list {
		sub.fn(ctx, e)
	}
}

var active atomic.Pointer[Bus]

// Use installs b as the process-wide bus. Passing nil disables publishing.
func Use(b *Bus) { active.Store(b) }

// Subscribe registers fn for events of type T on the active bus. The
// returned cancel removes the subscription. Subscribing while no bus is
// active is a no-op.
func Subscribe[T any](fn func(context.Context, T)) (cancel func()) {
	b := active.Load()
	if b == nil {
		return func() {}
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	return b.add(t, func(ctx context.Context, e any) { fn(ctx, e.(T)) })
}

// Publish sends e to every subscriber of its type on the active bus.
func Publish[T any](ctx context.Context, e T) {
	if b := active.Load(); b != nil {
		b.emit(ctx, e)
	}
}
