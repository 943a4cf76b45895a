package sync

import gosync "sync"

// TopicTasksUpdated is published after any snapshot change, whether from a
// refresh cycle or a local mutation. Dashboards subscribe to it instead of
// polling.
const TopicTasksUpdated = "taskUpdated"

// Bus is a minimal topic-based observer. Handlers run synchronously on the
// publishing goroutine.
type Bus struct {
	mu     gosync.RWMutex
	nextID int
	subs   map[string]map[int]func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]func())}
}

// Subscribe registers fn for topic and returns its cancel function.
func (b *Bus) Subscribe(topic string, fn func()) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	handlers := make([]func(), 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
}
