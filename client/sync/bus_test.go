package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusPublishReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second int
	bus.Subscribe(TopicTasksUpdated, func() { first++ })
	bus.Subscribe(TopicTasksUpdated, func() { second++ })

	bus.Publish(TopicTasksUpdated)
	bus.Publish(TopicTasksUpdated)

	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := NewBus()

	var calls int
	cancel := bus.Subscribe(TopicTasksUpdated, func() { calls++ })

	bus.Publish(TopicTasksUpdated)
	cancel()
	bus.Publish(TopicTasksUpdated)

	assert.Equal(t, 1, calls)
}

func TestBusTopicsAreIndependent(t *testing.T) {
	bus := NewBus()

	var calls int
	bus.Subscribe("other", func() { calls++ })

	bus.Publish(TopicTasksUpdated)
	assert.Equal(t, 0, calls)
}
