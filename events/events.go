// Package events publishes resolution-step and invocation events onto
// a github.com/docker/go-events Broadcaster, the way
// notifications/bridge.go fans registry events out to configured
// sinks. Subscribers Subscribe and drain a Channel; nothing in this package blocks a publisher on a
// slow subscriber beyond the Broadcaster's own fan-out.
package events

import (
	"time"

	goevents "github.com/docker/go-events"
)

// Event is the sealed interface implemented by InvokeEvent and
// StepEvent, the two event shapes this package ever publishes.
type Event interface {
	sealed()
}

// InvokeEvent records one Invoke call, top-level or a sub-invocation
// issued through a HostHandle: its target, outcome, and wall-clock
// duration.
type InvokeEvent struct {
	Uri      string
	Method   string
	Duration time.Duration
	Err      error
}

func (InvokeEvent) sealed() {}

// StepEvent mirrors one wrap.UriResolutionStep. The invoker publishes
// these once an Invoke call has finished, by walking the call's
// ResolutionContext History(), not as each step is appended.
type StepEvent struct {
	SourceUri   string
	Description string
	Err         error
}

func (StepEvent) sealed() {}

// Bus fans InvokeEvent and StepEvent values out to every subscribed
// sink. The zero value is not usable; construct with NewBus.
type Bus struct {
	broadcaster *goevents.Broadcaster
}

// NewBus returns an empty Bus with no subscribers.
func NewBus() *Bus {
	return &Bus{broadcaster: goevents.NewBroadcaster()}
}

// Subscribe registers a new listener and returns a Channel to read
// published events from, plus an unsubscribe func the caller must
// invoke when done listening.
func (b *Bus) Subscribe() (*goevents.Channel, func()) {
	ch := goevents.NewChannel(16)
	b.broadcaster.Add(ch)
	return ch, func() { b.broadcaster.Remove(ch) }
}

// PublishInvoke writes e to every subscriber.
func (b *Bus) PublishInvoke(e InvokeEvent) {
	_ = b.broadcaster.Write(e)
}

// PublishStep writes e to every subscriber.
func (b *Bus) PublishStep(e StepEvent) {
	_ = b.broadcaster.Write(e)
}

// Close shuts the broadcaster down, closing every subscribed sink.
func (b *Bus) Close() error {
	return b.broadcaster.Close()
}
