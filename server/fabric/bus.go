package fabric

import "sync"

// broadcastCap is the minimum bounded capacity spec §4.3 requires for the
// broadcast bus.
const broadcastCap = 100

// Bus is the one-producer (C7), many-consumer broadcast carrier. Publish blocks
// briefly under backpressure rather than drop a message; each subscriber gets
// its own bounded channel so one slow plot worker cannot stall delivery to
// the others beyond its own channel filling up.
type Bus struct {
	mu   sync.Mutex
	subs []chan BroadcastMessage
}

// NewBus returns an empty broadcast bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers a new consumer and returns its receive channel. Call
// Unsubscribe with the same channel when the consumer (a plot worker) exits.
func (b *Bus) Subscribe() <-chan BroadcastMessage {
	ch := make(chan BroadcastMessage, broadcastCap)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a previously subscribed channel.
func (b *Bus) Unsubscribe(ch <-chan BroadcastMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == ch {
			close(sub)
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers msg to every current subscriber, blocking on any whose
// channel is full until it has room.
func (b *Bus) Publish(msg BroadcastMessage) {
	b.mu.Lock()
	subs := make([]chan BroadcastMessage, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		sub <- msg
	}
}

// ServerInbox is the many-producer (plot workers, C8), one-consumer (C7)
// carrier.
type ServerInbox struct {
	ch chan Message
}

// NewServerInbox returns a server inbox with the given bounded capacity.
func NewServerInbox(capacity int) *ServerInbox {
	return &ServerInbox{ch: make(chan Message, capacity)}
}

// Send delivers msg, blocking if the inbox is full.
func (s *ServerInbox) Send(msg Message) { s.ch <- msg }

// Recv returns the inbox's receive side, for C7's select loop.
func (s *ServerInbox) Recv() <-chan Message { return s.ch }

// PrivateInbox is the one-producer (C7), one-consumer (target plot) carrier.
type PrivateInbox struct {
	ch chan PrivMessage
}

// NewPrivateInbox returns a private inbox with the given bounded capacity.
func NewPrivateInbox(capacity int) *PrivateInbox {
	return &PrivateInbox{ch: make(chan PrivMessage, capacity)}
}

// Send delivers msg, blocking if the inbox is full.
func (p *PrivateInbox) Send(msg PrivMessage) { p.ch <- msg }

// Recv returns the inbox's receive side, for the plot worker's drain step.
func (p *PrivateInbox) Recv() <-chan PrivMessage { return p.ch }
