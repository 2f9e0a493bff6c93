// Package relay moves messages between the host callback thread and the
// editor's UI thread over two bounded channels.
package relay

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// DefaultCapacity is the number of pending messages each direction can hold.
const DefaultCapacity = 10

// ErrChannelClosed is returned when the other side of the relay is gone.
var ErrChannelClosed = errors.New("relay: channel closed")

// PanicError reports a panic recovered on the UI thread.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("relay: ui thread panicked: %v", e.Value)
}

// RunFunc is the body of the UI thread. It returns when the UI has closed.
type RunFunc func(ep *Endpoint) error

// Option configures a Relay.
type Option func(*options)

type options struct {
	capacity int
}

// WithCapacity sets the bound of both channels.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.capacity = n
	}
}

// Endpoint is the UI thread's side of a relay.
type Endpoint struct {
	title string
	recv  <-chan HostMessage
	send  chan<- UIMessage
	stop  <-chan struct{}
}

// Title returns the window title the relay was created with.
func (e *Endpoint) Title() string {
	return e.title
}

// Recv returns the host→UI channel. Messages arrive in send order.
func (e *Endpoint) Recv() <-chan HostMessage {
	return e.recv
}

// Send queues a message for the host. It blocks while the queue is full and
// fails with ErrChannelClosed once the host has started shutting down.
func (e *Endpoint) Send(msg UIMessage) error {
	select {
	case <-e.stop:
		return ErrChannelClosed
	default:
	}

	select {
	case e.send <- msg:
		return nil
	case <-e.stop:
		return ErrChannelClosed
	}
}

// Relay owns the host-side channel endpoints and the UI thread.
type Relay struct {
	toUI   chan HostMessage
	fromUI chan UIMessage
	stop   chan struct{}
	done   chan struct{}

	// err is written by the UI goroutine before done is closed.
	err error

	mu     sync.Mutex
	joined bool
}

// New allocates the channels and starts the UI thread running run. It
// returns without waiting for the UI to come up.
func New(title string, run RunFunc, opts ...Option) *Relay {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Relay{
		toUI:   make(chan HostMessage, o.capacity),
		fromUI: make(chan UIMessage, o.capacity),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	ep := &Endpoint{
		title: title,
		recv:  r.toUI,
		send:  r.fromUI,
		stop:  r.stop,
	}

	go r.uiThread(run, ep)
	return r
}

func (r *Relay) uiThread(run RunFunc, ep *Endpoint) {
	// Toolkits expect every window call on the thread that created the
	// window. The thread is discarded when this goroutine exits.
	runtime.LockOSThread()

	defer close(r.done)
	defer func() {
		if v := recover(); v != nil {
			r.err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()

	r.err = run(ep)
}

// SendToUI queues msg for the UI thread, blocking while the queue is full.
// It returns ErrChannelClosed if the UI thread has exited.
func (r *Relay) SendToUI(msg HostMessage) error {
	select {
	case <-r.done:
		return ErrChannelClosed
	default:
	}

	select {
	case r.toUI <- msg:
		return nil
	case <-r.done:
		return ErrChannelClosed
	}
}

// TryDrainFromUI returns every message currently queued by the UI, oldest
// first. It never blocks and returns nil when nothing is pending.
func (r *Relay) TryDrainFromUI() []UIMessage {
	var msgs []UIMessage
	for {
		select {
		case msg := <-r.fromUI:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// Done is closed when the UI thread has exited.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// ShutdownAndJoin sends Terminate and waits for the UI thread to exit. It
// returns the UI thread's error, including a *PanicError if it panicked.
// Calls after the first are no-ops.
func (r *Relay) ShutdownAndJoin() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.joined {
		return nil
	}
	r.joined = true

	// Unblock a UI thread stuck sending to a host that no longer drains,
	// so it can reach Terminate.
	close(r.stop)
	// The UI may already be gone; the join below still applies.
	_ = r.SendToUI(Terminate{})
	<-r.done

	return r.err
}
