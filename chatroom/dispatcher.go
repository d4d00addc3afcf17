package chatroom

import (
	"encoding/json"
	"sync"
)

type handler struct {
	id uint64
	fn func(json.RawMessage)
}

// Dispatcher routes named inbound events to registered callbacks. Handlers for
// one event run in registration order on the caller's goroutine.
type Dispatcher struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[string][]handler
	onError  func(error)
	onState  func(StateEvent)
}

// On registers fn for event and returns a func that removes it.
func (d *Dispatcher) On(event string, fn func(json.RawMessage)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = make(map[string][]handler)
	}
	d.nextID++
	id := d.nextID
	d.handlers[event] = append(d.handlers[event], handler{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { d.off(event, id) })
	}
}

func (d *Dispatcher) off(event string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	hs := d.handlers[event]
	for i, h := range hs {
		if h.id == id {
			d.handlers[event] = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	if len(d.handlers[event]) == 0 {
		delete(d.handlers, event)
	}
}

// Handlers reports how many callbacks are registered for event.
func (d *Dispatcher) Handlers(event string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[event])
}

func (d *Dispatcher) SetOnError(fn func(error)) {
	d.mu.Lock()
	d.onError = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnState(fn func(StateEvent)) {
	d.mu.Lock()
	d.onState = fn
	d.mu.Unlock()
}

// Dispatch delivers data to every handler of event. Events nobody listens to
// are dropped.
func (d *Dispatcher) Dispatch(event string, data json.RawMessage) {
	d.mu.Lock()
	hs := append([]handler(nil), d.handlers[event]...)
	d.mu.Unlock()
	for _, h := range hs {
		h.fn(data)
	}
}

func (d *Dispatcher) fireError(err error) {
	d.mu.Lock()
	fn := d.onError
	d.mu.Unlock()
	if fn != nil && err != nil {
		fn(err)
	}
}

func (d *Dispatcher) fireState(ev StateEvent) {
	d.mu.Lock()
	fn := d.onState
	d.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
