package plugin

import (
	"errors"
	"fmt"
	"io"
	rtdebug "runtime/debug"
	"sync"

	"github.com/vst3go/template/pkg/framework/debug"
	"github.com/vst3go/template/pkg/host"
)

// ErrNoFactory is returned by CreateInstance before Register is called.
var ErrNoFactory = errors.New("plugin: no factory registered")

// ErrUnknownInstance is returned for ids that were never created or were
// already released.
var ErrUnknownInstance = errors.New("plugin: unknown instance")

// ErrCallFailed is returned by dispatched calls whose instance is unknown
// or panicked.
var ErrCallFailed = errors.New("plugin: call failed")

// Registry maps host-visible instance ids to plugins and contains panics so
// they never unwind into the host.
type Registry struct {
	mu        sync.RWMutex
	factory   Factory
	instances map[uintptr]Plugin
	nextID    uintptr

	log  *debug.Logger
	prof *debug.Profiler
}

// NewRegistry creates a registry. A nil logger uses debug.Default().
func NewRegistry(f Factory, log *debug.Logger) *Registry {
	if log == nil {
		log = debug.Default()
	}
	return &Registry{
		factory:   f,
		instances: make(map[uintptr]Plugin),
		nextID:    1,
		log:       log,
	}
}

var defaultRegistry = NewRegistry(nil, nil)

// Register sets the factory of the default registry. Call it from the
// plugin library's init.
func Register(f Factory) {
	defaultRegistry.SetFactory(f)
}

// Default returns the registry used by the host-facing exports.
func Default() *Registry {
	return defaultRegistry
}

// SetFactory replaces the factory used by CreateInstance.
func (r *Registry) SetFactory(f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factory = f
}

// SetProfiler times every dispatched call under its operation name. Pass
// nil to stop.
func (r *Registry) SetProfiler(p *debug.Profiler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prof = p
}

// CreateInstance runs the factory and registers the result.
func (r *Registry) CreateInstance(h host.Host, tag host.Tag) (id uintptr, err error) {
	r.mu.RLock()
	f := r.factory
	r.mu.RUnlock()

	if f == nil {
		return 0, ErrNoFactory
	}

	defer func() {
		if v := recover(); v != nil {
			r.log.Error("panic in plugin factory: %v\n%s", v, rtdebug.Stack())
			id, err = 0, fmt.Errorf("plugin: factory panicked: %v", v)
		}
	}()

	p, err := f(h, tag)
	if err != nil {
		return 0, fmt.Errorf("plugin: create instance: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id = r.nextID
	r.nextID++
	r.instances[id] = p
	return id, nil
}

// Instance returns the plugin registered under id.
func (r *Registry) Instance(id uintptr) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id == 0 {
		return nil, false
	}
	p, ok := r.instances[id]
	return p, ok
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// Release unregisters the instance and closes it. The instance is removed
// even when Close fails or panics.
func (r *Registry) Release(id uintptr) (err error) {
	r.mu.Lock()
	p, ok := r.instances[id]
	delete(r.instances, id)
	r.mu.Unlock()

	if !ok {
		return ErrUnknownInstance
	}

	defer r.profile("Close")()
	defer func() {
		if v := recover(); v != nil {
			r.log.Error("panic in Close (instance %d): %v\n%s", id, v, rtdebug.Stack())
			err = fmt.Errorf("plugin: close panicked: %v", v)
		}
	}()
	return p.Close()
}

func (r *Registry) profile(op string) func() {
	r.mu.RLock()
	prof := r.prof
	r.mu.RUnlock()

	if prof == nil {
		return func() {}
	}
	return prof.Start(op)
}

// dispatch calls fn on instance id, returning zero if the instance is
// unknown or fn panics.
func dispatch[T any](r *Registry, id uintptr, op string, zero T, fn func(Plugin) T) (ret T) {
	p, ok := r.Instance(id)
	if !ok {
		r.log.Warn("%s: unknown instance %d", op, id)
		return zero
	}

	defer r.profile(op)()
	defer func() {
		if v := recover(); v != nil {
			r.log.Error("panic in %s (instance %d): %v\n%s", op, id, v, rtdebug.Stack())
			ret = zero
		}
	}()
	return fn(p)
}

// OnMessage dispatches a host event.
func (r *Registry) OnMessage(id uintptr, msg host.Message) int64 {
	return dispatch(r, id, "OnMessage", 0, func(p Plugin) int64 {
		return p.OnMessage(msg)
	})
}

// NameOf dispatches a name query.
func (r *Registry) NameOf(id uintptr, q host.GetName) string {
	return dispatch(r, id, "NameOf", "", func(p Plugin) string {
		return p.NameOf(q)
	})
}

// Render dispatches an audio block.
func (r *Registry) Render(id uintptr, in, out []host.Sample) {
	dispatch(r, id, "Render", struct{}{}, func(p Plugin) struct{} {
		p.Render(in, out)
		return struct{}{}
	})
}

// Tick dispatches a block tick.
func (r *Registry) Tick(id uintptr) {
	dispatch(r, id, "Tick", struct{}{}, func(p Plugin) struct{} {
		p.Tick()
		return struct{}{}
	})
}

// ProcessParam dispatches a parameter event.
func (r *Registry) ProcessParam(id uintptr, index int, value int64, flags host.ProcessParamFlags) int64 {
	return dispatch(r, id, "ProcessParam", 0, func(p Plugin) int64 {
		return p.ProcessParam(index, value, flags)
	})
}

// SaveState dispatches a state save.
func (r *Registry) SaveState(id uintptr, w io.Writer) error {
	return dispatch(r, id, "SaveState", ErrCallFailed, func(p Plugin) error {
		return p.SaveState(w)
	})
}

// LoadState dispatches a state load.
func (r *Registry) LoadState(id uintptr, rd io.Reader) {
	dispatch(r, id, "LoadState", struct{}{}, func(p Plugin) struct{} {
		p.LoadState(rd)
		return struct{}{}
	})
}

// SetProxy dispatches the host proxy.
func (r *Registry) SetProxy(id uintptr, px host.Proxy) {
	dispatch(r, id, "SetProxy", struct{}{}, func(p Plugin) struct{} {
		p.SetProxy(px)
		return struct{}{}
	})
}
