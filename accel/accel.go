// Package accel implements the shared-resource accelerator registry: a
// process-global, lazily-initialized set of Device handles vended to
// every engine layer, plus the KernelCache interface for an external
// compiled-kernel cache collaborator. No physical accelerator backend
// is in scope, so the only Device ever vended is a CPU device that
// always succeeds; any other requested device ID falls back to it
// rather than erroring.
package accel

import (
	"sync"

	"github.com/google/uuid"
)

// Device is a handle to one accelerator slot. Its ID is stable for the
// lifetime of the process, the way qeth mints a uuid.UUID once per node
// identity rather than re-deriving it on every lookup.
type Device struct {
	ID   uuid.UUID
	Name string

	mu sync.Mutex
}

// Context is a single worker's claim on a Device: used from one
// goroutine at a time, and tracks the events still pending against it.
type Context struct {
	device  *Device
	pending []string
}

// Context claims exclusive use of d for the calling goroutine until the
// returned Context's Release is called.
func (d *Device) Context() (*Context, error) {
	d.mu.Lock()
	return &Context{device: d}, nil
}

// Release gives up the claim acquired by Device.Context.
func (c *Context) Release() {
	c.pending = nil
	c.device.mu.Unlock()
}

// Enqueue records an event name as pending against this context. The CPU
// device has no real queue to drain, so pending events are only ever
// used for bookkeeping/diagnostics, never for ordering correctness.
func (c *Context) Enqueue(event string) {
	c.pending = append(c.pending, event)
}

// Pending returns the event names enqueued and not yet cleared by Release.
func (c *Context) Pending() []string {
	return c.pending
}

// Registry is a process-wide snapshot of known devices, built once.
type Registry struct {
	devices []*Device
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-global Registry, building it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = &Registry{
			devices: []*Device{
				{ID: uuid.New(), Name: "cpu"},
			},
		}
	})
	return defaultReg
}

// Device returns the device matching id, falling back to the CPU
// device (index 0) for any id outside the registry: accelerator
// selection failures degrade to the CPU backend rather than erroring.
func (r *Registry) Device(id int) *Device {
	if id < 0 || id >= len(r.devices) {
		return r.devices[0]
	}
	return r.devices[id]
}

// Devices returns every registered device, in registry order.
func (r *Registry) Devices() []*Device {
	return append([]*Device(nil), r.devices...)
}

// KernelCache stores and retrieves compiled kernels keyed by device
// identity and source hash. No implementation ships in scope —
// on-disk kernel caches are an external collaborator, not a component
// this repository builds — so this is declared as an interface only.
type KernelCache interface {
	Load(device uuid.UUID, sourceHash [32]byte) ([]byte, bool, error)
	Store(device uuid.UUID, sourceHash [32]byte, compiled []byte) error
}
