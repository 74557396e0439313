// Package view provides goroutine-safe view-model bindings for the UI client.
package view

import (
	"sync"
)

// Field is an input value shared between the host UI and the client.
// Changes are reported in the order they were stored.
type Field struct {
	name     string
	emit     sync.Mutex // held across store and callback
	mu       sync.RWMutex
	value    string
	onChange func(name, value string)
}

// NewField creates an empty field.
func NewField(name string) *Field {
	return &Field{name: name}
}

// Name returns the field identifier.
func (f *Field) Name() string { return f.name }

// Value returns the current value.
func (f *Field) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// SetValue replaces the value and reports the change.
func (f *Field) SetValue(v string) {
	f.emit.Lock()
	defer f.emit.Unlock()
	f.store(v)
}

// CompareAndSwap sets the value to v only while it still equals old.
func (f *Field) CompareAndSwap(old, v string) bool {
	f.emit.Lock()
	defer f.emit.Unlock()
	if f.Value() != old {
		return false
	}
	f.store(v)
	return true
}

func (f *Field) store(v string) {
	f.mu.Lock()
	f.value = v
	cb := f.onChange
	f.mu.Unlock()

	if cb != nil {
		cb(f.name, v)
	}
}

// OnChange registers a callback run after every change. The callback must
// not write to the same field.
func (f *Field) OnChange(cb func(name, value string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = cb
}

// Region is an output area. The last write wins, and it is also the last
// change reported.
type Region struct {
	name     string
	emit     sync.Mutex // held across store and callback
	mu       sync.RWMutex
	content  string
	version  uint64
	onChange func(name, content string)
}

// NewRegion creates an empty region.
func NewRegion(name string) *Region {
	return &Region{name: name}
}

// Name returns the region identifier.
func (r *Region) Name() string { return r.name }

// SetContent replaces the region's markup.
func (r *Region) SetContent(markup string) {
	r.emit.Lock()
	defer r.emit.Unlock()

	r.mu.Lock()
	r.content = markup
	r.version++
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(r.name, markup)
	}
}

// Content returns the current markup.
func (r *Region) Content() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}

// Version counts writes so far.
func (r *Region) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// OnChange registers a callback run after every SetContent. The callback must
// not write to the same region.
func (r *Region) OnChange(cb func(name, content string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = cb
}
