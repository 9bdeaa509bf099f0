package widget

import (
	"errors"
	"fmt"
	"sort"
)

const (
	errorMessageUnknownWidgetType = "widget: unknown widget type"
	errorMessageEmptyRegistry     = "widget: registry has no entries"
	errorMessageNilDescriptor     = "widget: registry entry without descriptor"
	errorMessageKeyMismatch       = "widget: registry key does not match descriptor type"
)

var (
	// ErrUnknownWidgetType indicates a persisted record whose type key has no
	// registry entry: either data corruption or a deployed registry out of sync
	// with stored data. Callers must surface this, never swallow it.
	ErrUnknownWidgetType = errors.New(errorMessageUnknownWidgetType)
	// ErrEmptyRegistry indicates a registry constructed without entries.
	ErrEmptyRegistry = errors.New(errorMessageEmptyRegistry)
)

// UIBinding pairs a kind's view component with its form component.
type UIBinding struct {
	Component ComponentFunc
	Form      FormFunc
}

// Entry bundles everything registered for one widget kind. Component and Form
// are nil for kinds registered without a UI binding; such widgets can be
// created and validated but not rendered.
type Entry struct {
	Descriptor Descriptor
	Component  ComponentFunc
	Form       FormFunc
}

// Registry is the single dispatch point from a widget type key to behavior.
// It is built once at process start and never mutated afterwards, so it is
// safe for unbounded concurrent reads.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a Registry from the given entries.
func NewRegistry(entries map[string]Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRegistry
	}
	held := make(map[string]Entry, len(entries))
	for kindKey, entry := range entries {
		if entry.Descriptor == nil {
			return nil, fmt.Errorf("%s: %s", errorMessageNilDescriptor, kindKey)
		}
		if entry.Descriptor.Type() != kindKey {
			return nil, fmt.Errorf("%s: %s != %s", errorMessageKeyMismatch, kindKey, entry.Descriptor.Type())
		}
		held[kindKey] = entry
	}
	return &Registry{entries: held}, nil
}

// Lookup resolves a kind key to its registry entry. A miss is a hard failure.
func (registry *Registry) Lookup(kindKey string) (Entry, error) {
	entry, registered := registry.entries[kindKey]
	if !registered {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownWidgetType, kindKey)
	}
	return entry, nil
}

// Descriptor resolves a kind key to its descriptor.
func (registry *Registry) Descriptor(kindKey string) (Descriptor, error) {
	entry, lookupErr := registry.Lookup(kindKey)
	if lookupErr != nil {
		return nil, lookupErr
	}
	return entry.Descriptor, nil
}

// Types returns the registered kind keys in sorted order.
func (registry *Registry) Types() []string {
	kindKeys := make([]string, 0, len(registry.entries))
	for kindKey := range registry.entries {
		kindKeys = append(kindKeys, kindKey)
	}
	sort.Strings(kindKeys)
	return kindKeys
}
