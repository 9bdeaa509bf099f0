// Package registry assembles the widget registry from the tables emitted by
// cmd/widgetgen. The generated files are regenerated wholesale on each build;
// hand-editing them is unsupported.
package registry

import "github.com/BoraResearchLab/dashboard_svc/internal/widget"

// New builds the process-wide widget registry. Kinds discovered without a UI
// binding keep a logic-only entry: their widgets can be created and validated
// but not rendered.
func New() (*widget.Registry, error) {
	entries := make(map[string]widget.Entry)
	for kindKey, descriptor := range logicDescriptors() {
		entries[kindKey] = widget.Entry{Descriptor: descriptor}
	}
	for kindKey, binding := range uiBindings() {
		entry, registered := entries[kindKey]
		if !registered {
			// A UI binding without a descriptor is excluded by the generator;
			// guard anyway so a stale artifact cannot register render-only kinds.
			continue
		}
		entry.Component = binding.Component
		entry.Form = binding.Form
		entries[kindKey] = entry
	}
	return widget.NewRegistry(entries)
}
