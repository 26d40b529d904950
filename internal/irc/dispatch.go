package irc

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// HandlerFunc handles one raw event. Errors it cannot recover from should be
// recorded with TrackException.
type HandlerFunc func(*RawEvent)

// Handler is one entry in the dispatch table.
type Handler struct {
	// Name identifies the handler in logs.
	Name string
	// Command matches the message command case-insensitively; "" matches
	// every command. Ignored when Numerics is set.
	Command string
	// Numerics restricts the handler to these reply codes.
	Numerics []int
	// Handlers run from highest to lowest priority; equal priorities run in
	// registration order.
	Priority int
	Func     HandlerFunc
}

func (h *Handler) matches(e *RawEvent) bool {
	if len(h.Numerics) > 0 {
		code, ok := e.Numeric()
		return ok && slices.Contains(h.Numerics, code)
	}
	return h.Command == "" || strings.EqualFold(h.Command, e.Command())
}

// dispatcher walks a priority-ordered handler table.
type dispatcher struct {
	mu       sync.Mutex
	handlers []Handler
	sorted   bool
}

func (d *dispatcher) register(h Handler) error {
	if h.Func == nil {
		return fmt.Errorf("%w: handler func", ErrArgument)
	}
	if h.Name == "" {
		h.Name = h.Command
	}
	d.mu.Lock()
	d.handlers = append(d.handlers, h)
	d.sorted = false
	d.mu.Unlock()
	return nil
}

// table returns the handlers in invocation order, sorting once per change.
func (d *dispatcher) table() []Handler {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.sorted {
		sort.SliceStable(d.handlers, func(i, j int) bool {
			return d.handlers[i].Priority > d.handlers[j].Priority
		})
		d.sorted = true
	}
	return slices.Clone(d.handlers)
}

func (d *dispatcher) dispatch(e *RawEvent) {
	for _, h := range d.table() {
		if h.matches(e) {
			invoke(h, e)
		}
	}
}

// invoke runs one handler, converting a panic into a tracked exception so
// the remaining handlers still run.
func invoke(h Handler, e *RawEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.TrackException(fmt.Errorf("panic in handler %s: %v", h.Name, r))
		}
	}()
	h.Func(e)
}

// handles reports whether a handler other than a catch-all matches e.
func (d *dispatcher) handles(e *RawEvent) bool {
	for _, h := range d.table() {
		if (h.Command != "" || len(h.Numerics) > 0) && h.matches(e) {
			return true
		}
	}
	return false
}

// commands lists the wire commands the table needs delivered, numerics as
// three digits. Catch-all handlers are not represented.
func (d *dispatcher) commands() []string {
	seen := make(map[string]bool)
	for _, h := range d.table() {
		if len(h.Numerics) > 0 {
			for _, n := range h.Numerics {
				seen[fmt.Sprintf("%03d", n)] = true
			}
		} else if h.Command != "" {
			seen[strings.ToUpper(h.Command)] = true
		}
	}
	out := make([]string, 0, len(seen))
	for cmd := range seen {
		out = append(out, cmd)
	}
	sort.Strings(out)
	return out
}
