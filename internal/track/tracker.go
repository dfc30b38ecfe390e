// Package track consumes the output-manager event stream and keeps the
// model registries consistent with it.
package track

import (
	"errors"

	"wlrmode/internal/model"
)

// ErrTerminated means the server shut the output manager down permanently;
// no further transactions may be submitted on this connection.
var ErrTerminated = errors.New("output manager terminated by server")

// EventKind tags one inbound protocol event. Kinds mirror the wire events of
// zwlr_output_manager_v1 and its head/mode children.
type EventKind string

const (
	HeadAnnounced   EventKind = "head"
	HeadName        EventKind = "head_name"
	HeadEnabled     EventKind = "head_enabled"
	HeadMode        EventKind = "head_mode"
	HeadCurrentMode EventKind = "head_current_mode"
	HeadFinished    EventKind = "head_finished"
	ModeSize        EventKind = "mode_size"
	ModeRefresh     EventKind = "mode_refresh"
	ModePreferred   EventKind = "mode_preferred"
	ModeFinished    EventKind = "mode_finished"
	ManagerDone     EventKind = "done"
	ManagerFinished EventKind = "finished"
)

// Event is one decoded protocol event. Only the fields relevant to the kind
// are set; Head and Mode carry protocol object ids.
type Event struct {
	Kind    EventKind
	Head    uint32
	Mode    uint32
	Name    string
	Enabled bool
	Width   int32
	Height  int32
	Refresh int32
	Serial  uint32
}

// Tracker applies events strictly in delivery order to a model.State.
// Processing is synchronous and mutation-only; it must be driven from the
// single dispatch goroutine. Events referencing objects the tracker does not
// know are dropped silently so one lost object degrades the registry instead
// of aborting the run.
type Tracker struct {
	state *model.State
	dirty bool
}

func New() *Tracker {
	return &Tracker{state: &model.State{}}
}

// State exposes the registries. Read it only once Ready reports true.
func (t *Tracker) State() *model.State {
	return t.state
}

// Serial is the token that must accompany the next configuration.
func (t *Tracker) Serial() uint32 {
	return t.state.Serial
}

// Terminated reports that the manager emitted finished and is unusable.
func (t *Tracker) Terminated() bool {
	return t.state.Terminated
}

// Ready reports whether the registries reflect a complete snapshot: the
// manager has settled and no registry-mutating event has arrived since the
// last done. Acting on the model while Ready is false risks submitting a
// stale serial, which the server treats as a protocol violation.
func (t *Tracker) Ready() bool {
	return t.state.Settled && !t.dirty
}

// Apply processes one event. Order must match wire delivery order: later
// events reference objects created by earlier ones.
func (t *Tracker) Apply(ev Event) {
	switch ev.Kind {
	case HeadAnnounced:
		t.state.AddHead(ev.Head)
		t.dirty = true
	case HeadName:
		if h, ok := t.state.HeadByID(ev.Head); ok {
			h.Name = ev.Name
			t.dirty = true
		}
	case HeadEnabled:
		if h, ok := t.state.HeadByID(ev.Head); ok {
			h.Enabled = ev.Enabled
			t.dirty = true
		}
	case HeadMode:
		if h, ok := t.state.HeadByID(ev.Head); ok {
			h.Modes = append(h.Modes, &model.Mode{ID: ev.Mode})
			t.dirty = true
		}
	case HeadCurrentMode:
		// Resolved by identity against the head's own mode set; an id the
		// head never announced leaves the previous reference in place.
		if h, ok := t.state.HeadByID(ev.Head); ok {
			if _, ok := h.ModeByID(ev.Mode); ok {
				h.CurrentID = ev.Mode
				t.dirty = true
			}
		}
	case HeadFinished:
		t.state.RemoveHead(ev.Head)
		t.dirty = true
	case ModeSize:
		if _, m, ok := t.state.HeadOwningMode(ev.Mode); ok {
			m.Width, m.Height = ev.Width, ev.Height
			t.dirty = true
		}
	case ModeRefresh:
		if _, m, ok := t.state.HeadOwningMode(ev.Mode); ok {
			m.Refresh = ev.Refresh
			t.dirty = true
		}
	case ModePreferred:
		if _, m, ok := t.state.HeadOwningMode(ev.Mode); ok {
			m.Preferred = true
			t.dirty = true
		}
	case ModeFinished:
		if h, _, ok := t.state.HeadOwningMode(ev.Mode); ok {
			h.RemoveMode(ev.Mode)
			t.dirty = true
		}
	case ManagerDone:
		t.state.Serial = ev.Serial
		t.state.Settled = true
		t.dirty = false
	case ManagerFinished:
		t.state.Settled = true
		t.state.Terminated = true
	}
}
