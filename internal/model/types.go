// Package model holds the client-side registry of output heads and modes
// built from the zwlr_output_manager_v1 event stream.
package model

// Mode is one resolution/refresh combination a head can be driven at.
// Refresh is in millihertz, as delivered on the wire.
type Mode struct {
	ID        uint32
	Width     int32
	Height    int32
	Refresh   int32
	Preferred bool
}

// Area is the pixel area of the mode, widened to avoid int32 overflow on
// large resolutions.
func (m *Mode) Area() int64 {
	return int64(m.Width) * int64(m.Height)
}

// Head is one logical display output exposed by the compositor. Name stays
// empty until the name event arrives. CurrentID keys into the head's own
// mode set; zero means no resolved current mode. Modes are kept in arrival
// order.
type Head struct {
	ID        uint32
	Name      string
	Enabled   bool
	CurrentID uint32
	Modes     []*Mode
}

// ModeByID resolves a mode in this head's set by protocol object id.
func (h *Head) ModeByID(id uint32) (*Mode, bool) {
	if id == 0 {
		return nil, false
	}
	for _, m := range h.Modes {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// CurrentMode resolves the head's current mode, if any.
func (h *Head) CurrentMode() (*Mode, bool) {
	return h.ModeByID(h.CurrentID)
}

// FindMode returns the first mode matching the width/height/refresh triple.
// Linear first-match scan: the protocol does not forbid duplicate triples.
func (h *Head) FindMode(width, height, refresh int32) (*Mode, bool) {
	for _, m := range h.Modes {
		if m.Width == width && m.Height == height && m.Refresh == refresh {
			return m, true
		}
	}
	return nil, false
}

// FullscreenMode picks the mode to drive this head at for fullscreen use:
// the preferred-flagged mode if any, otherwise the largest by area. When
// several modes claim the preferred flag the last received one wins; for
// equal areas the first received wins. Both tie-breaks are observable
// compositor-facing behavior and are kept as-is.
func (h *Head) FullscreenMode() (*Mode, bool) {
	var preferred, largest *Mode
	largestArea := int64(-1)
	for _, m := range h.Modes {
		if m.Preferred {
			preferred = m
		}
		if area := m.Area(); area > largestArea {
			largestArea = area
			largest = m
		}
	}
	if preferred != nil {
		return preferred, true
	}
	if largest != nil {
		return largest, true
	}
	return nil, false
}

// RemoveMode drops a mode from the head's set. The current-mode reference is
// cleared first when it points at the removed mode, so it never dangles.
func (h *Head) RemoveMode(id uint32) {
	for i, m := range h.Modes {
		if m.ID != id {
			continue
		}
		if h.CurrentID == id {
			h.CurrentID = 0
		}
		h.Modes = append(h.Modes[:i], h.Modes[i+1:]...)
		return
	}
}

// State is the client's view of the output manager: the heads in arrival
// order, the latest configuration serial, and whether the initial
// enumeration has settled. Terminated is set when the manager emits
// finished; no further transactions may be built after that.
type State struct {
	Heads      []*Head
	Serial     uint32
	Settled    bool
	Terminated bool
}

// HeadByID resolves a head by protocol object id.
func (s *State) HeadByID(id uint32) (*Head, bool) {
	for _, h := range s.Heads {
		if h.ID == id {
			return h, true
		}
	}
	return nil, false
}

// HeadOwningMode finds the head whose mode set contains the given mode id.
func (s *State) HeadOwningMode(id uint32) (*Head, *Mode, bool) {
	for _, h := range s.Heads {
		if m, ok := h.ModeByID(id); ok {
			return h, m, true
		}
	}
	return nil, nil, false
}

// AddHead appends a freshly announced head: unnamed, disabled, no modes.
func (s *State) AddHead(id uint32) *Head {
	h := &Head{ID: id}
	s.Heads = append(s.Heads, h)
	return h
}

// RemoveHead drops a head and everything it owns.
func (s *State) RemoveHead(id uint32) {
	for i, h := range s.Heads {
		if h.ID == id {
			s.Heads = append(s.Heads[:i], s.Heads[i+1:]...)
			return
		}
	}
}
