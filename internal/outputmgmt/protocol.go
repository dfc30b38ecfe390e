// Package outputmgmt implements client bindings for the
// zwlr_output_management_unstable_v1 protocol on top of the wlturbo Wayland
// client. Each proxy exposes the events this client consumes as callback
// fields; unhandled events are drained and ignored.
package outputmgmt

import (
	"github.com/bnema/wlturbo/wl"
)

// Interface names as advertised through the registry.
const (
	ManagerInterface           = "zwlr_output_manager_v1"
	HeadInterface              = "zwlr_output_head_v1"
	ModeInterface              = "zwlr_output_mode_v1"
	ConfigurationInterface     = "zwlr_output_configuration_v1"
	ConfigurationHeadInterface = "zwlr_output_configuration_head_v1"
)

// MaxVersion is the highest protocol version these bindings understand.
const MaxVersion = 4

// Manager request opcodes.
const (
	opManagerCreateConfiguration = 0
	opManagerStop                = 1
)

// Manager event opcodes.
const (
	evManagerHead     = 0
	evManagerDone     = 1
	evManagerFinished = 2
)

// OutputManager is the zwlr_output_manager_v1 proxy.
type OutputManager struct {
	wl.BaseProxy
	Head     func(*OutputHead)
	Done     func(serial uint32)
	Finished func()
}

func NewOutputManager(ctx *wl.Context) *OutputManager {
	m := &OutputManager{}
	m.SetContext(ctx)
	return m
}

// CreateConfiguration starts a new configuration transaction for the given
// serial. The serial must be the most recent one received via Done;
// anything older is a protocol violation on apply.
func (m *OutputManager) CreateConfiguration(serial uint32) (*OutputConfiguration, error) {
	config := NewOutputConfiguration(m.Context())
	if err := m.Context().SendRequest(m, opManagerCreateConfiguration, config, serial); err != nil {
		m.Context().Unregister(config)
		return nil, err
	}
	return config, nil
}

// Stop asks the manager to stop sending events.
func (m *OutputManager) Stop() error {
	return m.Context().SendRequest(m, opManagerStop)
}

// Dispatch handles inbound manager events.
func (m *OutputManager) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case evManagerHead:
		headID := event.Uint32()
		head := NewOutputHead(m.Context())
		head.SetID(headID)
		m.Context().Register(head)
		if m.Head != nil {
			m.Head(head)
		}
	case evManagerDone:
		serial := event.Uint32()
		if m.Done != nil {
			m.Done(serial)
		}
	case evManagerFinished:
		if m.Finished != nil {
			m.Finished()
		}
		m.Context().Unregister(m)
	}
}

// Head event opcodes. Description, physical size, position, transform,
// scale, make, model, serial number and adaptive sync are delivered but not
// consumed by this client.
const (
	evHeadName        = 0
	evHeadMode        = 3
	evHeadEnabled     = 4
	evHeadCurrentMode = 5
	evHeadFinished    = 9
)

const opHeadRelease = 0

// OutputHead is the zwlr_output_head_v1 proxy. CurrentMode reports the
// protocol object id of the mode; resolving it against the head's announced
// modes is the caller's job.
type OutputHead struct {
	wl.BaseProxy
	Name        func(string)
	Enabled     func(bool)
	Mode        func(*OutputMode)
	CurrentMode func(modeID uint32)
	Finished    func()
}

func NewOutputHead(ctx *wl.Context) *OutputHead {
	h := &OutputHead{}
	h.SetContext(ctx)
	return h
}

// Release destroys the client's handle (protocol version 3+).
func (h *OutputHead) Release() error {
	err := h.Context().SendRequest(h, opHeadRelease)
	h.Context().Unregister(h)
	return err
}

// Dispatch handles inbound head events.
func (h *OutputHead) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case evHeadName:
		name := event.String()
		if h.Name != nil {
			h.Name(name)
		}
	case evHeadMode:
		proxy := event.NewID()
		mode := NewOutputMode(h.Context())
		mode.SetID(proxy.ID())
		h.Context().Register(mode)
		if h.Mode != nil {
			h.Mode(mode)
		}
	case evHeadEnabled:
		enabled := event.Int32()
		if h.Enabled != nil {
			h.Enabled(enabled != 0)
		}
	case evHeadCurrentMode:
		modeID := event.Uint32()
		if h.CurrentMode != nil {
			h.CurrentMode(modeID)
		}
	case evHeadFinished:
		if h.Finished != nil {
			h.Finished()
		}
		h.Context().Unregister(h)
	}
}

// Mode event opcodes.
const (
	evModeSize      = 0
	evModeRefresh   = 1
	evModePreferred = 2
	evModeFinished  = 3
)

const opModeRelease = 0

// OutputMode is the zwlr_output_mode_v1 proxy.
type OutputMode struct {
	wl.BaseProxy
	Size      func(width, height int32)
	Refresh   func(refresh int32)
	Preferred func()
	Finished  func()
}

func NewOutputMode(ctx *wl.Context) *OutputMode {
	m := &OutputMode{}
	m.SetContext(ctx)
	return m
}

// Release destroys the client's handle (protocol version 3+).
func (m *OutputMode) Release() error {
	err := m.Context().SendRequest(m, opModeRelease)
	m.Context().Unregister(m)
	return err
}

// Dispatch handles inbound mode events.
func (m *OutputMode) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case evModeSize:
		width := event.Int32()
		height := event.Int32()
		if m.Size != nil {
			m.Size(width, height)
		}
	case evModeRefresh:
		refresh := event.Int32()
		if m.Refresh != nil {
			m.Refresh(refresh)
		}
	case evModePreferred:
		if m.Preferred != nil {
			m.Preferred()
		}
	case evModeFinished:
		if m.Finished != nil {
			m.Finished()
		}
		m.Context().Unregister(m)
	}
}

// Configuration request opcodes.
const (
	opConfigEnableHead = 0
	opConfigApply      = 2
	opConfigDestroy    = 4
)

// Configuration event opcodes.
const (
	evConfigSucceeded = 0
	evConfigFailed    = 1
	evConfigCancelled = 2
)

// OutputConfiguration is one atomic reconfiguration transaction. Exactly one
// should be live at a time; it must be destroyed after apply, also on
// early-exit paths.
type OutputConfiguration struct {
	wl.BaseProxy
	Succeeded func()
	Failed    func()
	Cancelled func()
}

func NewOutputConfiguration(ctx *wl.Context) *OutputConfiguration {
	c := &OutputConfiguration{}
	c.SetContext(ctx)
	return c
}

// EnableHead enables the head in this transaction and returns the per-head
// configuration handle.
func (c *OutputConfiguration) EnableHead(head *OutputHead) (*OutputConfigurationHead, error) {
	configHead := NewOutputConfigurationHead(c.Context())
	if err := c.Context().SendRequest(c, opConfigEnableHead, configHead, head); err != nil {
		c.Context().Unregister(configHead)
		return nil, err
	}
	return configHead, nil
}

// Apply submits the transaction atomically.
func (c *OutputConfiguration) Apply() error {
	return c.Context().SendRequest(c, opConfigApply)
}

// Destroy releases the transaction object.
func (c *OutputConfiguration) Destroy() error {
	err := c.Context().SendRequest(c, opConfigDestroy)
	c.Context().Unregister(c)
	return err
}

// Dispatch handles inbound configuration events.
func (c *OutputConfiguration) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case evConfigSucceeded:
		if c.Succeeded != nil {
			c.Succeeded()
		}
	case evConfigFailed:
		if c.Failed != nil {
			c.Failed()
		}
	case evConfigCancelled:
		if c.Cancelled != nil {
			c.Cancelled()
		}
	}
}

const opConfigHeadSetMode = 0

// OutputConfigurationHead carries the per-head settings of a transaction.
// It has no events.
type OutputConfigurationHead struct {
	wl.BaseProxy
}

func NewOutputConfigurationHead(ctx *wl.Context) *OutputConfigurationHead {
	h := &OutputConfigurationHead{}
	h.SetContext(ctx)
	return h
}

// SetMode sets the head's target mode.
func (h *OutputConfigurationHead) SetMode(mode *OutputMode) error {
	return h.Context().SendRequest(h, opConfigHeadSetMode, mode)
}

// Dispatch satisfies the proxy interface; the object has no events.
func (h *OutputConfigurationHead) Dispatch(event *wl.Event) {}
