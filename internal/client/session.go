// Package client owns the Wayland session: connection, registry scan,
// manager binding, and the translation of protocol callbacks into tracker
// events. It is the transport edge of the program; everything model-facing
// lives behind it.
package client

import (
	"errors"
	"fmt"

	"github.com/bnema/wlturbo/wl"

	"wlrmode/internal/apply"
	"wlrmode/internal/config"
	"wlrmode/internal/outputmgmt"
	"wlrmode/internal/track"
)

// ErrUnsupported means the compositor does not advertise
// zwlr_output_manager_v1.
var ErrUnsupported = errors.New("zwlr_output_manager_v1 not advertised by compositor")

// Session is one live Wayland connection with the output manager bound.
// All callbacks run synchronously inside Roundtrip; nothing here is safe for
// concurrent use.
type Session struct {
	display  *wl.Display
	ctx      *wl.Context
	registry *wl.Registry
	tracker  *track.Tracker

	managerName    uint32
	managerVersion uint32
	manager        *outputmgmt.OutputManager

	heads map[uint32]*outputmgmt.OutputHead
	modes map[uint32]*outputmgmt.OutputMode
}

// Connect dials the display, scans the registry, and binds the output
// manager. Events start flowing into the tracker on the next roundtrip.
func Connect(cfg config.Config, tracker *track.Tracker) (*Session, error) {
	display, err := wl.Connect(cfg.Display)
	if err != nil {
		return nil, fmt.Errorf("connect to wayland display: %w", err)
	}

	s := &Session{
		display: display,
		ctx:     display.Context(),
		tracker: tracker,
		heads:   make(map[uint32]*outputmgmt.OutputHead),
		modes:   make(map[uint32]*outputmgmt.OutputMode),
	}
	s.registry = display.GetRegistry()
	s.registry.AddGlobalHandler(s)
	s.registry.AddGlobalRemoveHandler(s)

	if err := display.Roundtrip(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("registry roundtrip: %w", err)
	}
	if s.managerName == 0 {
		_ = s.Close()
		return nil, ErrUnsupported
	}

	version := s.managerVersion
	if version > outputmgmt.MaxVersion {
		version = outputmgmt.MaxVersion
	}
	id, err := s.registry.BindID(s.managerName, outputmgmt.ManagerInterface, version)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("bind %s: %w", outputmgmt.ManagerInterface, err)
	}
	manager := outputmgmt.NewOutputManager(s.ctx)
	manager.SetID(id)
	s.ctx.Register(manager)
	s.manager = manager

	manager.Head = s.handleHead
	manager.Done = func(serial uint32) {
		s.tracker.Apply(track.Event{Kind: track.ManagerDone, Serial: serial})
	}
	manager.Finished = func() {
		s.tracker.Apply(track.Event{Kind: track.ManagerFinished})
	}
	return s, nil
}

// HandleRegistryGlobal implements wl.RegistryGlobalHandler.
func (s *Session) HandleRegistryGlobal(event wl.RegistryGlobalEvent) {
	if event.Interface == outputmgmt.ManagerInterface {
		s.managerName = event.Name
		s.managerVersion = event.Version
	}
}

// HandleRegistryGlobalRemove implements wl.RegistryGlobalRemoveHandler. The
// manager signals its own shutdown through the finished event, so removal is
// not acted on here.
func (s *Session) HandleRegistryGlobalRemove(event wl.RegistryGlobalRemoveEvent) {}

func (s *Session) handleHead(head *outputmgmt.OutputHead) {
	id := head.ID()
	s.heads[id] = head
	s.tracker.Apply(track.Event{Kind: track.HeadAnnounced, Head: id})

	head.Name = func(name string) {
		s.tracker.Apply(track.Event{Kind: track.HeadName, Head: id, Name: name})
	}
	head.Enabled = func(enabled bool) {
		s.tracker.Apply(track.Event{Kind: track.HeadEnabled, Head: id, Enabled: enabled})
	}
	head.Mode = func(mode *outputmgmt.OutputMode) {
		s.handleMode(id, mode)
	}
	head.CurrentMode = func(modeID uint32) {
		s.tracker.Apply(track.Event{Kind: track.HeadCurrentMode, Head: id, Mode: modeID})
	}
	head.Finished = func() {
		s.dropHead(id)
	}
}

func (s *Session) handleMode(headID uint32, mode *outputmgmt.OutputMode) {
	id := mode.ID()
	s.modes[id] = mode
	s.tracker.Apply(track.Event{Kind: track.HeadMode, Head: headID, Mode: id})

	mode.Size = func(width, height int32) {
		s.tracker.Apply(track.Event{Kind: track.ModeSize, Mode: id, Width: width, Height: height})
	}
	mode.Refresh = func(refresh int32) {
		s.tracker.Apply(track.Event{Kind: track.ModeRefresh, Mode: id, Refresh: refresh})
	}
	mode.Preferred = func() {
		s.tracker.Apply(track.Event{Kind: track.ModePreferred, Mode: id})
	}
	mode.Finished = func() {
		delete(s.modes, id)
		s.tracker.Apply(track.Event{Kind: track.ModeFinished, Mode: id})
	}
}

// dropHead releases the proxies for a finished head before the registry
// entry goes away; the tracker removes the head and its modes.
func (s *Session) dropHead(id uint32) {
	if h, ok := s.tracker.State().HeadByID(id); ok {
		for _, m := range h.Modes {
			delete(s.modes, m.ID)
		}
	}
	delete(s.heads, id)
	s.tracker.Apply(track.Event{Kind: track.HeadFinished, Head: id})
}

// Roundtrip blocks until the server has processed all outstanding requests
// and all resulting events have been dispatched.
func (s *Session) Roundtrip() error {
	return s.display.Roundtrip()
}

// CreateConfiguration implements apply.Conn.
func (s *Session) CreateConfiguration(serial uint32) (apply.Configuration, error) {
	config, err := s.manager.CreateConfiguration(serial)
	if err != nil {
		return nil, err
	}
	return &transaction{session: s, config: config}, nil
}

// Close tears down the connection; outstanding operations fail.
func (s *Session) Close() error {
	return s.ctx.Close()
}

// transaction adapts one protocol configuration object to the applier's
// id-based interface.
type transaction struct {
	session *Session
	config  *outputmgmt.OutputConfiguration
}

func (t *transaction) EnableHead(headID uint32) (apply.HeadConfig, error) {
	head, ok := t.session.heads[headID]
	if !ok {
		return nil, fmt.Errorf("no live proxy for head %d", headID)
	}
	configHead, err := t.config.EnableHead(head)
	if err != nil {
		return nil, err
	}
	return &headConfig{session: t.session, handle: configHead}, nil
}

func (t *transaction) Apply() error {
	return t.config.Apply()
}

func (t *transaction) Destroy() error {
	return t.config.Destroy()
}

type headConfig struct {
	session *Session
	handle  *outputmgmt.OutputConfigurationHead
}

func (c *headConfig) SetMode(modeID uint32) error {
	mode, ok := c.session.modes[modeID]
	if !ok {
		return fmt.Errorf("no live proxy for mode %d", modeID)
	}
	return c.handle.SetMode(mode)
}
