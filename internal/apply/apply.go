// Package apply builds and submits one atomic output configuration
// transaction from a per-head target-mode function.
package apply

import (
	"fmt"

	"wlrmode/internal/model"
	"wlrmode/internal/statefile"
)

// Conn is the slice of the session the applier needs: transaction creation
// and the blocking roundtrip that confirms delivery.
type Conn interface {
	CreateConfiguration(serial uint32) (Configuration, error)
	Roundtrip() error
}

// Configuration is one live transaction. Destroy must be called exactly
// once, whether or not Apply ran.
type Configuration interface {
	EnableHead(headID uint32) (HeadConfig, error)
	Apply() error
	Destroy() error
}

// HeadConfig carries the per-head settings of a transaction.
type HeadConfig interface {
	SetMode(modeID uint32) error
}

// TargetFunc chooses the mode a head should be switched to. Returning false
// leaves the head untouched by the transaction: neither enabled nor
// disabled, its prior state persists.
type TargetFunc func(*model.Head) (*model.Mode, bool)

// Fullscreen targets every head's best fullscreen mode.
func Fullscreen() TargetFunc {
	return func(h *model.Head) (*model.Mode, bool) {
		return h.FullscreenMode()
	}
}

// Restore targets the saved mode for each head: the first entry matching the
// head's name, then the first of the head's modes matching the saved
// width/height/refresh triple. Unnamed heads and misses yield no action.
func Restore(entries []statefile.Entry) TargetFunc {
	return func(h *model.Head) (*model.Mode, bool) {
		if h.Name == "" {
			return nil, false
		}
		entry, ok := statefile.Find(entries, h.Name)
		if !ok {
			return nil, false
		}
		return h.FindMode(entry.Width, entry.Height, entry.Refresh)
	}
}

// Phase is the lifecycle position of one apply operation.
type Phase string

const (
	PhaseBuilding  Phase = "building"
	PhaseSubmitted Phase = "submitted"
	PhaseConfirmed Phase = "confirmed"
	PhaseFailed    Phase = "failed"
)

// Result reports how an apply operation ended. Enabled counts the heads the
// transaction switched; zero is a legal no-op transaction.
type Result struct {
	Phase   Phase
	Enabled int
}

// Run builds, submits and confirms exactly one transaction using the given
// serial. The transaction object is destroyed on every path. A failure is
// terminal for the operation; nothing is retried.
func Run(conn Conn, heads []*model.Head, serial uint32, target TargetFunc) (Result, error) {
	res := Result{Phase: PhaseBuilding}

	config, err := conn.CreateConfiguration(serial)
	if err != nil {
		res.Phase = PhaseFailed
		return res, fmt.Errorf("create configuration: %w", err)
	}

	for _, h := range heads {
		mode, ok := target(h)
		if !ok {
			continue
		}
		headConfig, err := config.EnableHead(h.ID)
		if err != nil {
			res.Phase = PhaseFailed
			_ = config.Destroy()
			return res, fmt.Errorf("enable head %s: %w", headLabel(h), err)
		}
		if err := headConfig.SetMode(mode.ID); err != nil {
			res.Phase = PhaseFailed
			_ = config.Destroy()
			return res, fmt.Errorf("set mode on head %s: %w", headLabel(h), err)
		}
		res.Enabled++
	}

	if err := config.Apply(); err != nil {
		res.Phase = PhaseFailed
		_ = config.Destroy()
		return res, fmt.Errorf("apply configuration: %w", err)
	}
	res.Phase = PhaseSubmitted
	if err := config.Destroy(); err != nil {
		res.Phase = PhaseFailed
		return res, fmt.Errorf("destroy configuration: %w", err)
	}

	// The roundtrip is the only point where the client learns the server
	// processed the submission; a transport failure here fails the whole
	// operation.
	if err := conn.Roundtrip(); err != nil {
		res.Phase = PhaseFailed
		return res, fmt.Errorf("confirm apply: %w", err)
	}
	res.Phase = PhaseConfirmed
	return res, nil
}

func headLabel(h *model.Head) string {
	if h.Name != "" {
		return h.Name
	}
	return fmt.Sprintf("#%d", h.ID)
}
