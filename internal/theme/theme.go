// Package theme owns the light/dark preference: it picks the initial mode,
// persists changes, and applies the mode to the document.
package theme

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/homebase/internal/store"
	"github.com/calvinalkan/homebase/internal/view"
)

// Mode is a theme state.
type Mode string

// Theme modes.
const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Key is the storage key of the persisted mode.
const Key = "theme"

// Default policies for the initial mode when nothing is persisted.
const (
	PolicyTime  = "time"
	PolicyLight = "light"
	PolicyDark  = "dark"
)

// Daylight bounds for [PolicyTime]: hours in [dayStart, dayEnd) are light.
const (
	dayStart = 6
	dayEnd   = 18
)

var (
	ErrInvalidMode   = errors.New("invalid theme (must be light or dark)")
	ErrInvalidPolicy = errors.New("invalid theme default (must be time, light or dark)")
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// IsValidPolicy reports whether s names a default policy.
func IsValidPolicy(s string) bool {
	return s == PolicyTime || s == PolicyLight || s == PolicyDark
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Light {
		return Dark
	}

	return Light
}

// Label is the toggle text shown while m is active.
func (m Mode) Label() string {
	if m == Light {
		return "Switch to Dark Theme"
	}

	return "Switch to Light Theme"
}

// ForHour returns the mode [PolicyTime] picks at hour (0-23).
func ForHour(hour int) Mode {
	if hour >= dayStart && hour < dayEnd {
		return Light
	}

	return Dark
}

// Controller applies and persists the theme mode.
type Controller struct {
	pref   *store.Scalar
	doc    *view.Document
	policy string
	now    func() time.Time
	log    *zap.Logger
	mode   Mode
}

// Options configures a [Controller].
type Options struct {
	// Policy picks the initial mode when none is persisted. Empty means time.
	Policy string

	// Now supplies local time for [PolicyTime]. Nil means time.Now.
	Now func() time.Time

	Log *zap.Logger
}

// NewController returns a controller over the "theme" key of adapter.
func NewController(adapter *store.Adapter, doc *view.Document, opts Options) (*Controller, error) {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyTime
	}

	if !IsValidPolicy(policy) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, policy)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Controller{
		pref:   store.NewScalar(adapter, Key),
		doc:    doc,
		policy: policy,
		now:    now,
		log:    log,
	}, nil
}

// Initialize applies the persisted mode, or the policy default when nothing
// valid is persisted. A default is persisted so later runs agree on it.
func (c *Controller) Initialize(ctx context.Context) error {
	saved, ok, err := c.pref.Get(ctx)
	if err != nil {
		return err
	}

	if ok {
		parsed, parseErr := ParseMode(saved)
		if parseErr == nil {
			c.show(parsed)

			return nil
		}

		c.log.Warn("ignoring stored theme", zap.String("value", saved))
	}

	return c.apply(ctx, c.defaultMode())
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Toggle flips the mode, persists it, and updates the document.
func (c *Controller) Toggle(ctx context.Context) (Mode, error) {
	next := c.mode.Opposite()
	if c.mode == "" {
		next = c.defaultMode().Opposite()
	}

	if err := c.apply(ctx, next); err != nil {
		return c.mode, err
	}

	return next, nil
}

// Set applies mode explicitly.
func (c *Controller) Set(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	return c.apply(ctx, mode)
}

func (c *Controller) defaultMode() Mode {
	switch c.policy {
	case PolicyLight:
		return Light
	case PolicyDark:
		return Dark
	default:
		return ForHour(c.now().Hour())
	}
}

// apply persists first so a failed write leaves the document untouched.
func (c *Controller) apply(ctx context.Context, mode Mode) error {
	if err := c.pref.Set(ctx, string(mode)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}

	c.show(mode)
	c.log.Debug("theme applied", zap.String("mode", string(mode)))

	return nil
}

func (c *Controller) show(mode Mode) {
	c.mode = mode
	c.doc.SetAttr(view.ThemeAttr, string(mode))
	c.doc.SetToggleLabel(mode.Label())
}
