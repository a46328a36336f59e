package mapview

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

// Host owns one map surface and its load lifecycle. It is not safe for
// concurrent use; the Controller serializes access.
type Host struct {
	logger  *zap.Logger
	factory SurfaceFactory
	opts    MapOptions

	state   models.MapState
	surface Surface
	err     error
	mounted bool
	closed  bool
	onLoad  []func()
}

func NewHost(factory SurfaceFactory, opts MapOptions, logger *zap.Logger) *Host {
	return &Host{
		logger:  logger,
		factory: factory,
		opts:    opts,
		state:   models.MapStateInitializing,
	}
}

// Mount creates the surface. A construction failure moves the host to the
// error state and is returned wrapped in models.ErrMapLoad.
func (h *Host) Mount(ctx context.Context) error {
	if h.mounted || h.closed {
		return nil
	}
	h.mounted = true

	surface, err := h.factory(ctx, h.opts)
	if err != nil {
		h.fail(err)
		return fmt.Errorf("%w: %w", models.ErrMapLoad, err)
	}
	h.surface = surface
	return nil
}

// OnLoad subscribes fn to the loaded transition.
func (h *Host) OnLoad(fn func()) {
	h.onLoad = append(h.onLoad, fn)
}

// HandleLoad delivers the successful load signal. Only the first signal
// counts; it reports whether the host transitioned.
func (h *Host) HandleLoad() bool {
	if h.state != models.MapStateInitializing || h.surface == nil || h.closed {
		h.logger.Debug("Ignoring load signal", zap.String("state", string(h.state)))
		return false
	}
	h.state = models.MapStateLoaded
	for _, fn := range h.onLoad {
		fn()
	}
	return true
}

// HandleError delivers a failed load signal.
func (h *Host) HandleError(err error) bool {
	if h.state != models.MapStateInitializing || h.closed {
		h.logger.Debug("Ignoring error signal", zap.String("state", string(h.state)), zap.Error(err))
		return false
	}
	if err == nil {
		err = errors.New("unknown map error")
	}
	h.fail(err)
	return true
}

func (h *Host) fail(err error) {
	h.state = models.MapStateError
	h.err = err
	if h.surface != nil {
		h.surface.Release()
		h.surface = nil
	}
	h.logger.Warn("Map failed to load", zap.Error(err))
}

// Ready reports whether markers may be added.
func (h *Host) Ready() bool {
	return h.state == models.MapStateLoaded && h.surface != nil && !h.closed
}

func (h *Host) State() models.MapState { return h.state }

func (h *Host) Err() error { return h.err }

// Surface is nil unless the host is mounted and not failed.
func (h *Host) Surface() Surface { return h.surface }

func (h *Host) Options() MapOptions { return h.opts }

// ErrorMessage is the user-visible text of the error panel.
func (h *Host) ErrorMessage() string {
	if h.state != models.MapStateError {
		return ""
	}
	return "The map could not be loaded. Please try again later."
}

// Close releases the surface from any state. Safe to call more than once.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.onLoad = nil
	if h.surface != nil {
		h.surface.Release()
		h.surface = nil
	}
}

func (h *Host) Closed() bool { return h.closed }
