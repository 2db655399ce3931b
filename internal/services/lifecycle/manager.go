package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc stops one component within the deadline of ctx.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	stop ShutdownFunc
}

// Manager owns the ordered teardown of the process. Components registered
// later stop first, so the HTTP listener (registered last in main) drains
// before the things it depends on go away.
type Manager struct {
	grace  time.Duration
	logger *zap.Logger

	mu    sync.Mutex
	hooks []hook
	done  bool
}

// New creates a manager whose whole teardown is bounded by grace.
func New(grace time.Duration, logger *zap.Logger) *Manager {
	if grace <= 0 {
		grace = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{grace: grace, logger: logger}
}

// Register adds a named shutdown hook. Registration after Shutdown has run
// is ignored.
func (m *Manager) Register(name string, stop ShutdownFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return
	}
	m.hooks = append(m.hooks, hook{name: name, stop: stop})
}

// Shutdown stops every registered component newest-first within the grace
// period. A failing hook is reported but does not block the remaining
// ones. Calling Shutdown again is a no-op.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	hooks := m.hooks
	m.hooks = nil
	m.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.grace)
	defer cancel()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		start := time.Now()
		if err := h.stop(ctx); err != nil {
			m.logger.Error("component stop failed",
				zap.String("component", h.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", h.name),
			zap.Duration("elapsed", time.Since(start)))
	}
	return errors.Join(errs...)
}

// Listen arms a background signal handler: the first SIGTERM/SIGINT invokes
// cancel, which unblocks main and starts the teardown.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
