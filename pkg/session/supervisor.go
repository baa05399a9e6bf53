package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"anchorite-hq/anchorite/pkg/telemetry/metrics"
)

// Config contains configuration for the session supervisor.
type Config struct {
	// HealthInterval is how often the enforcement process is checked.
	// Default: 5 seconds.
	HealthInterval time.Duration

	// ExpiryInterval is how often session expiry is checked.
	// Default: 1 minute.
	ExpiryInterval time.Duration

	// MaxRestartAttempts is the number of consecutive restarts tolerated
	// before the session is emergency-terminated. Default: 10.
	MaxRestartAttempts int

	// StopTimeout is how long a stopping process gets between SIGTERM
	// and SIGKILL. Default: 10 seconds.
	StopTimeout time.Duration
}

// DefaultConfig returns the default supervisor configuration.
func DefaultConfig() *Config {
	return &Config{
		HealthInterval:     5 * time.Second,
		ExpiryInterval:     time.Minute,
		MaxRestartAttempts: 10,
		StopTimeout:        10 * time.Second,
	}
}

// Supervisor owns the focus-session lifecycle: at most one active
// session, a supervised enforcement process, and the split-secret early
// unlock. All state transitions happen here.
type Supervisor struct {
	config    *Config
	store     *Store
	runner    Runner
	collector *metrics.Collector
	logger    *slog.Logger

	// transition serializes whole lifecycle transitions (start, resume,
	// unlock, teardown) end to end, so a start cannot interleave with a
	// teardown that is still stopping the process and clearing the
	// store. mu only guards field access and is never held across
	// blocking work.
	transition sync.Mutex

	mu      sync.Mutex
	current *Session
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewSupervisor creates a supervisor. The collector may be nil.
func NewSupervisor(config *Config, store *Store, runner Runner, collector *metrics.Collector) *Supervisor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Supervisor{
		config:    config,
		store:     store,
		runner:    runner,
		collector: collector,
		logger:    slog.Default().With("component", "session.supervisor"),
	}
}

// Start resumes a persisted session if one is still within its window.
// An expired leftover is cleaned up silently.
func (s *Supervisor) Start(ctx context.Context) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	sess, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if sess == nil || sess.Status != StatusActive {
		return nil
	}

	if !time.Now().Before(sess.EndsAt) {
		s.logger.Info("discarding expired session from previous run", "session_id", sess.ID)
		return s.store.Clear(ctx)
	}

	s.logger.Info("resuming session",
		"session_id", sess.ID, "task", sess.Task, "remaining", time.Until(sess.EndsAt))

	if err := s.runner.Start(ctx); err != nil {
		// The health loop below retries; resumption must not fail just
		// because the first spawn did.
		s.logger.Error("enforcement process did not start on resume", "error", err)
	}

	s.mu.Lock()
	s.current = sess
	s.startLoopsLocked()
	s.mu.Unlock()

	s.setActiveMetrics(true)
	return nil
}

// StartSession begins a new session. The plaintext secret and its three
// fragments are returned exactly once and never stored.
func (s *Supervisor) StartSession(ctx context.Context, duration time.Duration, task string) (string, [fragmentCount]string, error) {
	var none [fragmentCount]string
	if duration <= 0 {
		return "", none, errInvalidDuration
	}

	// Serialized with any in-flight teardown: once the active check
	// passes, no leftover teardown can stop this session's process or
	// clear its record.
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if s.current != nil && s.current.Status == StatusActive {
		s.mu.Unlock()
		return "", none, ErrSessionActive
	}
	s.mu.Unlock()

	secret, fragments, hash, err := generateSecret()
	if err != nil {
		return "", none, err
	}

	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		Task:       task,
		SecretHash: hash,
		StartedAt:  now,
		EndsAt:     now.Add(duration),
		Status:     StatusActive,
	}

	if err := s.runner.Start(ctx); err != nil {
		return "", none, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		// Roll back: a session that cannot be persisted cannot be
		// resumed, so it must not run.
		s.runner.Stop(s.config.StopTimeout)
		return "", none, err
	}

	s.mu.Lock()
	s.current = sess
	s.startLoopsLocked()
	s.mu.Unlock()

	s.setActiveMetrics(true)
	if s.collector != nil {
		s.collector.RecordSessionStart()
	}
	s.logger.Info("session started",
		"session_id", sess.ID, "task", task, "ends_at", sess.EndsAt)
	return secret, fragments, nil
}

// EndSession unlocks the session early with the full secret. A mismatch
// changes nothing.
func (s *Supervisor) EndSession(ctx context.Context, secret string) (bool, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if s.current == nil || s.current.Status != StatusActive {
		s.mu.Unlock()
		return false, ErrNoSession
	}
	if hashSecret(secret) != s.current.SecretHash {
		s.mu.Unlock()
		s.logger.Warn("unlock attempt with wrong secret")
		return false, ErrSecretMismatch
	}
	s.mu.Unlock()

	s.teardownLocked(StatusUnlocked, true)
	return true, nil
}

// Status reports the current session state.
func (s *Supervisor) Status() StatusInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Status != StatusActive {
		return StatusInfo{Status: StatusIdle}
	}
	return StatusInfo{
		Active:    true,
		Status:    StatusActive,
		Task:      s.current.Task,
		EndsAt:    s.current.EndsAt,
		Remaining: time.Until(s.current.EndsAt),
	}
}

// Stop shuts the supervisor down without ending the session: loops stop,
// the process stops, the persisted record stays so the next start
// resumes it.
func (s *Supervisor) Stop() {
	s.teardown(nil, StatusActive, false)
}

// startLoopsLocked starts the expiry and health loops. Caller holds mu
// and has set current.
func (s *Supervisor) startLoopsLocked() {
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	s.wg.Add(2)
	go s.expiryLoop(s.current, stopCh)
	go s.healthLoop(s.current, stopCh)
}

// teardown runs a full lifecycle transition, serialized against starts
// and other teardowns. A non-nil expect restricts the teardown to that
// session: a loop goroutine that fired for an already-replaced session
// must not take down its successor.
func (s *Supervisor) teardown(expect *Session, status Status, clearStore bool) {
	s.transition.Lock()
	defer s.transition.Unlock()
	s.mu.Lock()
	stale := expect != nil && s.current != expect
	s.mu.Unlock()
	if stale {
		return
	}
	s.teardownLocked(status, clearStore)
}

// teardownLocked stops the loops, waits for them, stops the process and
// finally updates state. Exactly this order: a live health loop would
// restart a process stopped first. Caller holds transition.
func (s *Supervisor) teardownLocked(status Status, clearStore bool) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	sess := s.current
	s.current = nil
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.mu.Unlock()

	s.wg.Wait()

	if err := s.runner.Stop(s.config.StopTimeout); err != nil {
		s.logger.Warn("enforcement process stop failed", "error", err)
	}

	if clearStore {
		if err := s.store.Clear(context.Background()); err != nil {
			s.logger.Error("could not clear persisted session", "error", err)
		}
	}

	s.setActiveMetrics(false)
	if clearStore && s.collector != nil {
		s.collector.RecordSessionEnd(string(status))
	}
	s.logger.Info("session supervisor stopped",
		"session_id", sess.ID, "status", status, "persisted", !clearStore)
}

func (s *Supervisor) expiryLoop(sess *Session, stopCh chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.ExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !time.Now().Before(sess.EndsAt) {
				s.logger.Info("session reached its scheduled end")
				// teardown waits for this loop, so run it elsewhere.
				go s.teardown(sess, StatusCompleted, true)
				return
			}
		}
	}
}

func (s *Supervisor) healthLoop(sess *Session, stopCh chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.HealthInterval)
	defer ticker.Stop()

	restarts := 0
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if s.runner.Alive() {
				restarts = 0
				continue
			}

			restarts++
			if restarts > s.config.MaxRestartAttempts {
				s.logger.Error("enforcement process cannot be kept alive, emergency termination",
					"attempts", restarts-1)
				go s.teardown(sess, StatusEmergencyTerminated, true)
				return
			}

			s.logger.Warn("enforcement process dead, restarting", "attempt", restarts)
			err := s.runner.Start(context.Background())
			if s.collector != nil {
				s.collector.RecordProxyRestart(err == nil)
			}
			if err != nil {
				s.logger.Error("enforcement process restart failed", "error", err)
			}
		}
	}
}

func (s *Supervisor) setActiveMetrics(active bool) {
	if s.collector != nil {
		s.collector.UpdateSessionActive(active)
	}
}
