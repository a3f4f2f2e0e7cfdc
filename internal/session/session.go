package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/khrees2412/stageconnect/pkg/models"
)

// State is the phase of the session as seen by the client
type State int

const (
	// Unknown is the initial state, before the first identity check settles
	Unknown State = iota
	// Anonymous means the check settled with no session
	Anonymous
	// Authenticated means an identity is attached to the session
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrForbidden        = errors.New("your role does not allow this action")
)

// Backend is the part of the API client the store depends on
type Backend interface {
	Login(ctx context.Context, username, password string) (models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
}

// Store is the single source of truth for who is logged in. It is safe for
// concurrent use.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu    sync.RWMutex
	state State
	user  models.User

	initOnce sync.Once
	settled  chan struct{}
}

// New returns a store in the Unknown state. Call Init to run the first
// identity check.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		settled: make(chan struct{}),
	}
}

// Init runs the initial identity check once. A failed check leaves the store
// Anonymous; it is not reported as an error. Later calls are no-ops.
func (s *Store) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		defer close(s.settled)
		if err := s.Refresh(ctx); err != nil {
			s.logger.Debug("no active session", slog.String("error", err.Error()))
		}
	})
}

// Settled is closed once the initial identity check has resolved
func (s *Store) Settled() <-chan struct{} {
	return s.settled
}

// Loading reports whether the initial check is still pending
func (s *Store) Loading() bool {
	return s.State() == Unknown
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the identity and true when authenticated
func (s *Store) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Authenticated {
		return models.User{}, false
	}
	return s.user, true
}

// Role returns the role of the signed-in user, or nil
func (s *Store) Role() *models.Role {
	user, ok := s.Current()
	if !ok {
		return nil
	}
	return user.Role
}

// RequireRole returns the signed-in user when it holds one of roles. With no
// roles given any authenticated user passes.
func (s *Store) RequireRole(roles ...models.Role) (models.User, error) {
	user, ok := s.Current()
	if !ok {
		return models.User{}, ErrNotAuthenticated
	}
	if len(roles) > 0 && !user.HasRole(roles...) {
		return user, ErrForbidden
	}
	return user, nil
}

// Login authenticates and makes the returned identity current. On failure
// the state is left unchanged.
func (s *Store) Login(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}
	s.setAuthenticated(user)
	s.logger.Info("logged in", slog.String("username", user.Username))
	return user, nil
}

// Register creates the account and makes it current
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	user, err := s.backend.Register(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	s.setAuthenticated(user)
	s.logger.Info("registered", slog.String("username", user.Username))
	return user, nil
}

// Logout waits for the logout request and then always clears the local
// session, even when the request failed. The request error is returned so
// the caller can warn that the server session may still be open.
func (s *Store) Logout(ctx context.Context) error {
	err := s.backend.Logout(ctx)
	s.setAnonymous()
	if err != nil {
		s.logger.Warn("logout request failed, local session cleared", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Refresh re-runs the identity check. Any failure leaves the store
// Anonymous and is returned.
func (s *Store) Refresh(ctx context.Context) error {
	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		s.setAnonymous()
		return err
	}
	s.setAuthenticated(user)
	return nil
}

func (s *Store) setAuthenticated(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	s.user = user
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Anonymous
	s.user = models.User{}
}
