package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionKey        = "auth.session"
	MinPasswordLength = 6
)

var (
	ErrInvalidEmail       = errors.New("account: invalid email")
	ErrWeakPassword       = errors.New("account: password too short")
	ErrEmailInUse         = errors.New("account: email already registered")
	ErrInvalidCredentials = errors.New("account: invalid credentials")
	ErrNotSignedIn        = errors.New("account: not signed in")
)

type Session struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SignedInAt time.Time `json:"signedInAt"`
}

type Store interface {
	storage.AccountStore
	storage.KVStore
}

// Listener receives the current session, or nil once signed out.
type Listener func(*Session)

type Service struct {
	mu        sync.Mutex
	store     Store
	logger    *slog.Logger
	now       func() time.Time
	cost      int
	current   *Session
	listeners map[int]Listener
	nextID    int
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
		cost:      bcrypt.DefaultCost,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore resumes the session persisted by an earlier run. A session whose
// user no longer exists is discarded.
func (s *Service) Restore(ctx context.Context) (Session, bool) {
	var stored Session
	if err := storage.LoadJSON(ctx, s.store, SessionKey, &stored); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("discarding stored session", "error", err)
			_ = s.store.DeleteEntry(ctx, SessionKey)
		}
		return Session{}, false
	}
	if _, err := s.store.GetUser(ctx, stored.UserID); err != nil {
		s.logger.Warn("stored session has no user", "user_id", stored.UserID, "error", err)
		_ = s.store.DeleteEntry(ctx, SessionKey)
		return Session{}, false
	}
	s.setCurrent(&stored)
	return stored, true
}

// Register creates the account, mirrors a profile record and signs in.
func (s *Service) Register(ctx context.Context, email, password, name string, settings model.Settings) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return "", ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	user := storage.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return "", ErrEmailInUse
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("encode profile settings: %w", err)
	}
	profile := storage.Profile{UserID: user.ID, Name: name, Email: email, CreatedAt: now, Settings: payload}
	if err := s.store.PutProfile(ctx, profile); err != nil {
		s.logger.Warn("failed to mirror profile", "user_id", user.ID, "error", err)
	}

	s.logger.Info("account registered", "user_id", user.ID)
	s.signIn(ctx, Session{UserID: user.ID, Email: email, Name: name, SignedInAt: now})
	return user.ID, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	session := Session{UserID: user.ID, Email: user.Email, Name: user.Name, SignedInAt: s.now()}
	s.signIn(ctx, session)
	s.logger.Info("signed in", "user_id", user.ID)
	return session, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if _, ok := s.Current(); !ok {
		return ErrNotSignedIn
	}
	if err := s.store.DeleteEntry(ctx, SessionKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to clear stored session", "error", err)
	}
	s.setCurrent(nil)
	s.logger.Info("signed out")
	return nil
}

func (s *Service) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// OnAuthStateChanged calls fn with the current state right away and again on
// every sign in or sign out. The returned func unsubscribes.
func (s *Service) OnAuthStateChanged(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := copySession(s.current)
	s.mu.Unlock()

	fn(current)
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) signIn(ctx context.Context, session Session) {
	if err := storage.SaveJSON(ctx, s.store, SessionKey, session); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}
	s.setCurrent(&session)
}

func (s *Service) setCurrent(session *Session) {
	s.mu.Lock()
	s.current = copySession(session)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	current := copySession(s.current)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(copySession(current))
	}
}

func copySession(in *Session) *Session {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// Message maps an account error to text suitable for the sign-in form.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, ErrWeakPassword):
		return fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength)
	case errors.Is(err, ErrEmailInUse):
		return "An account with this email already exists."
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect email or password."
	case errors.Is(err, ErrNotSignedIn):
		return "You are not signed in."
	default:
		return "Something went wrong. Please try again."
	}
}
