/*
Package auth provides account signup, login, and session issuance for the
timesheet application.

The core engine only ever sees an already-authenticated identity (email +
role); this package is the thin surface that produces one. Passwords are
hashed with argon2id. Sessions are opaque random tokens with a fixed TTL.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/timesheet"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrEmployeeIDTaken = errors.New("employee id already exists")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 12 * time.Hour

// Session is one issued login token.
type Session struct {
	Token     string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore persists sessions. Implemented by store/sqlite.
type SessionStore interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Identity is what a successful login hands back to the caller.
type Identity struct {
	Name       string
	EmployeeID string
	Email      string
	Role       string
	Token      string
}

// SignupInput is the data required to create an account.
type SignupInput struct {
	Name       string
	EmployeeID string
	Email      string
	Password   string
	Role       string
}

// =============================================================================
// SERVICE
// =============================================================================

// Service wires the employee directory and session store together.
type Service struct {
	Directory timesheet.EmployeeDirectory
	Sessions  SessionStore
}

func NewService(dir timesheet.EmployeeDirectory, sessions SessionStore) *Service {
	return &Service{Directory: dir, Sessions: sessions}
}

// Signup creates an account. Email and employee id must both be unused.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*timesheet.Employee, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Name == "" || in.EmployeeID == "" || in.Email == "" || in.Password == "" {
		return nil, errors.New("name, employee id, email and password are required")
	}
	if in.Role == "" {
		in.Role = timesheet.RoleEmployee
	}
	if in.Role != timesheet.RoleEmployee && in.Role != timesheet.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}

	if _, err := s.Directory.GetEmployee(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, timesheet.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Directory.GetEmployeeByID(ctx, in.EmployeeID); err == nil {
		return nil, ErrEmployeeIDTaken
	} else if !errors.Is(err, timesheet.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	emp := timesheet.Employee{
		Name:         in.Name,
		EmployeeID:   in.EmployeeID,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.Directory.SaveEmployee(ctx, emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	emp, err := s.Directory.GetEmployee(ctx, email)
	if err != nil {
		if errors.Is(err, timesheet.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := VerifyPassword(emp.PasswordHash, password); err != nil {
		return nil, ErrBadCredentials
	}

	now := time.Now()
	session := Session{
		Token:     uuid.NewString(),
		Email:     emp.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if s.Sessions != nil {
		if err := s.Sessions.CreateSession(ctx, session); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	return &Identity{
		Name:       emp.Name,
		EmployeeID: emp.EmployeeID,
		Email:      emp.Email,
		Role:       emp.Role,
		Token:      session.Token,
	}, nil
}

// Resolve maps a session token back to the employee, enforcing expiry.
func (s *Service) Resolve(ctx context.Context, token string) (*timesheet.Employee, error) {
	if s.Sessions == nil {
		return nil, timesheet.ErrNotFound
	}
	session, err := s.Sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.Sessions.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}
	return s.Directory.GetEmployee(ctx, session.Email)
}
