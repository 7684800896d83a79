package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/auth"
	"github.com/warp/timesheet-engine/timesheet"
	memstore "github.com/warp/timesheet-engine/timesheet/store"
)

// =============================================================================
// PASSWORD HASHING
// =============================================================================

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NoError(t, auth.VerifyPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, auth.VerifyPassword(hash, "wrong password"), auth.ErrBadCredentials)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := auth.HashPassword("demo1234")
	require.NoError(t, err)
	b, err := auth.HashPassword("demo1234")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same password must use distinct salts")
}

func TestVerifyPassword_RejectsMalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$garbage",
		"$md5$abc$def",
	} {
		err := auth.VerifyPassword(hash, "anything")
		assert.Error(t, err, "hash %q", hash)
	}
}

// =============================================================================
// SIGNUP
// =============================================================================

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]auth.Session)}
}

func (m *memSessions) CreateSession(_ context.Context, s auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *memSessions) GetSession(_ context.Context, token string) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, timesheet.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func newAuthService() (*auth.Service, *memstore.Memory, *memSessions) {
	mem := memstore.NewMemory()
	sessions := newMemSessions()
	return auth.NewService(mem, sessions), mem, sessions
}

func validSignup() auth.SignupInput {
	return auth.SignupInput{
		Name:       "Jordan Rivera",
		EmployeeID: "EMP-0002",
		Email:      "jordan@example.com",
		Password:   "demo1234",
	}
}

func TestSignup_CreatesEmployeeWithHashedPassword(t *testing.T) {
	svc, mem, _ := newAuthService()
	ctx := context.Background()

	emp, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	assert.Equal(t, timesheet.RoleEmployee, emp.Role, "role defaults to employee")
	assert.NotEqual(t, "demo1234", emp.PasswordHash)

	stored, err := mem.GetEmployee(ctx, "jordan@example.com")
	require.NoError(t, err)
	assert.NoError(t, auth.VerifyPassword(stored.PasswordHash, "demo1234"))
}

func TestSignup_NormalizesEmail(t *testing.T) {
	svc, mem, _ := newAuthService()
	ctx := context.Background()

	in := validSignup()
	in.Email = "  Jordan@Example.COM "
	_, err := svc.Signup(ctx, in)
	require.NoError(t, err)

	_, err = mem.GetEmployee(ctx, "jordan@example.com")
	assert.NoError(t, err)
}

func TestSignup_RejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	dup := validSignup()
	dup.EmployeeID = "EMP-0099"
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	dup = validSignup()
	dup.Email = "other@example.com"
	_, err = svc.Signup(ctx, dup)
	assert.ErrorIs(t, err, auth.ErrEmployeeIDTaken)
}

func TestSignup_RejectsUnknownRole(t *testing.T) {
	svc, _, _ := newAuthService()

	in := validSignup()
	in.Role = "superuser"
	_, err := svc.Signup(context.Background(), in)
	assert.Error(t, err)
}

// =============================================================================
// LOGIN AND SESSIONS
// =============================================================================

func TestLogin_IssuesSession(t *testing.T) {
	svc, _, sessions := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	id, err := svc.Login(ctx, "jordan@example.com", "demo1234")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Rivera", id.Name)
	assert.NotEmpty(t, id.Token)

	stored, err := sessions.GetSession(ctx, id.Token)
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", stored.Email)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "jordan@example.com", "not-the-password")
	assert.ErrorIs(t, err, auth.ErrBadCredentials)

	// Unknown account reports the same error as a wrong password.
	_, err = svc.Login(ctx, "nobody@example.com", "demo1234")
	assert.ErrorIs(t, err, auth.ErrBadCredentials)
}

func TestResolve_ReturnsEmployee(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	id, err := svc.Login(ctx, "jordan@example.com", "demo1234")
	require.NoError(t, err)

	emp, err := svc.Resolve(ctx, id.Token)
	require.NoError(t, err)
	assert.Equal(t, "EMP-0002", emp.EmployeeID)
}

func TestResolve_ExpiredSessionIsDeleted(t *testing.T) {
	svc, _, sessions := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	expired := auth.Session{
		Token:     "stale-token",
		Email:     "jordan@example.com",
		CreatedAt: time.Now().Add(-2 * auth.SessionTTL),
		ExpiresAt: time.Now().Add(-auth.SessionTTL),
	}
	require.NoError(t, sessions.CreateSession(ctx, expired))

	_, err = svc.Resolve(ctx, "stale-token")
	assert.ErrorIs(t, err, auth.ErrSessionExpired)

	_, err = sessions.GetSession(ctx, "stale-token")
	assert.ErrorIs(t, err, timesheet.ErrNotFound, "expired session must be purged")
}
