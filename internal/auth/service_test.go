package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/users"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "marketplace",
	ExpirationMinutes: 30,
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, repo, sessions := buildTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    strPtr("  New@Example.com "),
		Password: strPtr("secret1"),
		Name:     strPtr("Ann"),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "new@example.com" {
		t.Fatalf("expected normalized email, got %q", resp.User.Email)
	}
	if resp.User.Name != "Ann" {
		t.Fatalf("expected name Ann, got %q", resp.User.Name)
	}

	stored := repo.byEmail["new@example.com"]
	if stored == nil || stored.PasswordHash == nil || *stored.PasswordHash == "secret1" {
		t.Fatalf("expected hashed password to be stored")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("expected user id claim %s, got %s", resp.User.ID, claims.UserID)
	}
	if _, ok := sessions.active[claims.ID]; !ok {
		t.Fatalf("expected jti %s to have a session", claims.ID)
	}
	if !strings.HasPrefix(resp.RefreshToken, claims.ID+".") {
		t.Fatalf("refresh token %q not bound to jti %s", resp.RefreshToken, claims.ID)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, repo, _ := buildTestService(t)
	repo.add(t, "taken@example.com", "secret1")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    strPtr("TAKEN@example.com"),
		Password: strPtr("secret1"),
	})
	assertCode(t, err, pkgerrors.CodeConflict, userAlreadyExistsMessage)
}

func TestRegisterValidatesPayload(t *testing.T) {
	svc, _, _ := buildTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    strPtr("not-an-email"),
		Password: strPtr("123"),
	})
	assertCode(t, err, pkgerrors.CodeValidation, "")

	got := validation.FromError(err).Messages()
	want := []string{"invalid-email", "min-password-length-6"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoginSucceedsWithValidPassword(t *testing.T) {
	svc, repo, _ := buildTestService(t)
	user := repo.add(t, "buyer@example.com", "correct-horse")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    strPtr("Buyer@Example.com"),
		Password: strPtr("correct-horse"),
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, resp.User.ID)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected both tokens")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo, _ := buildTestService(t)
	repo.add(t, "buyer@example.com", "correct-horse")
	oauthOnly := &models.User{ID: uuid.New(), Email: "oauth@example.com", Name: "O"}
	repo.byEmail[oauthOnly.Email] = oauthOnly

	cases := []LoginRequest{
		{Email: strPtr("buyer@example.com"), Password: strPtr("wrong-horse")},
		{Email: strPtr("nobody@example.com"), Password: strPtr("correct-horse")},
		{Email: strPtr("oauth@example.com"), Password: strPtr("anything")},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		assertCode(t, err, pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
}

func TestRefreshTokensRotatesSession(t *testing.T) {
	svc, repo, sessions := buildTestService(t)
	repo.add(t, "buyer@example.com", "correct-horse")

	first, err := svc.Login(context.Background(), LoginRequest{
		Email:    strPtr("buyer@example.com"),
		Password: strPtr("correct-horse"),
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second, err := svc.RefreshTokens(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("expected a rotated refresh token")
	}
	if len(sessions.active) != 1 {
		t.Fatalf("expected exactly one live session, got %d", len(sessions.active))
	}

	_, err = svc.RefreshTokens(context.Background(), first.RefreshToken)
	assertCode(t, err, pkgerrors.CodeUnauthorized, invalidRefreshTokenMessage)
}

func TestRefreshTokensRejectsEmptyToken(t *testing.T) {
	svc, _, _ := buildTestService(t)
	_, err := svc.RefreshTokens(context.Background(), " ")
	assertCode(t, err, pkgerrors.CodeUnauthorized, invalidRefreshTokenMessage)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, repo, sessions := buildTestService(t)
	repo.add(t, "buyer@example.com", "correct-horse")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    strPtr("buyer@example.com"),
		Password: strPtr("correct-horse"),
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background(), resp.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.active) != 0 {
		t.Fatalf("expected session to be revoked")
	}
}

func TestLogoutIgnoresAccessIDWithoutSecret(t *testing.T) {
	svc, repo, sessions := buildTestService(t)
	repo.add(t, "buyer@example.com", "correct-horse")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    strPtr("buyer@example.com"),
		Password: strPtr("correct-horse"),
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	// The jti is readable from any access token; pairing it with a guessed
	// secret must not sign the victim out.
	if err := svc.Logout(context.Background(), claims.ID+".guessed"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.active[claims.ID]; !ok {
		t.Fatal("session revoked without its secret")
	}
}

func buildTestService(t *testing.T) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	repo := newStubUserRepo()
	sessions := &stubSessionManager{active: map[string]session.Issued{}}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		Hasher:         testHasher(),
		JWTConfig:      testJWT,
		Now:            func() time.Time { return time.Now() },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
}

func testHasher() *security.PasswordHasher {
	return security.NewPasswordHasher(config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1})
}

func assertCode(t *testing.T, err error, code pkgerrors.Code, message string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
	if message != "" && typed.Message() != message {
		t.Fatalf("expected message %q, got %q", message, typed.Message())
	}
}

func strPtr(value string) *string {
	return &value
}

type stubUserRepo struct {
	byEmail map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*models.User{}}
}

func (s *stubUserRepo) add(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := testHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{ID: uuid.New(), Email: email, PasswordHash: &hash, Name: users.DefaultName}
	s.byEmail[email] = user
	return user
}

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSessionManager struct {
	active map[string]session.Issued
}

func (s *stubSessionManager) Generate(_ context.Context, userID uuid.UUID) (session.Issued, error) {
	accessID := session.NewAccessID()
	issued := session.Issued{AccessID: accessID, RefreshToken: accessID + "." + uuid.NewString(), UserID: userID}
	s.active[accessID] = issued
	return issued, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, refreshToken string) (session.Issued, error) {
	accessID, _, ok := session.SplitRefreshToken(refreshToken)
	if !ok {
		return session.Issued{}, session.ErrInvalidRefreshToken
	}
	current, ok := s.active[accessID]
	if !ok || current.RefreshToken != refreshToken {
		return session.Issued{}, session.ErrInvalidRefreshToken
	}
	delete(s.active, accessID)
	return s.Generate(ctx, current.UserID)
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(s.active, accessID)
	return nil
}

func (s *stubSessionManager) RevokeRefresh(_ context.Context, refreshToken string) error {
	accessID, _, ok := session.SplitRefreshToken(refreshToken)
	if !ok {
		return session.ErrInvalidRefreshToken
	}
	current, ok := s.active[accessID]
	if !ok || current.RefreshToken != refreshToken {
		return session.ErrInvalidRefreshToken
	}
	delete(s.active, accessID)
	return nil
}
