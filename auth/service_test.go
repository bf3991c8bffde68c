package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestService_RegisterAndLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	req := RegisterRequest{
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: "supersafe",
	}

	ctx := context.Background()
	user, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatalf("register: unexpected error: %v", err)
	}

	if user.Email != req.Email {
		t.Fatalf("expected email %q got %q", req.Email, user.Email)
	}
	if user.Role != RoleVerified {
		t.Fatalf("register: expected default role %s got %s", RoleVerified, user.Role)
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		t.Fatalf("login: unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login: expected token, got empty string")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("login: expected user id %s got %s", user.ID, resp.User.ID)
	}

	tokenUserID, tokenRole, err := svc.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if tokenUserID != user.ID {
		t.Fatalf("verify token: expected %s got %s", user.ID, tokenUserID)
	}
	if tokenRole != RoleVerified {
		t.Fatalf("verify token: expected role %s got %s", RoleVerified, tokenRole)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "",
		Name:     "",
		Password: "strongpassword",
	}); err == nil {
		t.Fatal("expected validation error for missing fields")
	}
}

func TestService_LoginWrongPassword(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{
		Name:     "Bob Example",
		Email:    "bob@example.com",
		Password: "supersafe",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "bob@example.com", Password: "different"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "supersafe"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestService_VerifyTokenRejectsForeignSecret(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")
	other := NewService(repo, "other-secret")

	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{
		Name:     "Carol Example",
		Email:    "carol@example.com",
		Password: "supersafe",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := svc.Login(ctx, LoginRequest{Email: "carol@example.com", Password: "supersafe"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := other.VerifyToken(resp.Token); err == nil {
		t.Fatal("expected token signed with different secret to be rejected")
	}
}

type fakeRepository struct {
	byEmail map[string]User
	byID    map[uuid.UUID]User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byEmail: make(map[string]User),
		byID:    make(map[uuid.UUID]User),
	}
}

func (f *fakeRepository) CreateUser(_ context.Context, params CreateUserParams) (User, error) {
	key := strings.ToLower(params.Email)
	if _, exists := f.byEmail[key]; exists {
		return User{}, ErrDuplicateEmail
	}
	user := User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
	}
	f.byEmail[key] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeRepository) GetUserByEmail(_ context.Context, email string) (User, error) {
	user, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetUserByID(_ context.Context, userID uuid.UUID) (User, error) {
	user, ok := f.byID[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}
