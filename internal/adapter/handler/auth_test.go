package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
	"github.com/juanDango/amaris-prueba-backend/internal/core/identity"
)

type fakeProvider struct {
	signUpErr  error
	confirmErr error
	loginErr   error
	providerID string
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return f.providerID, nil
}

func (f *fakeProvider) Confirm(ctx context.Context, email, code string) error {
	return f.confirmErr
}

func (f *fakeProvider) Login(ctx context.Context, email, password string) (*identity.Tokens, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &identity.Tokens{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}, nil
}

type fakeUserStore struct {
	createErr error
	created   *domain.User
}

func (f *fakeUserStore) CreateUser(ctx context.Context, email, phone, providerID string) (*domain.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &domain.User{
		ID:          uuid.New(),
		Email:       email,
		Phone:       phone,
		Balance:     500000,
		NotifOption: domain.NotifyEmail,
		ProviderID:  providerID,
	}
	return f.created, nil
}

func authApp(provider *fakeProvider, users *fakeUserStore) *fiber.App {
	h := &AuthHandler{Provider: provider, Users: users}
	app := fiber.New()
	app.Post("/auth/signup", h.Signup)
	app.Post("/auth/confirm", h.Confirm)
	app.Post("/auth/login", h.Login)
	return app
}

func TestSignup(t *testing.T) {
	users := &fakeUserStore{}
	app := authApp(&fakeProvider{providerID: "sub-1"}, users)

	resp, err := postJSON(app, "/auth/signup",
		`{"email": "ana@example.com", "password": "hunter22", "phone_number": "+573001112233"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NotNil(t, users.created)
	assert.Equal(t, "ana@example.com", users.created.Email)
	assert.Equal(t, int64(500000), users.created.Balance)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "User signed up successfully", body["message"])
}

func TestSignupMissingCredentials(t *testing.T) {
	app := authApp(&fakeProvider{}, &fakeUserStore{})

	resp, err := postJSON(app, "/auth/signup", `{"email": "ana@example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := authApp(&fakeProvider{signUpErr: domain.ErrEmailTaken}, &fakeUserStore{})

	resp, err := postJSON(app, "/auth/signup",
		`{"email": "ana@example.com", "password": "hunter22"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSignupProviderUnavailable(t *testing.T) {
	app := authApp(&fakeProvider{signUpErr: domain.ErrUpstream}, &fakeUserStore{})

	resp, err := postJSON(app, "/auth/signup",
		`{"email": "ana@example.com", "password": "hunter22"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestConfirmUser(t *testing.T) {
	app := authApp(&fakeProvider{}, &fakeUserStore{})

	resp, err := postJSON(app, "/auth/confirm",
		`{"email": "ana@example.com", "confirmation_code": "123456"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "User confirmed successfully", body["message"])
}

func TestLogin(t *testing.T) {
	app := authApp(&fakeProvider{}, &fakeUserStore{})

	resp, err := postJSON(app, "/auth/login",
		`{"email": "ana@example.com", "password": "hunter22"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens identity.Tokens
	decode(t, resp, &tokens)
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
}

func TestLoginRejected(t *testing.T) {
	app := authApp(&fakeProvider{loginErr: domain.ErrProviderRejected}, &fakeUserStore{})

	resp, err := postJSON(app, "/auth/login",
		`{"email": "ana@example.com", "password": "wrong"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
