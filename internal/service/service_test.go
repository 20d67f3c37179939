package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devconnector/devconnector-go/internal/crypto"
	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/repository"
)

var testHashParams = crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type fixture struct {
	mem      *repository.Memory
	tokens   *crypto.TokenService
	auth     *AuthService
	profiles *ProfileService
	posts    *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := repository.NewMemory()
	tokens := crypto.NewTokenService("test-secret", time.Hour)
	return &fixture{
		mem:      mem,
		tokens:   tokens,
		auth:     NewAuthService(mem.Users(), crypto.NewArgon2Hasher(testHashParams), tokens),
		profiles: NewProfileService(mem.Profiles(), mem.Users(), nil),
		posts:    NewPostService(mem.Posts(), mem.Users()),
	}
}

// register creates a user and returns their id.
func (f *fixture) register(t *testing.T, name, email string) string {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), model.RegisterRequest{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	id, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	return id
}

func ptr(s string) *string { return &s }
