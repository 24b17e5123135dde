// Package identity exposes the external identity provider as a black box:
// the rest of the system only asks whether someone is signed in and, if so,
// for a stable user identifier.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotSignedIn is returned when no user is signed in.
var ErrNotSignedIn = errors.New("not signed in")

// User is the profile the provider exposes. Course creation consumes only
// the ID, as the instructor identifier.
type User struct {
	ID    string
	Email string
	Name  string
}

// Provider reports the signed-in user.
type Provider interface {
	CurrentUser(ctx context.Context) (User, error)
}

// StaticProvider is a Provider for single-operator deployments: the user is
// fixed at construction from configuration.
type StaticProvider struct {
	user User
}

// NewStaticProvider creates a provider for one fixed user.
func NewStaticProvider(id, email, name string) (*StaticProvider, error) {
	if id == "" {
		return nil, fmt.Errorf("identity user ID is required (CRAFT_IDENTITY_USER_ID)")
	}
	return &StaticProvider{user: User{ID: id, Email: email, Name: name}}, nil
}

func (p *StaticProvider) CurrentUser(_ context.Context) (User, error) {
	return p.user, nil
}

// MockProvider is a test double for Provider.
type MockProvider struct {
	User User
	Err  error
}

func (m *MockProvider) CurrentUser(_ context.Context) (User, error) {
	if m.Err != nil {
		return User{}, m.Err
	}
	if m.User.ID == "" {
		return User{}, ErrNotSignedIn
	}
	return m.User, nil
}
