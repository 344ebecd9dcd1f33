package main

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

type fakeUserService struct {
	ports.UserService

	registered []domain.UserCreate
	users      map[string]domain.User
	updated    map[string]domain.UserProfile
	// gone holds ids removed after lookup; Update reports no match for them.
	gone map[string]bool
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		users:   make(map[string]domain.User),
		updated: make(map[string]domain.UserProfile),
	}
}

func (f *fakeUserService) Register(_ context.Context, in domain.UserCreate) (*domain.User, error) {
	if _, ok := f.users[in.Username]; ok {
		return nil, domain.ErrDuplicateKey
	}
	f.registered = append(f.registered, in)
	u := domain.User{ID: "id-" + in.Username, Username: in.Username, Gender: in.Gender, Active: true, Roles: in.Roles}
	f.users[in.Username] = u
	return &u, nil
}

func (f *fakeUserService) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserService) Update(_ context.Context, id string, p domain.UserProfile) (bool, error) {
	if f.gone[id] {
		return false, nil
	}
	f.updated[id] = p
	return true, nil
}

func execute(t *testing.T, svc *fakeUserService, args ...string) (string, error) {
	t.Helper()
	closed := false
	open := func(context.Context) (ports.UserService, func(), error) {
		return svc, func() { closed = true }, nil
	}

	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	if err == nil && !closed {
		t.Fatalf("connections were not cleaned up")
	}
	return out.String(), err
}

func TestCreateAdmin(t *testing.T) {
	svc := newFakeUserService()

	out, err := execute(t, svc, "create-admin", "--username", "root", "--password", "s3cret", "--gender", "female")
	if err != nil {
		t.Fatalf("create-admin: %v", err)
	}
	if !strings.Contains(out, "created admin root") {
		t.Fatalf("unexpected output %q", out)
	}
	if len(svc.registered) != 1 {
		t.Fatalf("expected one registration, got %d", len(svc.registered))
	}
	in := svc.registered[0]
	if in.Gender != domain.GenderFemale || !slices.Contains(in.Roles, domain.RoleAdmin) {
		t.Fatalf("unexpected registration: %+v", in)
	}
}

func TestCreateAdmin_Duplicate(t *testing.T) {
	svc := newFakeUserService()
	svc.users["root"] = domain.User{ID: "id-root", Username: "root"}

	_, err := execute(t, svc, "create-admin", "--username", "root", "--password", "s3cret")
	if err == nil || !strings.Contains(err.Error(), "already taken") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestCreateAdmin_RequiresFlags(t *testing.T) {
	if _, err := execute(t, newFakeUserService(), "create-admin", "--username", "root"); err == nil {
		t.Fatalf("expected missing --password to fail")
	}
}

func TestPromote(t *testing.T) {
	svc := newFakeUserService()
	svc.users["alice"] = domain.User{ID: "id-alice", Username: "alice", Gender: domain.GenderFemale, Active: true, Roles: []domain.Role{domain.RoleUser}}

	out, err := execute(t, svc, "promote", "alice")
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !strings.Contains(out, "promoted alice") {
		t.Fatalf("unexpected output %q", out)
	}

	p, ok := svc.updated["id-alice"]
	if !ok {
		t.Fatalf("expected update for alice")
	}
	if !slices.Equal(p.Roles, []domain.Role{domain.RoleUser, domain.RoleAdmin}) {
		t.Fatalf("unexpected roles %v", p.Roles)
	}
	if p.Gender != domain.GenderFemale || !p.Active {
		t.Fatalf("profile fields must be preserved: %+v", p)
	}
}

func TestPromote_UnknownUser(t *testing.T) {
	_, err := execute(t, newFakeUserService(), "promote", "ghost")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPromote_UserDeletedBeforeUpdate(t *testing.T) {
	svc := newFakeUserService()
	svc.users["bob"] = domain.User{ID: "id-bob", Username: "bob", Gender: domain.GenderMale, Active: true, Roles: []domain.Role{domain.RoleUser}}
	svc.gone = map[string]bool{"id-bob": true}

	out, err := execute(t, svc, "promote", "bob")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if strings.Contains(out, "promoted") {
		t.Fatalf("must not report success: %q", out)
	}
}

func TestOpenError(t *testing.T) {
	open := func(context.Context) (ports.UserService, func(), error) {
		return nil, nil, errors.New("mongo unreachable")
	}
	cmd := newRootCmd(open)
	cmd.SetArgs([]string{"promote", "alice"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected open error")
	}
}
