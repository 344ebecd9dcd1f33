package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/domain"
)

const testUserID = "5f0c7d3e-9a51-4c1b-8f7e-2d6b4a9c1e30"

type stubUserService struct {
	getAllFn         func(ctx context.Context) ([]domain.User, error)
	getFn            func(ctx context.Context, id string) (*domain.User, error)
	getByUsernameFn  func(ctx context.Context, username string) (*domain.User, error)
	registerFn       func(ctx context.Context, in domain.UserCreate) (*domain.User, error)
	updateFn         func(ctx context.Context, id string, p domain.UserProfile) (bool, error)
	changePasswordFn func(ctx context.Context, id, password string) (bool, error)
	deleteFn         func(ctx context.Context, id string) (bool, error)
}

func (s *stubUserService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.getAllFn(ctx)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *stubUserService) Register(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id string, p domain.UserProfile) (bool, error) {
	return s.updateFn(ctx, id, p)
}

func (s *stubUserService) ChangePassword(ctx context.Context, id, password string) (bool, error) {
	return s.changePasswordFn(ctx, id, password)
}

func (s *stubUserService) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) Authenticate(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (s *stubUserService) Logout(context.Context, string) error {
	return nil
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:       testUserID,
		Username: "alice",
		Gender:   domain.GenderFemale,
		Active:   true,
		Roles:    []domain.Role{domain.RoleUser},
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestUserHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
			if in.Username != "alice" || in.Password != "secret1" || in.Gender != domain.GenderFemale {
				t.Fatalf("unexpected input: %+v", in)
			}
			if len(in.Roles) != 0 {
				t.Fatalf("roles must not be taken from public registration: %v", in.Roles)
			}
			return sampleUser(), nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/users",
		`{"username":"alice","password":"secret1","gender":"female","roles":["admin"]}`), rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/users/"+testUserID {
		t.Fatalf("unexpected location %q", loc)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["id"] != testUserID {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash leaked: %+v", resp)
	}
}

func TestUserHandler_Create_Invalid(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"missing username", `{"password":"secret1","gender":"male"}`},
		{"short password", `{"username":"alice","password":"x","gender":"male"}`},
		{"unknown gender", `{"username":"alice","password":"secret1","gender":"other"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(jsonRequest(http.MethodPost, "/users", tt.body), httptest.NewRecorder())
			if err := handler.Create(c); httpStatus(err) != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestUserHandler_Create_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
			return nil, domain.ErrDuplicateKey
		},
	}
	handler := NewUserHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/users",
		`{"username":"alice","password":"secret1","gender":"female"}`), httptest.NewRecorder())

	if err := handler.Create(c); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestUserHandler_Get(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != testUserID {
				return nil, domain.ErrNotFound
			}
			return sampleUser(), nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(testUserID)

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	if err := handler.Get(c); httpStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %v", err)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}
	handler := NewUserHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(testUserID)

	if err := handler.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getAllFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{*sampleUser(), {ID: "b", Username: "bob", Roles: []domain.Role{domain.RoleAdmin}}}, nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users", nil), rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[1]["username"] != "bob" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_GetByUsername(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			if username != "alice" {
				return nil, domain.ErrNotFound
			}
			return sampleUser(), nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("username")
	c.SetParamValues("alice")
	if err := handler.GetByUsername(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("unexpected result %d %v", rec.Code, err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("username")
	c.SetParamValues("ghost")
	if err := handler.GetByUsername(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	e := newTestEcho()
	var got domain.UserProfile
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, p domain.UserProfile) (bool, error) {
			got = p
			return id == testUserID, nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"gender":"male","active":false,"roles":["admin","user"]}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(testUserID)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.Gender != domain.GenderMale || got.Active || len(got.Roles) != 2 || got.Roles[0] != domain.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", got)
	}

	c = e.NewContext(jsonRequest(http.MethodPut, "/", `{"gender":"male"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("0b7d1c2e-0000-4000-8000-000000000000")
	if err := handler.Update(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserHandler_Update_InvalidRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, p domain.UserProfile) (bool, error) {
			t.Fatalf("should not be called")
			return false, nil
		},
	}
	handler := NewUserHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"gender":"male","roles":["root"]}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(testUserID)

	if err := handler.Update(c); httpStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return id == testUserID, nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/users?id="+testUserID, nil), rec)
	if err := handler.Delete(c); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected result %d %v", rec.Code, err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/users?id=0b7d1c2e-0000-4000-8000-000000000000", nil), httptest.NewRecorder())
	if err := handler.Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/users", nil), httptest.NewRecorder())
	if err := handler.Delete(c); httpStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %v", err)
	}
}

func TestUserHandler_Me(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != testUserID {
				t.Fatalf("expected caller id, got %s", id)
			}
			return sampleUser(), nil
		},
		updateFn: func(ctx context.Context, id string, p domain.UserProfile) (bool, error) {
			if id != testUserID {
				t.Fatalf("expected caller id, got %s", id)
			}
			return true, nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/get/me", nil), rec)
	withCaller(c, testUserID)
	if err := handler.GetMe(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("GetMe: %d %v", rec.Code, err)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPut, "/users/update/me", `{"gender":"female","active":true}`), rec)
	withCaller(c, testUserID)
	if err := handler.UpdateMe(c); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("UpdateMe: %d %v", rec.Code, err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/users/get/me", nil), httptest.NewRecorder())
	if err := handler.GetMe(c); httpStatus(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	e := newTestEcho()
	var gotPassword string
	stub := &stubUserService{
		changePasswordFn: func(ctx context.Context, id, password string) (bool, error) {
			gotPassword = password
			return id == testUserID, nil
		},
	}
	handler := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPatch, "/", nil), rec)
	c.SetParamNames("password")
	c.SetParamValues("n3w-pass")
	withCaller(c, testUserID)

	if err := handler.ChangePassword(c); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected result %d %v", rec.Code, err)
	}
	if gotPassword != "n3w-pass" {
		t.Fatalf("unexpected password %q", gotPassword)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodPatch, "/", nil), httptest.NewRecorder())
	c.SetParamNames("password")
	c.SetParamValues("n3w-pass")
	withCaller(c, "0b7d1c2e-0000-4000-8000-000000000000")
	if err := handler.ChangePassword(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
