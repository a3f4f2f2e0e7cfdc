package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/khrees2412/stageconnect/internal/api"
	"github.com/khrees2412/stageconnect/pkg/models"
)

type fakeBackend struct {
	user      *models.User
	meErr     error
	loginErr  error
	logoutErr error
	logouts   int
	meCalls   int
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (models.User, error) {
	if f.loginErr != nil {
		return models.User{}, f.loginErr
	}
	role := models.RoleStudent
	u := models.User{ID: 1, Username: username, Email: username + "@example.com", Role: &role}
	f.user = &u
	return u, nil
}

func (f *fakeBackend) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	role := req.Role
	u := models.User{ID: 2, Username: req.Username, Email: req.Email, Role: &role}
	f.user = &u
	return u, nil
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.logouts++
	f.user = nil
	return f.logoutErr
}

func (f *fakeBackend) CurrentUser(ctx context.Context) (models.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return models.User{}, f.meErr
	}
	if f.user == nil {
		return models.User{}, errors.New("Authentication credentials were not provided.")
	}
	return *f.user, nil
}

func settledWithin(t *testing.T, s *Store) {
	t.Helper()
	select {
	case <-s.Settled():
	case <-time.After(time.Second):
		t.Fatal("store never settled")
	}
}

func TestInitSettlesToAnonymousOrAuthenticated(t *testing.T) {
	role := models.RoleManager
	tests := []struct {
		name    string
		backend *fakeBackend
		want    State
	}{
		{"active session", &fakeBackend{user: &models.User{ID: 9, Username: "marc", Role: &role}}, Authenticated},
		{"no session", &fakeBackend{}, Anonymous},
		{"network failure", &fakeBackend{meErr: errors.New("network error: unable to reach the server")}, Anonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.backend, nil)
			if !s.Loading() || s.State() != Unknown {
				t.Fatalf("new store state = %v, want unknown", s.State())
			}
			if _, ok := s.Current(); ok {
				t.Error("identity readable before the check resolved")
			}

			s.Init(context.Background())
			settledWithin(t, s)

			if s.Loading() {
				t.Error("still loading after init")
			}
			if s.State() != tt.want {
				t.Errorf("state = %v, want %v", s.State(), tt.want)
			}
		})
	}
}

func TestInitRunsOnce(t *testing.T) {
	b := &fakeBackend{}
	s := New(b, nil)
	s.Init(context.Background())
	s.Init(context.Background())
	if b.meCalls != 1 {
		t.Errorf("identity check ran %d times, want 1", b.meCalls)
	}
}

func TestLoginSetsIdentity(t *testing.T) {
	s := New(&fakeBackend{}, nil)
	s.Init(context.Background())

	user, err := s.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.State() != Authenticated {
		t.Fatalf("state = %v", s.State())
	}
	current, ok := s.Current()
	if !ok || current.Username != "alice" || current.ID != user.ID {
		t.Errorf("current = %+v", current)
	}
	if r := s.Role(); r == nil || *r != models.RoleStudent {
		t.Errorf("role = %v", r)
	}
}

func TestLoginFailureKeepsState(t *testing.T) {
	b := &fakeBackend{loginErr: errors.New("Invalid credentials")}
	s := New(b, nil)
	s.Init(context.Background())

	_, err := s.Login(context.Background(), "alice", "wrong")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("error = %v", err)
	}
	if s.State() != Anonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}
}

func TestLoginThenRefreshIsIdempotent(t *testing.T) {
	s := New(&fakeBackend{}, nil)
	s.Init(context.Background())

	user, err := s.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	current, _ := s.Current()
	if !reflect.DeepEqual(current, user) {
		t.Errorf("refresh changed identity: %+v != %+v", current, user)
	}
}

func TestRegisterSetsIdentity(t *testing.T) {
	s := New(&fakeBackend{}, nil)
	s.Init(context.Background())

	_, err := s.Register(context.Background(), models.RegisterRequest{
		Username: "acme", Email: "hr@acme.test", Password: "pw", Role: models.RoleCompany,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.RequireRole(models.RoleCompany); err != nil {
		t.Errorf("require company: %v", err)
	}
}

func TestLogoutAlwaysClearsState(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{"success", nil},
		{"network failure", errors.New("network error: unable to reach the server")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{logoutErr: tt.logoutErr}
			s := New(b, nil)
			s.Init(context.Background())
			if _, err := s.Login(context.Background(), "alice", "secret"); err != nil {
				t.Fatalf("login: %v", err)
			}

			err := s.Logout(context.Background())
			if !errors.Is(err, tt.logoutErr) {
				t.Errorf("logout error = %v, want %v", err, tt.logoutErr)
			}
			if b.logouts != 1 {
				t.Errorf("logout calls = %d, want 1", b.logouts)
			}
			if s.State() != Anonymous {
				t.Errorf("state = %v, want anonymous", s.State())
			}
			if u, ok := s.Current(); ok || u != (models.User{}) {
				t.Errorf("identity not cleared: %+v", u)
			}
		})
	}
}

func TestRefreshFailureDropsToAnonymous(t *testing.T) {
	b := &fakeBackend{}
	s := New(b, nil)
	s.Init(context.Background())
	if _, err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	b.meErr = errors.New("session expired")
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if s.State() != Anonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}
}

func TestRequireRole(t *testing.T) {
	s := New(&fakeBackend{}, nil)
	s.Init(context.Background())

	if _, err := s.RequireRole(); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("anonymous: error = %v", err)
	}

	if _, err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := s.RequireRole(); err != nil {
		t.Errorf("any role: %v", err)
	}
	if _, err := s.RequireRole(models.RoleManager, models.RoleAdministrator); !errors.Is(err, ErrForbidden) {
		t.Errorf("student as manager: error = %v", err)
	}
}

func TestStoreWithAPIClient(t *testing.T) {
	role := models.RoleStudent
	alice := models.User{ID: 1, Username: "alice", Email: "alice@example.com", FirstName: "Alice", Role: &role}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"csrfToken": "tok"})
	})
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
		_ = json.NewEncoder(w).Encode(alice)
	})
	mux.HandleFunc("/api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sessionid"); err != nil {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		_ = json.NewEncoder(w).Encode(alice)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.New(context.Background(), srv.URL+"/api")
	if err := client.Ready(context.Background()); err != nil {
		t.Fatalf("ready: %v", err)
	}
	s := New(client, nil)
	s.Init(context.Background())
	if s.State() != Anonymous {
		t.Fatalf("state = %v, want anonymous", s.State())
	}

	user, err := s.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	current, _ := s.Current()
	if !reflect.DeepEqual(current, user) {
		t.Errorf("refresh changed identity: %+v != %+v", current, user)
	}
}
