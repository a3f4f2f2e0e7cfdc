package database

import (
	"database/sql"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"
)

// createTestDB creates a temporary test database
func createTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db
}

// setupTest points DB at a fresh database and returns a cleanup function
func setupTest(t *testing.T) func() {
	db := createTestDB(t)
	oldDB := DB
	DB = db

	return func() {
		DB = oldDB
		db.Close()
	}
}

func TestSaveAndGetCookies(t *testing.T) {
	cleanup := setupTest(t)
	defer cleanup()

	session := &http.Cookie{Name: "sessionid", Value: "abc", Path: "/", HttpOnly: true}
	csrf := &http.Cookie{Name: "csrftoken", Value: "tok", Expires: time.Now().Add(time.Hour)}

	for _, c := range []*http.Cookie{session, csrf} {
		if err := SaveCookie("localhost:8000", c); err != nil {
			t.Fatalf("save %s: %v", c.Name, err)
		}
	}
	if err := SaveCookie("other.test", &http.Cookie{Name: "sessionid", Value: "zzz"}); err != nil {
		t.Fatalf("save other host: %v", err)
	}

	cookies, err := GetCookies("localhost:8000")
	if err != nil {
		t.Fatalf("get cookies: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d: %+v", len(cookies), cookies)
	}
	// ordered by name
	if cookies[0].Name != "csrftoken" || cookies[1].Name != "sessionid" {
		t.Errorf("unexpected order: %s, %s", cookies[0].Name, cookies[1].Name)
	}
	if cookies[0].Path != "/" {
		t.Errorf("empty path should be stored as /, got %q", cookies[0].Path)
	}
	if !cookies[1].HttpOnly || cookies[1].Value != "abc" {
		t.Errorf("session cookie not restored: %+v", cookies[1])
	}
}

func TestSaveCookieReplacesValue(t *testing.T) {
	cleanup := setupTest(t)
	defer cleanup()

	if err := SaveCookie("localhost:8000", &http.Cookie{Name: "sessionid", Value: "old", Path: "/"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SaveCookie("localhost:8000", &http.Cookie{Name: "sessionid", Value: "new", Path: "/"}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	cookies, err := GetCookies("localhost:8000")
	if err != nil {
		t.Fatalf("get cookies: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Value != "new" {
		t.Errorf("expected a single replaced cookie, got %+v", cookies)
	}
}

func TestExpiredCookiesAreSkippedAndPruned(t *testing.T) {
	cleanup := setupTest(t)
	defer cleanup()

	expired := &http.Cookie{Name: "old", Value: "x", Expires: time.Now().Add(-time.Hour)}
	if err := SaveCookie("localhost:8000", expired); err != nil {
		t.Fatalf("save: %v", err)
	}

	cookies, err := GetCookies("localhost:8000")
	if err != nil {
		t.Fatalf("get cookies: %v", err)
	}
	if len(cookies) != 0 {
		t.Errorf("expired cookie returned: %+v", cookies)
	}

	n, err := PruneExpiredCookies()
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
}

func TestCookieJarPersistsAcrossInstances(t *testing.T) {
	cleanup := setupTest(t)
	defer cleanup()

	origin, _ := url.Parse("http://localhost:8000/api")
	jar, err := NewCookieJar(origin, nil)
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	jar.SetCookies(origin, []*http.Cookie{{Name: "sessionid", Value: "s1", Path: "/"}})

	// a later process
	restored, err := NewCookieJar(origin, nil)
	if err != nil {
		t.Fatalf("restore jar: %v", err)
	}
	got := restored.Cookies(origin)
	if len(got) != 1 || got[0].Name != "sessionid" || got[0].Value != "s1" {
		t.Fatalf("session cookie not restored: %+v", got)
	}

	// the server clears the cookie on logout
	restored.SetCookies(origin, []*http.Cookie{{Name: "sessionid", Value: "", Path: "/", MaxAge: -1}})
	if got := restored.Cookies(origin); len(got) != 0 {
		t.Errorf("cookie still in memory: %+v", got)
	}
	stored, err := GetCookies(origin.Host)
	if err != nil {
		t.Fatalf("get cookies: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("cookie still stored: %+v", stored)
	}
}

func TestDeleteCookies(t *testing.T) {
	cleanup := setupTest(t)
	defer cleanup()

	for _, name := range []string{"a", "b"} {
		if err := SaveCookie("localhost:8000", &http.Cookie{Name: name, Value: "v"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := DeleteCookies("localhost:8000"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	cookies, _ := GetCookies("localhost:8000")
	if len(cookies) != 0 {
		t.Errorf("cookies left: %+v", cookies)
	}
}
