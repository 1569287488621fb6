package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Alexotieno1717/bonga-survey-sub000/database"
)

func TestResponseBufferFlush(t *testing.T) {
	buf := NewResponseBuffer()
	buf.Header().Set("X-Test", "1")
	buf.WriteHeader(http.StatusTeapot)
	buf.WriteHeader(http.StatusOK)
	buf.Write([]byte("short and stout"))

	if buf.Status() != http.StatusTeapot {
		t.Fatalf("expected first status to stick, got %d", buf.Status())
	}

	rec := httptest.NewRecorder()
	if err := buf.Flush(rec); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if rec.Code != http.StatusTeapot || rec.Body.String() != "short and stout" || rec.Header().Get("X-Test") != "1" {
		t.Fatalf("unexpected flushed response %d %q %v", rec.Code, rec.Body.String(), rec.Header())
	}

	if NewResponseBuffer().Status() != http.StatusOK {
		t.Fatal("expected default status 200")
	}
}

func TestLogInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/surveys", nil)
	LogInvalid(rec, req, "request.validate", map[string]string{"name": "required"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Errors["name"] != "required" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCredentialsVerifier(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	id, err := CreateUser(db, "alice", "correct horse")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	cv := CredentialsVerifier(db)
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)

	if err := cv.ValidateUser("alice", "correct horse", "", req); err != nil {
		t.Fatalf("expected valid password: %v", err)
	}
	if err := cv.ValidateUser("alice", "wrong", "", req); err != bcrypt.ErrMismatchedHashAndPassword {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := cv.ValidateUser("mallory", "x", "", req); err == nil {
		t.Fatal("expected unknown user error")
	}

	claims, err := cv.AddClaims("", "alice", "", "", req)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims[ClaimUserID] == "" || claims[ClaimUserID] != strconv.FormatInt(id, 10) {
		t.Fatalf("unexpected claims %v", claims)
	}

	if err := cv.StoreTokenID("", "alice", "tok", "ref"); err != nil {
		t.Fatalf("store token: %v", err)
	}
	if err := cv.ValidateTokenID("", "alice", "tok", "ref"); err != nil {
		t.Fatalf("validate token: %v", err)
	}
	// refresh tokens are single use
	if err := cv.ValidateTokenID("", "alice", "tok", "ref"); err == nil {
		t.Fatal("expected second use to fail")
	}
}
