package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/tastebud/internal/auth"
	"github.com/sakif/tastebud/internal/handler"
	"github.com/sakif/tastebud/internal/repository/sqlite"
)

// testEnv wires handlers over a fresh in-memory store, the way server.New
// does in production.
type testEnv struct {
	db     *sqlite.DB
	tokens *auth.TokenService
	auth   *handler.AuthHandler
	users  *handler.UserHandler
	prefs  *handler.PreferenceHandler
	rests  *handler.RestaurantHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		db:     db,
		tokens: tokens,
		auth:   handler.NewAuthHandler(db, db, tokens, logger),
		users:  handler.NewUserHandler(db, logger),
		prefs:  handler.NewPreferenceHandler(db, logger),
		rests:  handler.NewRestaurantHandler(db, db, logger),
	}
}

// postJSON runs a handler func against a JSON body and returns the recorder.
func postJSON(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// authedRequest builds a request whose context carries claims, as the auth
// middleware would have left it.
func authedRequest(t *testing.T, env *testEnv, method, target, body, userID, role string) *http.Request {
	t.Helper()

	token, err := env.tokens.Issue(userID, role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)

	// Run the real middleware to populate the context.
	rr := httptest.NewRecorder()
	var out *http.Request
	auth.Require(env.tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out = r
	})).ServeHTTP(rr, req)
	if out == nil {
		t.Fatalf("middleware rejected test token: %d %s", rr.Code, rr.Body.String())
	}
	return out
}

// newRecorderFor runs a handler func against an already-built request.
func newRecorderFor(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body %q: %v", rr.Body.String(), err)
	}
}

// registerUser goes through the real registration handler and returns the
// new account's ID (via login).
func registerAndLogin(t *testing.T, env *testEnv, username, password string) (token, userID string) {
	t.Helper()

	rr := postJSON(t, env.auth.HandleRegister, http.MethodPost, "/api/register",
		`{"username":"`+username+`","email":"`+username+`@x.com","password":"`+password+`"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rr.Code, rr.Body.String())
	}

	rr = postJSON(t, env.auth.HandleLogin, http.MethodPost, "/api/login",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rr.Code, rr.Body.String())
	}

	var res struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, rr, &res)
	return res.Token, res.User.ID
}
