package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

type fakeSession struct {
	token   string
	expired bool
}

func (f *fakeSession) Token() (string, bool) {
	if f.token == "" {
		return "", false
	}
	return f.token, true
}

func (f *fakeSession) Expire() error {
	f.expired = true
	f.token = ""
	return nil
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeSession{token: "tok-abc"}, zerolog.Nop())
	if _, err := c.Get(context.Background(), "/appointments/"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeSession{}, zerolog.Nop())
	if _, err := c.Get(context.Background(), "/stripe-config/"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no auth header, got %q", gotAuth)
	}
}

func TestClient_Unauthorized_ClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Given token not valid"}`))
	}))
	defer srv.Close()

	sess := &fakeSession{token: "stale"}
	c := NewClient(srv.URL, sess, zerolog.Nop())
	_, err := c.Get(context.Background(), "/appointments/")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !sess.expired {
		t.Error("expected session to be cleared")
	}
}

func TestClient_AnonymousCall_401IsPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer srv.Close()

	sess := &fakeSession{token: "existing"}
	c := NewClient(srv.URL, sess, zerolog.Nop())
	_, err := c.PostAnon(context.Background(), "/login/", map[string]string{"username": "x"})
	if errors.Is(err, ErrSessionExpired) {
		t.Fatal("login failure must not expire the session")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if sess.expired {
		t.Error("anonymous 401 must not clear the session")
	}
}

func TestClient_ErrorCarriesParsedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Doctor not found","code":17}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeSession{token: "tok"}, zerolog.Nop())
	_, err := c.Get(context.Background(), "/doctors/99/")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to report true")
	}
	if apiErr.Message != "Doctor not found" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if apiErr.Body["code"] != float64(17) {
		t.Errorf("expected parsed body to carry code, got %v", apiErr.Body)
	}
}

func TestClient_EmptyBodyTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeSession{token: "tok"}, zerolog.Nop())
	resp, err := c.Delete(context.Background(), "/users/3/delete/")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var out map[string]interface{}
	if err := resp.Decode(&out); err != nil {
		t.Errorf("Decode of empty body: %v", err)
	}
}

func TestClient_NonJSONBodyIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway page</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeSession{token: "tok"}, zerolog.Nop())
	resp, err := c.Get(context.Background(), "/appointments/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("expected non-JSON body to be discarded, got %q", resp.Data)
	}
}

func TestClient_DecodesTypedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"publishableKey":"pk_test_123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeSession{token: "tok"}, zerolog.Nop())
	resp, err := c.Get(context.Background(), "/stripe-config/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var out struct {
		PublishableKey string `json:"publishableKey"`
	}
	if err := resp.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.PublishableKey != "pk_test_123" {
		t.Errorf("unexpected key %q", out.PublishableKey)
	}
}
