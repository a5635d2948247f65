package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestAuthCodeURLCarriesState(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost:8000/api/auth/google/callback")

	raw := p.AuthCodeURL("xyz")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	q := u.Query()
	if q.Get("state") != "xyz" || q.Get("client_id") != "client-id" {
		t.Errorf("auth url = %s", raw)
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Errorf("scope = %q", q.Get("scope"))
	}
}

func TestExchangeFetchesProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"sub":"g-1","name":"Ada","email":"ada@example.com","email_verified":true,"picture":"http://img"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider("id", "secret", "http://cb",
		WithGoogleEndpoints(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo"))

	profile, err := p.Exchange(context.Background(), "code")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}

	if profile.Subject != "g-1" || profile.Email != "ada@example.com" || profile.Picture != "http://img" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestExchangeRejectsIncompleteProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"No Email"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider("id", "secret", "http://cb")
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}
	p.userInfoURL = srv.URL + "/userinfo"

	if _, err := p.Exchange(context.Background(), "code"); err == nil {
		t.Error("profile without subject accepted")
	}
}

func TestExchangeRejectsUnverifiedEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sub":"g-2","email":"victim@example.com","email_verified":false}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider("id", "secret", "http://cb",
		WithGoogleEndpoints(oauth2.Endpoint{TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo"))

	profile, err := p.Exchange(context.Background(), "code")
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("err = %v; want ErrEmailNotVerified", err)
	}
	if profile != nil {
		t.Errorf("profile = %+v; want nil", profile)
	}
}
