package telemetry

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
)

func TestInitSentryDisabledWithoutDSN(t *testing.T) {
	if err := InitSentry("", "test", "dev"); err != nil {
		t.Fatalf("InitSentry(\"\") = %v", err)
	}

	// Must not panic with no client bound.
	CaptureError(errors.New("boom"), nil, map[string]string{"path": "/api/x"})
	CaptureError(nil, nil, nil)
}

func TestScrubPII(t *testing.T) {
	event := &sentry.Event{
		User: sentry.User{Email: "ada@example.com", IPAddress: "10.0.0.1"},
		Request: &sentry.Request{
			Headers: map[string]string{
				"Authorization": "Bearer abc",
				"Cookie":        "token=abc",
				"Accept":        "application/json",
			},
			Cookies: "token=abc",
			Data:    `{"password":"hunter22"}`,
		},
	}

	got := scrubPII(event)

	if got.User.Email != "[redacted]" || got.User.IPAddress != "" {
		t.Errorf("user not scrubbed: %+v", got.User)
	}
	if got.Request.Headers["Authorization"] != "[redacted]" || got.Request.Headers["Cookie"] != "[redacted]" {
		t.Errorf("headers not scrubbed: %v", got.Request.Headers)
	}
	if got.Request.Headers["Accept"] != "application/json" {
		t.Errorf("unrelated header changed: %v", got.Request.Headers)
	}
	if got.Request.Data != "" || got.Request.Cookies != "" {
		t.Error("request body or cookies kept")
	}
	if scrubPII(nil) != nil {
		t.Error("scrubPII(nil) != nil")
	}
}
