package templates

import (
	"strings"
	"testing"
)

func TestRenderWelcome(t *testing.T) {
	subject, text, html, err := Render(Welcome, map[string]any{
		"Login":   "alice",
		"Name":    "Alice",
		"AppName": "forumhq",
		"SiteURL": "https://forum.example.com",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(subject, "Alice") {
		t.Errorf("subject missing name: %q", subject)
	}
	if !strings.Contains(text, "alice") {
		t.Errorf("text missing login: %q", text)
	}
	if !strings.Contains(html, "alice") {
		t.Errorf("html missing login: %q", html)
	}
}

func TestRenderWelcomeFallsBackToLogin(t *testing.T) {
	subject, _, _, err := Render(Welcome, map[string]any{"Login": "bob", "Name": ""})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(subject, "bob") {
		t.Errorf("subject should fall back to login: %q", subject)
	}
}

func TestRenderPasswordReset(t *testing.T) {
	subject, text, html, err := Render(PasswordReset, map[string]any{
		"Login":         "alice",
		"ResetURL":      "https://forum.example.com/reset-password?token=abc",
		"ExpiresAtText": "01 January 2030, 00:00 UTC",
		"IP":            "10.0.0.1",
		"Location":      "Berlin, Germany",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(strings.ToLower(subject), "reset") {
		t.Errorf("unexpected subject: %q", subject)
	}
	if !strings.Contains(text, "token=abc") || !strings.Contains(html, "token=abc") {
		t.Errorf("reset link missing")
	}
	if !strings.Contains(text, "Berlin") {
		t.Errorf("location missing from text: %q", text)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("nonexistent", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}
