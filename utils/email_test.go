package utils

import (
	"strings"
	"testing"
)

func TestSendEmailUnconfigured(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_FROM", "")

	if err := SendEmail("kim@example.com", "subject", "<p>body</p>"); err == nil {
		t.Fatal("expected error when SMTP is not configured")
	}
}

func TestEmailConfigConfigured(t *testing.T) {
	c := &EmailConfig{Host: "smtp.example.com", Port: "587", From: "noreply@example.com"}
	if !c.Configured() {
		t.Error("expected config to be usable")
	}
	c.From = ""
	if c.Configured() {
		t.Error("expected config without sender to be unusable")
	}
}

func TestWelcomeEmailBodyEscapesName(t *testing.T) {
	body := welcomeEmailBody("<b>kim</b>", "worker")
	if strings.Contains(body, "<b>kim</b>") {
		t.Errorf("expected name to be escaped, got: %s", body)
	}
	if !strings.Contains(body, "&lt;b&gt;kim&lt;/b&gt;") {
		t.Errorf("expected escaped name in body, got: %s", body)
	}
}

func TestAccountCreatedEmailBody(t *testing.T) {
	body := accountCreatedEmailBody("lee", "manager", "temp-pass-123", "https://shift.example.com/login")
	for _, want := range []string{"lee", "manager", "temp-pass-123", "https://shift.example.com/login"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
}
