package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestSendEmailNotConfigured(t *testing.T) {
	err := SendEmail(&EmailConfig{Host: "smtp.example.com"}, "a@test.com", "subject", "<p>body</p>")
	if !errors.Is(err, ErrSMTPNotConfigured) {
		t.Fatalf("expected ErrSMTPNotConfigured, got %v", err)
	}
}

func TestSMTPMailerConfigFallsBackToEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.env.test")
	if got := (SMTPMailer{}).config().Host; got != "smtp.env.test" {
		t.Errorf("expected env host, got %q", got)
	}
	explicit := &EmailConfig{Host: "smtp.explicit.test"}
	if got := (SMTPMailer{Config: explicit}).config(); got != explicit {
		t.Error("expected explicit config to win")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := buildMessage("noreply@baggr.test", "user@test.com", "Hello", "<p>hi</p>")

	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatalf("expected a blank line between headers and body: %q", msg)
	}
	for _, h := range []string{"From: noreply@baggr.test", "To: user@test.com", "Subject: Hello", "Content-Type: text/html; charset=UTF-8"} {
		if !strings.Contains(head, h) {
			t.Errorf("missing header %q in %q", h, head)
		}
	}
	if body != "<p>hi</p>" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestRenderTemplates(t *testing.T) {
	otp, err := render("otp", mailData{Name: firstName("Jane Doe"), Code: "123456", Minutes: 5})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Hi Jane,", "123456", "5 minutes"} {
		if !strings.Contains(otp, want) {
			t.Errorf("otp mail missing %q", want)
		}
	}

	reset, err := render("reset", mailData{Name: "Jane", Link: resetLink("https://app.baggr.test/", "abc123")})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reset, `href="https://app.baggr.test/reset-password?token=abc123"`) {
		t.Errorf("reset mail has wrong link: %s", reset)
	}

	welcome, err := render("welcome", mailData{Name: "<script>"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(welcome, "<script>") {
		t.Error("expected name to be escaped")
	}
}

func TestFirstName(t *testing.T) {
	for in, want := range map[string]string{"   ": "there", "": "there", "Ada Lovelace": "Ada", " Grace ": "Grace"} {
		if got := firstName(in); got != want {
			t.Errorf("firstName(%q) = %q, want %q", in, got, want)
		}
	}
}
