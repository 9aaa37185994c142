package dkim

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSignPrependsSignature(t *testing.T) {
	kp, err := GenerateKey("example.com", "herald")
	if err != nil {
		t.Fatal(err)
	}

	signer := NewSigner(kp.PrivateKey, "example.com", "herald")

	raw := []byte("From: noreply@example.com\r\n" +
		"To: ada@example.org\r\n" +
		"Subject: Hi\r\n" +
		"\r\n" +
		"hello\r\n")

	signed, err := signer.Sign(raw)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	s := string(signed)
	if !strings.Contains(s, "DKIM-Signature:") {
		t.Error("signed message has no DKIM-Signature header")
	}
	if !strings.Contains(s, "d=example.com") || !strings.Contains(s, "s=herald") {
		t.Error("signature missing domain or selector tags")
	}
	if !strings.Contains(s, "hello") {
		t.Error("signed message lost its body")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	kp, err := GenerateKey("example.com", "herald")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "dkim.key")
	if err := kp.SavePrivateKey(path); err != nil {
		t.Fatal(err)
	}

	signer, err := NewSignerFromFile(path, "example.com", "herald")
	if err != nil {
		t.Fatalf("NewSignerFromFile() error = %v", err)
	}
	if signer.Domain() != "example.com" || signer.Selector() != "herald" {
		t.Errorf("signer = %q/%q", signer.Domain(), signer.Selector())
	}
}

func TestDNSRecord(t *testing.T) {
	kp, err := GenerateKey("example.com", "herald")
	if err != nil {
		t.Fatal(err)
	}

	if got := kp.DNSName(); got != "herald._domainkey.example.com" {
		t.Errorf("DNSName() = %q", got)
	}
	if rec := kp.DNSRecord(); !strings.HasPrefix(rec, "v=DKIM1; k=rsa; p=") {
		t.Errorf("DNSRecord() = %q", rec)
	}
}
