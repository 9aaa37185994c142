// Package message defines the sendable message entity and its
// syntactic validation rules.
package message

import (
	"regexp"
	"strings"
	"time"
)

// addressPattern is a basic syntactic check: local part, @, domain with
// a dot, no whitespace anywhere. Full RFC 5322 parsing is the
// transport's problem.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Attachment is a named payload attached to a message.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"content"`
}

// Message is a channel-ready notification. It is built once per send
// attempt and never mutated afterwards; only its summary ends up in the
// delivery log.
type Message struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	From        string       `json:"from,omitempty"`
	ReplyTo     string       `json:"reply_to,omitempty"`
	CC          []string     `json:"cc,omitempty"`
	BCC         []string     `json:"bcc,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Summary is the loggable projection of a message. Body content is
// deliberately not included.
type Summary struct {
	To              string `json:"to"`
	Subject         string `json:"subject"`
	HasHTML         bool   `json:"has_html"`
	HasText         bool   `json:"has_text"`
	AttachmentCount int    `json:"attachment_count"`
}

// New builds a message stamped with the current time.
func New(to, subject, html, text string) *Message {
	return &Message{
		To:        to,
		Subject:   subject,
		HTML:      html,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// ValidAddress reports whether addr passes the syntactic address check.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// Validate checks the message against the domain rules and returns all
// violations. It never short-circuits: callers get the complete list.
func (m *Message) Validate() []string {
	var errs []string

	if m.To == "" || !ValidAddress(m.To) {
		errs = append(errs, "recipient address is invalid")
	}
	if strings.TrimSpace(m.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if m.HTML == "" && m.Text == "" {
		errs = append(errs, "message must have HTML or text content")
	}

	return errs
}

// Summarize returns the loggable projection of the message.
func (m *Message) Summarize() Summary {
	return Summary{
		To:              m.To,
		Subject:         m.Subject,
		HasHTML:         m.HTML != "",
		HasText:         m.Text != "",
		AttachmentCount: len(m.Attachments),
	}
}
