package transport

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"strings"
	"time"

	"github.com/pikad/herald/internal/message"
)

// buildRaw assembles an RFC 5322 message from the domain entity. BCC
// recipients go on the envelope only, never into headers.
func buildRaw(msg *message.Message, from, messageID string) ([]byte, error) {
	var buf bytes.Buffer

	date := msg.CreatedAt
	if date.IsZero() {
		date = time.Now()
	}

	writeHeader(&buf, "From", from)
	writeHeader(&buf, "To", msg.To)
	if len(msg.CC) > 0 {
		writeHeader(&buf, "Cc", strings.Join(msg.CC, ", "))
	}
	if msg.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", msg.ReplyTo)
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&buf, "Message-ID", "<"+messageID+">")
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")

	if len(msg.Attachments) > 0 {
		return writeMixed(&buf, msg)
	}
	if msg.HTML != "" && msg.Text != "" {
		mw := multipart.NewWriter(&buf)
		writeHeader(&buf, "Content-Type", `multipart/alternative; boundary="`+mw.Boundary()+`"`)
		buf.WriteString("\r\n")
		if err := writeAlternativeParts(mw, msg); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	// Single body variant.
	body, contentType := msg.Text, "text/plain"
	if msg.HTML != "" {
		body, contentType = msg.HTML, "text/html"
	}
	writeHeader(&buf, "Content-Type", contentType+`; charset="utf-8"`)
	writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")
	if err := writeQP(&buf, body); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeMixed writes a multipart/mixed tree: the body (alternative or
// single part) followed by base64 attachments.
func writeMixed(buf *bytes.Buffer, msg *message.Message) ([]byte, error) {
	mw := multipart.NewWriter(buf)
	writeHeader(buf, "Content-Type", `multipart/mixed; boundary="`+mw.Boundary()+`"`)
	buf.WriteString("\r\n")

	if msg.HTML != "" && msg.Text != "" {
		inner, err := mw.CreatePart(map[string][]string{
			"Content-Type": {`multipart/alternative; boundary="alt-` + mw.Boundary() + `"`},
		})
		if err != nil {
			return nil, err
		}
		iw := multipart.NewWriter(inner)
		if err := iw.SetBoundary("alt-" + mw.Boundary()); err != nil {
			return nil, err
		}
		if err := writeAlternativeParts(iw, msg); err != nil {
			return nil, err
		}
		if err := iw.Close(); err != nil {
			return nil, err
		}
	} else {
		body, contentType := msg.Text, "text/plain"
		if msg.HTML != "" {
			body, contentType = msg.HTML, "text/html"
		}
		if err := writeBodyPart(mw, contentType, body); err != nil {
			return nil, err
		}
	}

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := mw.CreatePart(map[string][]string{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", att.Filename)},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64(part, att.Content); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAlternativeParts(mw *multipart.Writer, msg *message.Message) error {
	// Plain text first so simple clients pick it up.
	if err := writeBodyPart(mw, "text/plain", msg.Text); err != nil {
		return err
	}
	return writeBodyPart(mw, "text/html", msg.HTML)
}

func writeBodyPart(mw *multipart.Writer, contentType, body string) error {
	part, err := mw.CreatePart(map[string][]string{
		"Content-Type":              {contentType + `; charset="utf-8"`},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

func writeQP(buf *bytes.Buffer, body string) error {
	qp := quotedprintable.NewWriter(buf)
	if _, err := qp.Write([]byte(body)); err != nil {
		return err
	}
	return qp.Close()
}

func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	// 76-char lines per RFC 2045.
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key + ": " + value + "\r\n")
}
