package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/xecurify/draftpilot/internal/mail"
)

// convertMessage maps a fully fetched Gmail message onto the pipeline's
// message type.
func convertMessage(m *gmail.Message) mail.Message {
	msg := mail.Message{
		ID:        m.Id,
		ThreadID:  m.ThreadId,
		Timestamp: m.InternalDate,
		Labels:    m.LabelIds,
	}

	for _, label := range m.LabelIds {
		if label == "UNREAD" {
			msg.Unread = true
			break
		}
	}

	if m.Payload == nil {
		return msg
	}

	msg.From = headerValue(m.Payload, "From")
	msg.To = splitAddresses(headerValue(m.Payload, "To"))
	msg.Cc = splitAddresses(headerValue(m.Payload, "Cc"))
	msg.ReplyTo = headerValue(m.Payload, "Reply-To")
	msg.Subject = headerValue(m.Payload, "Subject")
	msg.Date = headerValue(m.Payload, "Date")
	msg.Body = extractBody(m.Payload)

	return msg
}

// headerValue extracts a header from a message part, case-insensitive.
func headerValue(p *gmail.MessagePart, name string) string {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func splitAddresses(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if addr := strings.TrimSpace(p); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// extractBody returns the decoded message text, preferring a text/plain
// part over text/html and searching nested multipart structures.
func extractBody(p *gmail.MessagePart) string {
	if body := findPart(p, "text/plain"); body != "" {
		return body
	}
	return findPart(p, "text/html")
}

func findPart(p *gmail.MessagePart, mimeType string) string {
	if strings.HasPrefix(p.MimeType, mimeType) && p.Body != nil && p.Body.Data != "" {
		if decoded, err := decodeBody(p.Body.Data); err == nil {
			return decoded
		}
	}
	for _, child := range p.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

// decodeBody decodes the API's base64url body data, which arrives
// unpadded but is accepted padded as well.
func decodeBody(data string) (string, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded), nil
	}
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// buildReplyRaw assembles the base64url-encoded RFC 2822 reply to the
// original message. Reply-To wins over From as the recipient; subject
// gains a "Re: " prefix when missing.
func buildReplyRaw(original mail.Message, body string) (string, error) {
	to := original.ReplyTo
	if to == "" {
		to = original.From
	}
	if to == "" {
		return "", fmt.Errorf("message %s has no sender to reply to", original.ID)
	}

	subject := original.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(to)
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(subject))
	b.WriteString("\r\n")
	if original.ID != "" {
		// Gmail threads on ThreadId; these headers keep external
		// clients threading correctly too.
		b.WriteString("In-Reply-To: ")
		b.WriteString(original.ID)
		b.WriteString("\r\n")
		b.WriteString("References: ")
		b.WriteString(original.ID)
		b.WriteString("\r\n")
	}
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String())), nil
}

// encodeRFC2047 encodes a header value when it carries non-ASCII
// characters, e.g. umlauts in subjects.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.QEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
