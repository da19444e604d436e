// Package mailparse decodes raw RFC 5322 messages into inbound mail.
package mailparse

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/gabriel-vasile/mimetype"

	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/shared/services/markdown"
)

const (
	maxAttachmentSize = 20 << 20
	octetStream       = "application/octet-stream"
)

// Parser extracts threading headers, the readable body and attachments.
// Plain text parts win over HTML; HTML is converted to text when it is the only body.
type Parser struct {
	markdown markdown.MarkdownService
}

func NewParser(markdownService markdown.MarkdownService) *Parser {
	return &Parser{markdown: markdownService}
}

func (p *Parser) Parse(raw []byte) (*mailingest.InboundMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	defer mr.Close()

	msg := &mailingest.InboundMessage{}
	p.readHeader(&mr.Header, msg)
	if msg.FromAddress == "" {
		return nil, fmt.Errorf("message has no sender address")
	}

	var htmlBody string
	for {
		part, err := mr.NextPart()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read message part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, params, _ := h.ContentType()
			filename := params["name"]
			if disp, dparams, derr := h.ContentDisposition(); derr == nil && disp != "" && dparams["filename"] != "" {
				filename = dparams["filename"]
			}
			data, err := readLimited(part.Body)
			if err != nil {
				return nil, err
			}
			switch {
			case filename == "" && contentType == "text/plain" && msg.TextBody == "":
				msg.TextBody = string(data)
			case filename == "" && contentType == "text/html" && htmlBody == "":
				htmlBody = string(data)
			case filename != "" || !strings.HasPrefix(contentType, "text/"):
				msg.Attachments = append(msg.Attachments, newAttachment(filename, contentType, data))
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()
			data, err := readLimited(part.Body)
			if err != nil {
				return nil, err
			}
			msg.Attachments = append(msg.Attachments, newAttachment(filename, contentType, data))
		}
	}

	if strings.TrimSpace(msg.TextBody) == "" && htmlBody != "" {
		msg.TextBody = p.markdown.HTMLToText(htmlBody)
	}
	msg.TextBody = normalizeNewlines(msg.TextBody)
	return msg, nil
}

func (p *Parser) readHeader(h *mail.Header, msg *mailingest.InboundMessage) {
	if from, err := h.AddressList("From"); err == nil && len(from) > 0 {
		msg.FromAddress = strings.ToLower(strings.TrimSpace(from[0].Address))
		msg.FromName = strings.TrimSpace(from[0].Name)
	}
	if subject, err := h.Subject(); err == nil {
		msg.Subject = strings.TrimSpace(subject)
	} else {
		msg.Subject = strings.TrimSpace(h.Get("Subject"))
	}
	if date, err := h.Date(); err == nil {
		msg.Date = date
	}
	if id, err := h.MessageID(); err == nil {
		msg.MessageID = id
	}
	if ids, err := h.MsgIDList("In-Reply-To"); err == nil && len(ids) > 0 {
		msg.InReplyTo = ids[0]
	}
	if refs, err := h.MsgIDList("References"); err == nil {
		msg.References = refs
	}
}

func newAttachment(filename, contentType string, data []byte) mailingest.InboundAttachment {
	if contentType == "" || contentType == octetStream {
		contentType = mimetype.Detect(data).String()
	}
	if filename == "" {
		filename = "attachment"
		if m := mimetype.Lookup(contentType); m != nil {
			filename += m.Extension()
		}
	}
	return mailingest.InboundAttachment{Filename: filename, ContentType: contentType, Data: data}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	if len(data) > maxAttachmentSize {
		return nil, fmt.Errorf("message part exceeds %d bytes", maxAttachmentSize)
	}
	return data, nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
