// Package mailbox connects to the support inbox over IMAP.
package mailbox

import (
	"cmp"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/orris-inc/helpdesk/internal/domain/mailingest"
	"github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	EncryptionTLS      = "tls"
	EncryptionStartTLS = "starttls"
	EncryptionNone     = "none"
)

// IMAPConnector dials the configured server and selects the ingest folder.
type IMAPConnector struct {
	cfg    config.IMAPConfig
	logger logger.Interface
}

func NewIMAPConnector(cfg config.IMAPConfig, logger logger.Interface) (*IMAPConnector, error) {
	switch cfg.Encryption {
	case "":
		cfg.Encryption = EncryptionTLS
	case EncryptionTLS, EncryptionStartTLS, EncryptionNone:
	default:
		return nil, fmt.Errorf("unsupported imap encryption: %s", cfg.Encryption)
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &IMAPConnector{cfg: cfg, logger: logger}, nil
}

func (c *IMAPConnector) Connect(ctx context.Context) (mailingest.Mailbox, error) {
	timeout := c.cfg.Timeout()
	dialer := &net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.GetAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to dial imap server: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))

	tlsConfig := &tls.Config{ServerName: c.cfg.Host, MinVersion: tls.VersionTLS12}
	var client *imapclient.Client
	switch c.cfg.Encryption {
	case EncryptionTLS:
		client = imapclient.New(tls.Client(conn, tlsConfig), nil)
	case EncryptionStartTLS:
		client, err = imapclient.NewStartTLS(conn, &imapclient.Options{TLSConfig: tlsConfig})
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to start tls: %w", err)
		}
	default:
		client = imapclient.New(conn, nil)
	}

	session := &imapMailbox{client: client, conn: conn, timeout: timeout, folders: map[string]bool{}, logger: c.logger}
	if err := client.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("imap login failed: %w", err)
	}
	session.extend()
	if _, err := client.Select(c.cfg.Mailbox, nil).Wait(); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to select mailbox %s: %w", c.cfg.Mailbox, err)
	}

	c.logger.Debugw("imap session opened", "host", c.cfg.Host, "mailbox", c.cfg.Mailbox)
	return session, nil
}

type imapMailbox struct {
	client  *imapclient.Client
	conn    net.Conn
	timeout time.Duration
	folders map[string]bool
	logger  logger.Interface
}

// extend pushes the connection deadline forward before each command.
func (m *imapMailbox) extend() {
	_ = m.conn.SetDeadline(time.Now().Add(m.timeout))
}

func (m *imapMailbox) FetchUnseen(ctx context.Context, limit int) ([]mailingest.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.extend()
	data, err := m.client.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to search unseen messages: %w", err)
	}

	uids := data.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	slices.Sort(uids)
	if limit > 0 && len(uids) > limit {
		uids = uids[:limit]
	}

	section := &imap.FetchItemBodySection{Peek: true}
	m.extend()
	msgs, err := m.client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	out := make([]mailingest.RawMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, mailingest.RawMessage{
			UID:  uint32(msg.UID),
			Data: msg.FindBodySection(section),
		})
	}
	slices.SortFunc(out, func(a, b mailingest.RawMessage) int { return cmp.Compare(a.UID, b.UID) })
	return out, nil
}

func (m *imapMailbox) MarkSeen(ctx context.Context, uid uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.extend()
	if err := m.client.Store(imap.UIDSetNum(imap.UID(uid)), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil).Close(); err != nil {
		return fmt.Errorf("failed to mark message %d seen: %w", uid, err)
	}
	return nil
}

func (m *imapMailbox) Move(ctx context.Context, uid uint32, folder string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.extend()
	_, err := m.client.Move(imap.UIDSetNum(imap.UID(uid)), folder).Wait()
	if err == nil {
		return nil
	}
	if m.folders[folder] {
		return fmt.Errorf("failed to move message %d to %s: %w", uid, folder, err)
	}

	// The target folder may not exist yet.
	m.extend()
	if cerr := m.client.Create(folder, nil).Wait(); cerr != nil {
		m.logger.Debugw("imap create folder failed", "folder", folder, "error", cerr)
	}
	m.folders[folder] = true

	m.extend()
	if _, err := m.client.Move(imap.UIDSetNum(imap.UID(uid)), folder).Wait(); err != nil {
		return fmt.Errorf("failed to move message %d to %s: %w", uid, folder, err)
	}
	return nil
}

func (m *imapMailbox) Close() error {
	m.extend()
	if err := m.client.Logout().Wait(); err != nil {
		m.logger.Debugw("imap logout failed", "error", err)
	}
	return m.client.Close()
}
