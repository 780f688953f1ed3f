// Package events forwards audit entries to NATS so other services can follow
// registry changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/rpggio/loom/internal/domain/audit"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "loom.audit"

// Conn is the subset of *nats.Conn used by the publisher.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes audit entries to <prefix>.<region>.<action>.
type NATSPublisher struct {
	conn   Conn
	prefix string
	logger *zap.Logger
}

// Connect dials NATS with unlimited reconnects and returns a publisher on it.
func Connect(url, prefix string, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name("loom"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	logger.Info("connected to nats", zap.String("url", url))
	return NewNATSPublisher(nc, prefix, logger), nil
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(conn Conn, prefix string, logger *zap.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{conn: conn, prefix: strings.TrimSuffix(prefix, "."), logger: logger}
}

// Subject returns the subject an entry is published on.
func (p *NATSPublisher) Subject(entry audit.Entry) string {
	return p.prefix + "." + entry.Region + "." + string(entry.Action)
}

// Publish encodes entry as JSON and publishes it.
func (p *NATSPublisher) Publish(_ context.Context, entry audit.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}
	subject := p.Subject(entry)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	p.logger.Debug("audit entry published", zap.String("subject", subject))
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Publish(context.Context, audit.Entry) error { return nil }

func (Nop) Close() error { return nil }
