package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sungwon/contact-relay/internal/metrics"
)

const (
	defaultMaxConnections = 5
	defaultMaxMessages    = 100
)

// PoolConfig holds SMTP transport and pooling configuration.
type PoolConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// MaxConnections caps the number of concurrent transport connections.
	MaxConnections int
	// MaxMessages is the number of messages sent over a single connection
	// before it is closed and replaced.
	MaxMessages int
	// CommandTimeout bounds each SMTP command exchange.
	CommandTimeout time.Duration
}

// Pool is a bounded pool of SMTP client connections implementing Sender.
// Connections are established lazily, reused across sends, and retired after
// MaxMessages deliveries. Send blocks when all connections are busy until a
// slot frees up or the context is done. A Pool is safe for concurrent use and
// should be created once at startup and shared by reference.
type Pool struct {
	cfg   PoolConfig
	log   zerolog.Logger
	slots chan *poolConn

	mu     sync.Mutex
	closed bool
}

// poolConn is one pool slot. A nil client means the slot has no live
// connection and the next send dials a fresh one.
type poolConn struct {
	client *smtp.Client
	sent   int
}

// NewPool creates a connection pool for the given transport configuration.
func NewPool(cfg PoolConfig, log zerolog.Logger) *Pool {
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = defaultMaxConnections
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = defaultMaxMessages
	}

	p := &Pool{
		cfg:   cfg,
		log:   log,
		slots: make(chan *poolConn, cfg.MaxConnections),
	}
	for i := 0; i < cfg.MaxConnections; i++ {
		p.slots <- &poolConn{}
	}
	return p
}

// Send delivers the message over a pooled connection. The returned Result
// carries the generated message ID. Transport errors are returned unwrapped
// enough for Classify to inspect the SMTP reply code.
func (p *Pool) Send(ctx context.Context, msg *Message) (*Result, error) {
	pc, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(pc)

	// A pooled connection may have gone stale since its last use.
	if pc.client != nil {
		if err := pc.client.Noop(); err != nil {
			p.retire(pc)
		}
	}

	if pc.client == nil {
		client, err := p.dial(ctx)
		if err != nil {
			metrics.SMTPConnectionsTotal.WithLabelValues("failed").Inc()
			return nil, err
		}
		metrics.SMTPConnectionsTotal.WithLabelValues("established").Inc()
		pc.client = client
		pc.sent = 0
	}

	id := uuid.NewString()
	if err := submit(pc.client, msg, id); err != nil {
		p.retire(pc)
		return nil, err
	}

	pc.sent++
	if pc.sent >= p.cfg.MaxMessages {
		p.log.Debug().Int("sent", pc.sent).Msg("retiring smtp connection after message budget")
		if err := pc.client.Quit(); err != nil {
			pc.client.Close()
		}
		pc.client = nil
		pc.sent = 0
	}

	return &Result{MessageID: id}, nil
}

// Verify dials the transport, exchanges a NOOP, and disconnects. It is used
// by the startup verification loop and never touches pooled connections.
func (p *Pool) Verify(ctx context.Context) error {
	client, err := p.dial(ctx)
	if err != nil {
		return err
	}
	if err := client.Noop(); err != nil {
		client.Close()
		return fmt.Errorf("smtp noop: %w", err)
	}
	return client.Quit()
}

// Close terminates all idle connections and marks the pool closed. In-flight
// sends finish on their own connections, which release then quits instead of
// parking them back in the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for i := 0; i < p.cfg.MaxConnections; i++ {
		select {
		case pc := <-p.slots:
			quitConn(pc)
		default:
			return
		}
	}
}

func (p *Pool) acquire(ctx context.Context) (*poolConn, error) {
	select {
	case pc := <-p.slots:
		return pc, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire smtp connection: %w", ctx.Err())
	}
}

func (p *Pool) release(pc *poolConn) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		quitConn(pc)
	}
	p.slots <- pc
}

func (p *Pool) retire(pc *poolConn) {
	if pc.client != nil {
		pc.client.Close()
		pc.client = nil
	}
	pc.sent = 0
}

func quitConn(pc *poolConn) {
	if pc.client != nil {
		if err := pc.client.Quit(); err != nil {
			pc.client.Close()
		}
		pc.client = nil
	}
	pc.sent = 0
}

func (p *Pool) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial smtp %s: %w", addr, err)
	}

	client, err := smtp.NewClientStartTLS(conn, &tls.Config{ServerName: p.cfg.Host})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp starttls: %w", err)
	}

	if p.cfg.CommandTimeout > 0 {
		client.CommandTimeout = p.cfg.CommandTimeout
	}

	if p.cfg.Username != "" {
		auth := sasl.NewPlainClient("", p.cfg.Username, p.cfg.Password)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("smtp auth: %w", err)
		}
	}

	return client, nil
}

func submit(client *smtp.Client, msg *Message, id string) error {
	if err := client.Mail(msg.FromAddress, nil); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(msg.To, nil); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write(msg.Render(id)); err != nil {
		wc.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return nil
}
