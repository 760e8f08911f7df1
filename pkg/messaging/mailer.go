package messaging

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"strconv"
	"sync"
	"time"

	"github.com/knadh/smtppool"
)

// NotificationMailer sends admin notification emails through a pool of
// SMTP connections, rotating over the configured servers. SendMail is
// safe for concurrent use.
type NotificationMailer struct {
	mu      sync.Mutex
	servers SmtpServerList
	// indexed like servers.Servers, nil where the connection failed
	connectionPool []*smtppool.Pool
	counter        uint64
}

func NewNotificationMailer(config SmtpServerList) (*NotificationMailer, error) {
	pools := initConnectionPool(config)
	if countActivePools(pools) < 1 {
		return nil, errors.New("no smtp server connection in the pool")
	}

	return &NotificationMailer{
		servers:        config,
		counter:        0,
		connectionPool: pools,
	}, nil
}

// initConnectionPool keeps one slot per configured server, so pool
// indexes always match server indexes.
func initConnectionPool(serverList SmtpServerList) []*smtppool.Pool {
	connectionPools := make([]*smtppool.Pool, len(serverList.Servers))
	for i, server := range serverList.Servers {
		pool, err := connectToPool(server)
		if err != nil {
			slog.Error("error setting up connection pool", slog.String("error", err.Error()), slog.String("server", server.Address()))
			continue
		}
		connectionPools[i] = pool
	}
	return connectionPools
}

func countActivePools(pools []*smtppool.Pool) int {
	count := 0
	for _, pool := range pools {
		if pool != nil {
			count += 1
		}
	}
	return count
}

func connectToPool(server SmtpServer) (*smtppool.Pool, error) {
	auth := smtp.PlainAuth(
		"",
		server.AuthData.Username,
		server.AuthData.Password,
		server.Host,
	)
	if server.AuthData.Username == "" && server.AuthData.Password == "" {
		auth = nil
	}

	tlsOpts := &tls.Config{
		InsecureSkipVerify: server.InsecureSkipVerify,
		ServerName:         server.Host,
	}
	port, err := strconv.Atoi(server.Port)
	if err != nil {
		return nil, err
	}

	return smtppool.New(smtppool.Opt{
		Host:            server.Host,
		Port:            port,
		MaxConns:        server.Connections,
		IdleTimeout:     time.Duration(server.SendTimeout) * time.Second,
		PoolWaitTimeout: time.Duration(server.SendTimeout) * time.Second,
		TLSConfig:       tlsOpts,
		Auth:            auth,
	})
}

// selectPool picks the next server in rotation, skipping slots whose
// connection is down and retrying them once.
func (nm *NotificationMailer) selectPool() (int, *smtppool.Pool, error) {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	nm.counter += 1
	for i := 0; i < len(nm.connectionPool); i++ {
		index := int((nm.counter + uint64(i)) % uint64(len(nm.connectionPool)))
		if nm.connectionPool[index] == nil {
			pool, err := connectToPool(nm.servers.Servers[index])
			if err != nil {
				slog.Error("cannot reconnect pool", slog.String("error", err.Error()), slog.String("server", nm.servers.Servers[index].Host))
				continue
			}
			nm.connectionPool[index] = pool
		}
		return index, nm.connectionPool[index], nil
	}
	return 0, nil, errors.New("no smtp server reachable")
}

func (nm *NotificationMailer) replacePool(index int, pool *smtppool.Pool) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.connectionPool[index] = pool
}

func (nm *NotificationMailer) SendMail(
	to []string,
	subject string,
	htmlContent string,
) error {
	index, selectedPool, err := nm.selectPool()
	if err != nil {
		return err
	}
	server := nm.servers.Servers[index]

	e := smtppool.Email{
		To:      to,
		From:    nm.servers.From,
		Sender:  nm.servers.Sender,
		ReplyTo: nm.servers.ReplyTo,
		Subject: subject,
		HTML:    []byte(htmlContent),
		Headers: textproto.MIMEHeader{},
	}
	err = selectedPool.Send(e)

	if err != nil {
		// close and try to reconnect
		slog.Error("error when trying to send email", slog.String("error", err.Error()))

		pool, errReconnect := connectToPool(server)
		if errReconnect != nil {
			slog.Error("cannot reconnect pool", slog.String("error", errReconnect.Error()), slog.String("server", server.Host))
			nm.replacePool(index, nil)
		} else {
			slog.Info("reconnected to pool", slog.String("server", server.Host))
			nm.replacePool(index, pool)
		}
	}
	return err
}
