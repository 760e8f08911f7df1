package messaging

import (
	"sync"
	"testing"
)

func testServer(host string, port string) SmtpServer {
	server := SmtpServer{
		Host:        host,
		Port:        port,
		Connections: 1,
		SendTimeout: 1,
	}
	return server
}

func TestInitConnectionPool(t *testing.T) {
	t.Run("pool slots stay aligned with the server list", func(t *testing.T) {
		serverList := SmtpServerList{
			Servers: []SmtpServer{
				testServer("127.0.0.1", "not-a-port"),
				testServer("127.0.0.1", "2525"),
			},
		}

		pools := initConnectionPool(serverList)
		if len(pools) != len(serverList.Servers) {
			t.Fatalf("expected %d pool slots, got %d", len(serverList.Servers), len(pools))
		}
		if pools[0] != nil {
			t.Error("slot of the unreachable server should be empty")
		}
		if pools[1] == nil {
			t.Error("slot of the valid server should be filled")
		}
	})

	t.Run("mailer init fails without any usable server", func(t *testing.T) {
		serverList := SmtpServerList{
			Servers: []SmtpServer{
				testServer("127.0.0.1", "not-a-port"),
			},
		}
		if _, err := NewNotificationMailer(serverList); err == nil {
			t.Error("expected error when no server is usable")
		}
	})
}

func TestSendMailConcurrent(t *testing.T) {
	// port 1 is closed, every send fails fast, but concurrent calls
	// must not corrupt the rotation state
	serverList := SmtpServerList{
		From: "noreply@example.com",
		Servers: []SmtpServer{
			testServer("127.0.0.1", "1"),
		},
	}

	mailer, err := NewNotificationMailer(serverList)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := mailer.SendMail([]string{"admin@example.com"}, "test", "<p>test</p>"); err == nil {
				t.Error("expected send to an unreachable server to fail")
			}
		}()
	}
	wg.Wait()
}
