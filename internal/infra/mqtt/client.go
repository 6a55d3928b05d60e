package mqtt

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Client wraps a paho connection.
type Client struct {
	client paho.Client
	logger *slog.Logger
}

// Connect dials the broker and waits for the first connection.
func Connect(brokerURL, clientID string, logger *slog.Logger) (*Client, error) {
	logger = logger.With("component", "mqtt.client")

	url := strings.TrimSpace(brokerURL)
	if url == "" {
		url = "tcp://localhost:1883"
	}
	if strings.HasPrefix(url, "mqtt://") {
		url = "tcp://" + strings.TrimPrefix(url, "mqtt://")
	}
	if !strings.Contains(url, "://") {
		url = "tcp://" + url
	}
	if strings.TrimSpace(clientID) == "" {
		clientID = "assistant-ingest-" + time.Now().Format("150405.000")
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(url)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false)
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	}
	opts.OnConnect = func(_ paho.Client) {
		logger.Info("mqtt connected", "broker", url)
	}

	c := paho.NewClient(opts)
	tok := c.Connect()
	if ok := tok.WaitTimeout(15 * time.Second); !ok {
		return nil, fmt.Errorf("mqtt connect to %s timed out", url)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &Client{client: c, logger: logger}, nil
}

// SubscribeAll subscribes to every topic at QoS 1; duplicates are harmless to the handler.
func (c *Client) SubscribeAll(topics []string, handler func(topic string, payload []byte)) error {
	filters := make(map[string]byte, len(topics))
	for _, t := range topics {
		filters[t] = 1
	}
	tok := c.client.SubscribeMultiple(filters, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe: %w", err)
	}
	c.logger.Info("mqtt subscribed", "topics", topics)
	return nil
}

// Close disconnects, allowing in-flight work a second to finish.
func (c *Client) Close() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Disconnect(1000)
}
