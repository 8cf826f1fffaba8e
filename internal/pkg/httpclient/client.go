// Package httpclient provides the HTTP seam used by remote API clients: a
// minimal HTTPDoer interface, a bounded-timeout default client, and a
// wrapper that logs every exchange.
//
// Remote mailing-list calls are never retried. A failed call surfaces to the
// caller immediately so it can be mapped to a failure response.
package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// HTTPDoer is the interface for executing HTTP requests.
// Both *http.Client and *LoggingClient satisfy this interface.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns an *http.Client whose every phase is bounded by timeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          20,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// LoggingClient wraps an HTTPDoer and logs method, path, status and latency
// of each request at debug level, and transport failures at warn level.
type LoggingClient struct {
	client HTTPDoer
	log    logrus.FieldLogger
}

// NewLoggingClient wraps client. If client is nil, New(DefaultTimeout) is used.
func NewLoggingClient(client HTTPDoer, log logrus.FieldLogger) *LoggingClient {
	if client == nil {
		client = New(DefaultTimeout)
	}
	return &LoggingClient{client: client, log: logger.OrDefault(log)}
}

// Do executes the request exactly once.
func (c *LoggingClient) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	fields := logrus.Fields{
		"method":      req.Method,
		"host":        req.URL.Host,
		"path":        req.URL.Path,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("httpclient: request failed")
		return nil, err
	}
	fields["status"] = resp.StatusCode
	c.log.WithFields(fields).Debug("httpclient: request complete")
	return resp, nil
}
