// Package preflight probes export destinations before a bundle that talks to
// them is generated. Probes are best-effort; their outcome never stops a run.
package preflight

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/getlawrence/otelinject/internal/domain"
	"github.com/getlawrence/otelinject/internal/logger"
)

// DefaultTimeout bounds each probe
const DefaultTimeout = 5 * time.Second

// Status is the outcome of one probe
type Status string

const (
	StatusReachable   Status = "reachable"
	StatusUnreachable Status = "unreachable"
	StatusSkipped     Status = "skipped"
)

// Result reports the probe of one destination
type Result struct {
	Destination domain.ExportDestination `json:"destination"`
	Endpoint    string                   `json:"endpoint,omitempty"`
	Status      Status                   `json:"status"`
	Detail      string                   `json:"detail,omitempty"`
	Latency     time.Duration            `json:"latency,omitempty"`
}

// Checker probes OTLP destinations over HTTP and WebSockets destinations
// with a websocket handshake
type Checker struct {
	client  *http.Client
	dialer  *websocket.Dialer
	timeout time.Duration
	logger  logger.Logger
}

// NewChecker creates a checker; a zero timeout means DefaultTimeout
func NewChecker(timeout time.Duration, l logger.Logger) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if l == nil {
		l = logger.Nop{}
	}
	return &Checker{
		client:  &http.Client{Timeout: timeout},
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout, Proxy: http.ProxyFromEnvironment},
		timeout: timeout,
		logger:  l,
	}
}

// Check probes every destination in order
func (c *Checker) Check(ctx context.Context, dests []domain.ExportDestination) []Result {
	results := make([]Result, 0, len(dests))
	for _, dest := range dests {
		res := c.probe(ctx, dest)
		switch res.Status {
		case StatusReachable:
			c.logger.Logf("%s %s is reachable (%s)\n", dest.Type, res.Endpoint, res.Latency.Round(time.Millisecond))
		case StatusUnreachable:
			c.logger.Logf("Warning: %s %s is unreachable: %s\n", dest.Type, res.Endpoint, res.Detail)
		}
		results = append(results, res)
	}
	return results
}

// AllReachable reports whether no probe failed
func AllReachable(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusUnreachable {
			return false
		}
	}
	return true
}

func (c *Checker) probe(ctx context.Context, dest domain.ExportDestination) Result {
	res := Result{Destination: dest, Endpoint: dest.Endpoint()}
	if dest.IsConsole() {
		res.Status = StatusSkipped
		res.Detail = "console destination"
		return res
	}
	if res.Endpoint == "" {
		res.Status = StatusUnreachable
		res.Detail = "no url configured"
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var err error
	switch dest.Protocol {
	case domain.ProtocolWebSockets:
		res.Detail, err = c.probeWebSocket(ctx, res.Endpoint)
	case domain.ProtocolOTLP:
		res.Detail, err = c.probeOTLP(ctx, res.Endpoint)
	default:
		err = fmt.Errorf("unknown protocol %q", dest.Protocol)
	}
	res.Latency = time.Since(start)
	if err != nil {
		res.Status = StatusUnreachable
		res.Detail = err.Error()
		return res
	}
	res.Status = StatusReachable
	return res
}

// probeOTLP posts an empty export request. Any HTTP answer proves a server
// listens; 404 and 5xx are still reported in the detail.
func (c *Checker) probeOTLP(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return fmt.Sprintf("HTTP %d", resp.StatusCode), nil
}

func (c *Checker) probeWebSocket(ctx context.Context, endpoint string) (string, error) {
	conn, resp, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("handshake failed with HTTP %d: %w", resp.StatusCode, err)
		}
		return "", err
	}
	defer conn.Close()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "preflight"),
		time.Now().Add(time.Second))
	return "handshake ok", nil
}
