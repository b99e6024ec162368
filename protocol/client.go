package protocol

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultDialTimeout bounds connection setup when Client.DialTimeout is zero.
const DefaultDialTimeout = 10 * time.Second

// maxResponseSize caps how much of a reply is read.
const maxResponseSize = 4096

// Client requests walk batches from a server.
type Client struct {
	Addr        string
	DialTimeout time.Duration
}

// RandomWalks sends one request and returns the artifact path from the reply.
// The server closes the connection after replying; a deadline on ctx bounds
// the whole exchange.
func (c *Client) RandomWalks(ctx context.Context, numWalks, walkLength int) (string, error) {
	timeout := c.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return "", fmt.Errorf("connect to %s: %w", c.Addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", fmt.Errorf("set deadline: %w", err)
		}
	}

	req := Request{NumWalks: numWalks, WalkLength: walkLength}
	if _, err := io.WriteString(conn, req.String()); err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}

	payload, err := io.ReadAll(io.LimitReader(conn, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return ParseResponse(string(payload))
}
