package rendersvc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"clawid.dev/claw/renderer"
)

// Client calls a remote Renderer service.
type Client struct {
	cc     *grpc.ClientConn
	client RendererClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

// DialOptions configures Dial.
type DialOptions struct {
	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

// Dial returns a client for target. The connection is established on the
// first RPC, so an unreachable target surfaces as an RPC error.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	c := NewClient(cc)
	c.Timeout = opts.Timeout
	return c, nil
}

// NewClient wraps an existing connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewRendererClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// RenderMarkup returns the SVG markup for req.
func (c *Client) RenderMarkup(ctx context.Context, req renderer.Request) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.RenderMarkup(ctx, EncodeRequest(req))
	if err != nil {
		return "", err
	}
	return reply.GetValue(), nil
}

// RenderDocument returns the metadata data URI for req.
func (c *Client) RenderDocument(ctx context.Context, req renderer.Request) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.RenderDocument(ctx, EncodeRequest(req))
	if err != nil {
		return "", err
	}
	return reply.GetValue(), nil
}

// Receipt returns the canonical receipt bytes for req.
func (c *Client) Receipt(ctx context.Context, req renderer.Request) ([]byte, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Receipt(ctx, EncodeRequest(req))
	if err != nil {
		return nil, err
	}
	return []byte(reply.GetValue()), nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
