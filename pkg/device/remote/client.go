package remote

import (
	"bytes"
	"image"
	"image/png"
	"net/rpc"
	"time"

	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/proto"
)

// New dials a panel served by Proxy. Drawing calls are forwarded as
// RPCs; key events are fetched by polling DrainKeys.
func New(addr string, logger *zap.Logger) (*Client, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpc:    client,
		logger: logger,
		keys:   make(chan proto.KeyEvent, 16),
	}, nil
}

type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
	keys   chan proto.KeyEvent
	stop   chan struct{}
}

func (c *Client) Startup() error {
	c.stop = make(chan struct{})
	go c.keyLoop()
	return nil
}

func (c *Client) Shutdown() error {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	return nil
}

func (c *Client) Close() error {
	_ = c.Shutdown()
	return c.rpc.Close()
}

func (c *Client) WriteAt(p []byte, off int64) (int, error) {
	var resp WriteAtResponse
	err := c.rpc.Call("Service.WriteAt", &WriteAtRequest{Off: off, Data: p}, &resp)
	return resp.N, err
}

func (c *Client) Blank() {
	c.call("Service.Command", "blank")
}

func (c *Client) Fill(r image.Rectangle, on bool) {
	c.call("Service.Fill", FillRequest{Rect: r, On: on})
}

func (c *Client) Copy(dst image.Point, src image.Rectangle) {
	c.call("Service.Copy", CopyRequest{Dst: dst, Src: src})
}

func (c *Client) Blit(at image.Point, img image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		c.logger.With(zap.Error(err)).Info("blit encode failed")
		return
	}

	c.call("Service.Blit", &BlitRequest{At: at, Image: buf.Bytes()})
}

func (c *Client) Keys() <-chan proto.KeyEvent {
	return c.keys
}

// call mirrors the panel's drawing semantics: a failed remote draw is
// logged and otherwise invisible to the caller.
func (c *Client) call(method string, args interface{}) {
	if err := c.rpc.Call(method, args, &EmptyResponse{}); err != nil {
		c.logger.With(zap.String("method", method), zap.Error(err)).Info("rpc failed")
	}
}

func (c *Client) keyLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	stop := c.stop
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			var events []proto.KeyEvent
			if err := c.rpc.Call("Service.DrainKeys", 32, &events); err != nil {
				c.logger.With(zap.Error(err)).Debug("key drain failed")
				continue
			}
			for _, ev := range events {
				select {
				case c.keys <- ev:
				default:
				}
			}
		}
	}
}
