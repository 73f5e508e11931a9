package remote

import (
	"bytes"
	"context"
	"image/png"
	"log"
	"net/http"
	"net/rpc"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/unomano/matrixorbital/pkg/proto"
)

// Proxy exposes a panel over net/rpc. The panel is brought up when the
// server starts and torn down with it.
func Proxy(dev proto.Control, srv *http.Server, lifecycle fx.Lifecycle) error {
	svc := &Service{dev: dev}
	if err := rpc.Register(svc); err != nil {
		return err
	}

	rpc.HandleHTTP()

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := dev.Startup(); err != nil {
				return err
			}
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					log.Fatal(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return dev.Shutdown()
		},
	})

	return nil
}

type Service struct {
	dev proto.Control
}

func (s *Service) Command(name string, _ *EmptyResponse) error {
	switch name {
	case "blank":
		s.dev.Blank()
		return nil
	}

	return errors.New("unknown command")
}

func (s *Service) WriteAt(req *WriteAtRequest, resp *WriteAtResponse) error {
	n, err := s.dev.WriteAt(req.Data, req.Off)
	resp.N = n
	return err
}

func (s *Service) Fill(req FillRequest, _ *EmptyResponse) error {
	s.dev.Fill(req.Rect, req.On)
	return nil
}

func (s *Service) Copy(req CopyRequest, _ *EmptyResponse) error {
	s.dev.Copy(req.Dst, req.Src)
	return nil
}

func (s *Service) Blit(req *BlitRequest, _ *EmptyResponse) error {
	img, err := png.Decode(bytes.NewBuffer(req.Image))
	if err != nil {
		return err
	}

	s.dev.Blit(req.At, img)
	return nil
}

// DrainKeys hands out up to max pending key events without blocking.
func (s *Service) DrainKeys(max int, events *[]proto.KeyEvent) error {
	if max <= 0 {
		max = 32
	}

	for len(*events) < max {
		select {
		case ev := <-s.dev.Keys():
			*events = append(*events, ev)
		default:
			return nil
		}
	}
	return nil
}
