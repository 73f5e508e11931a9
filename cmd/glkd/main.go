package main

import (
	"net/http"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/device/glk19264"
	"github.com/unomano/matrixorbital/pkg/device/remote"
	"github.com/unomano/matrixorbital/pkg/proto"
)

var serial = flag.String("serial", "ttyUSB0", "serial name")
var listen = flag.String("listen", ":9123", "listen addr")
var rate = flag.Int("rate", 5, "flushes per second")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	fx.New(
		fx.Provide(
			func() (*zap.Logger, *http.Server, error) {
				logger, err := lo.Ternary(*debug, zap.NewDevelopment, zap.NewProduction)()
				return logger, &http.Server{Addr: *listen}, err
			},
			func(logger *zap.Logger) (proto.Control, error) {
				return glk19264.Open(*serial, logger, glk19264.WithFlushRate(*rate))
			},
		),
		fx.Invoke(
			remote.Proxy,
		),
	).Run()
}
