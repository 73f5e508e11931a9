package main

import (
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/unomano/matrixorbital/pkg/device/glk19264"
	"github.com/unomano/matrixorbital/pkg/device/remote"
	"github.com/unomano/matrixorbital/pkg/device/virtual"
	"github.com/unomano/matrixorbital/pkg/proto"
)

var serial = flag.String("serial", "ttyUSB0", "serial name or remote addr")
var imgPath = flag.String("image", "", "image to draw")
var rate = flag.Int("rate", 5, "flushes per second")
var poll = flag.String("poll", "500ms", "keypad poll interval")
var dry = flag.Bool("dry", false, "use a virtual panel")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	logger, logErr := lo.Ternary(*debug, zap.NewDevelopment, zap.NewProduction)()
	if logErr != nil {
		log.Fatal(logErr)
	}

	pollEvery, err := time.ParseDuration(*poll)
	if err != nil {
		log.Fatal(err)
	}

	var dev proto.Control
	var devErr error

	switch {
	case *dry:
		dev = virtual.Mock(logger)
	case strings.Contains(*serial, ":"):
		dev, devErr = remote.New(*serial, logger)
	default:
		dev, devErr = glk19264.Open(*serial, logger,
			glk19264.WithFlushRate(*rate),
			glk19264.WithPollInterval(pollEvery),
		)
	}

	if devErr != nil {
		log.Fatal(devErr)
	}

	if closer, ok := dev.(io.Closer); ok {
		defer closer.Close()
	}

	if err := dev.Startup(); err != nil {
		log.Fatal(err)
	}

	if *imgPath != "" {
		img, err := imaging.Open(*imgPath)
		if err != nil {
			log.Fatal(err)
		}
		fitted := imaging.Grayscale(imaging.Fill(
			img, glk19264.Width, glk19264.Height, imaging.Center, imaging.Lanczos,
		))
		dev.Blit(image.Pt(0, 0), fitted)
	}

	go func() {
		for ev := range dev.Keys() {
			logger.With(
				zap.Stringer("key", ev.Key),
				zap.Bool("pressed", ev.Pressed),
			).Info("key")
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	<-signals
	logger.Info("shutting down")
	if err := dev.Shutdown(); err != nil {
		logger.With(zap.Error(err)).Info("shutdown failed")
	}
	logger.Info("exited")
}
