package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/sysid.go/pkg/excitation"
	fx "github.com/robotalks/sysid.go/pkg/framework"
	"github.com/robotalks/sysid.go/pkg/hal"
	"github.com/robotalks/sysid.go/pkg/link"
	"github.com/robotalks/sysid.go/pkg/link/serial"
	"github.com/robotalks/sysid.go/pkg/link/websocket"
	"github.com/robotalks/sysid.go/pkg/session"
	"github.com/robotalks/sysid.go/pkg/sim/motor"
)

var (
	listenAddr  = ":8080"
	servePath   = "/device"
	serialPort  string
	baudRate    = serial.DefaultBaudRate
	granularity = 100 * time.Microsecond
)

func init() {
	excitation.SetupFlags()
	excitation.SetupExcitationFlags()
	motor.SetupFlags()
	flag.StringVar(&listenAddr, "listen", listenAddr, "Websocket listen address.")
	flag.StringVar(&servePath, "path", servePath, "Websocket path.")
	flag.StringVar(&serialPort, "serial", serialPort, "Serve on the serial port instead of websocket.")
	flag.IntVar(&baudRate, "baud", baudRate, "Serial baud rate.")
	flag.DurationVar(&granularity, "yield", granularity, "Sleep per cooperative yield.")
}

// device simulates one power cycle per link.
type device struct {
	exp   *excitation.Config
	motor *motor.Config
	lock  sync.Mutex
}

func (d *device) serve(ctx context.Context, rw io.ReadWriteCloser) {
	d.lock.Lock()
	defer d.lock.Unlock()

	stream := link.NewStream(rw)
	defer stream.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-stream.Done()
		cancel()
	}()

	clock := hal.NewSystemClock(granularity)
	s := session.New(stream, d.motor.NewMotor(clock), clock, d.exp)
	s.Notifier = session.StateChangedFunc(func(_ context.Context, state session.State) {
		glog.Infof("session %s", state)
	})
	if err := s.Run(ctx); err != nil {
		glog.Errorf("session failed: %v", err)
	}
	b := session.NewBlinker(s, &hal.LogIndicator{Name: "led"})
	b.Run(ctx)
	glog.Info("device reset")
}

func (d *device) Name() string {
	return "device"
}

func (d *device) Run(ctx context.Context) error {
	if serialPort != "" {
		port, err := serial.Open(serialPort, baudRate)
		if err != nil {
			return err
		}
		glog.Infof("serving on %s", serialPort)
		d.serve(ctx, port)
		return ctx.Err()
	}
	mux := http.NewServeMux()
	mux.Handle(servePath, websocket.Handler(func(rw io.ReadWriteCloser) {
		glog.Info("host connected")
		d.serve(ctx, rw)
	}))
	server := &http.Server{Addr: listenAddr, Handler: mux}
	glog.Infof("serving ws://%s%s", listenAddr, servePath)
	return fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
}

func main() {
	flag.Parse()

	exp := excitation.NewConfig()
	if err := exp.Validate(); err != nil {
		log.Fatalln(err)
	}
	runner := fx.NewRunner().HandleSignals()
	runner.Go(&device{exp: exp, motor: motor.NewConfig()})
	if err := runner.Wait(); err != nil {
		glog.Flush()
		log.Fatalln(err)
	}
}
