// Package sh provides an interactive shell running experiments step by step.
package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/host"
	"github.com/robotalks/sysid.go/pkg/link"
	"github.com/robotalks/sysid.go/pkg/link/serial"
)

// ErrNotConnected is reported by commands requiring a link.
var ErrNotConnected = errors.New("not connected")

// Opener opens a device link.
type Opener func(addr string) (io.ReadWriteCloser, error)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell      *ishell.Shell
	Config     *host.Config
	Experiment *excitation.Config
	Open       Opener

	Client *host.Client
	Link   string
	Result *host.Experiment
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&StatusCmd,
		&PortsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *host.Config, exp *excitation.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Shell:       ishell.New(),
		Config:      conf,
		Experiment:  exp,
		Open:        link.Open,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context, s *Shell)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if s.Client == nil {
			c.Err(ErrNotConnected)
			return
		}
		fn(c, s)
	}
}

// Connect opens the link at addr, replacing the current one.
func (s *Shell) Connect(addr string) error {
	rw, err := s.Open(addr)
	if err != nil {
		return err
	}
	s.Disconnect()
	if s.Config.Settle > 0 {
		time.Sleep(s.Config.Settle)
	}
	s.Client = host.NewClient(rw, s.Config, s.Experiment)
	s.Link = addr
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", addr))
	return nil
}

// Disconnect closes the current link.
func (s *Shell) Disconnect() {
	if s.Client != nil {
		s.Client.Close()
		s.Client, s.Link = nil, ""
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Do runs a step with a timeout and reports the result.
func (s *Shell) Do(c *ishell.Context, timeout time.Duration, step func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := step(ctx); err != nil {
		c.Err(err)
		return err
	}
	s.Print(c, map[string]string{"result": "ok"}, "OK")
	return nil
}

// Print prints v in JSON or text depending on the flags.
func (s *Shell) Print(c *ishell.Context, v interface{}, text string) {
	if !s.OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// Status describes the shell state.
type Status struct {
	Link         string        `json:"link,omitempty"`
	DeviceID     string        `json:"device_id"`
	Samples      int           `json:"samples"`
	SamplePeriod time.Duration `json:"sample_period"`
	Received     int           `json:"received"`
}

// Status returns the current state.
func (s *Shell) Status() Status {
	st := Status{
		Link:         s.Link,
		DeviceID:     s.Config.DeviceID,
		Samples:      s.Experiment.Samples,
		SamplePeriod: s.Experiment.SamplePeriod,
	}
	if s.Result != nil {
		st.Received = s.Result.Record.Len()
	}
	return st
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd opens a device link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[LINK]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			addr := s.Config.Link
			if len(c.Args) > 0 {
				addr = c.Args[0]
			}
			if err := s.Connect(addr); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the device link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// StatusCmd shows link and experiment settings.
	StatusCmd = ishell.Cmd{
		Name: "status",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st := s.Status()
			s.Print(c, st, fmt.Sprintf("link=%q device=%s samples=%d period=%v received=%d",
				st.Link, st.DeviceID, st.Samples, st.SamplePeriod, st.Received))
		},
	}
)

// PortsCmd lists serial ports.
var PortsCmd = ishell.Cmd{
	Name: "ports",
	Func: func(c *ishell.Context) {
		ports, err := serial.Ports()
		if err != nil {
			c.Err(err)
			return
		}
		s := ShellFrom(c)
		if s.OutputJSON {
			if ports == nil {
				ports = []string{}
			}
			s.Print(c, ports, "")
			return
		}
		if len(ports) == 0 {
			c.Println("No serial ports found")
		}
		for _, port := range ports {
			c.Println(port)
		}
	},
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(host.NewConfig(), excitation.NewConfig()).Run(flag.Args()...)
}
