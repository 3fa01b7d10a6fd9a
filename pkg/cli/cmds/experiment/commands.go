// Package experiment adds the handshake steps to the shell.
package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/sysid.go/pkg/cli/sh"
	"github.com/robotalks/sysid.go/pkg/host"
	"github.com/robotalks/sysid.go/pkg/publish/mqtt"
)

// ErrNoData is reported when no record was fetched yet.
var ErrNoData = errors.New("no data fetched")

var (
	// CheckCmd checks the connection.
	CheckCmd = ishell.Cmd{
		Name:    "check",
		Aliases: []string{"ping"},
		Func: sh.MustBeConnected(func(c *ishell.Context, s *sh.Shell) {
			s.Do(c, 10*s.Config.Timeout, s.Client.CheckConnection)
		}),
	}

	// StartCmd starts the test.
	StartCmd = ishell.Cmd{
		Name: "start",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *sh.Shell) {
			s.Do(c, s.Config.Timeout, s.Client.Start)
		}),
	}

	// WaitCmd waits for the test to complete.
	WaitCmd = ishell.Cmd{
		Name: "wait",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *sh.Shell) {
			if !s.OutputJSON {
				c.Printf("Waiting about %v ...\n", s.Experiment.Duration())
			}
			s.Do(c, s.Config.CompleteTimeoutFor(s.Experiment), s.Client.WaitComplete)
		}),
	}

	// FetchCmd requests the data.
	FetchCmd = ishell.Cmd{
		Name: "fetch",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *sh.Shell) {
			s.Do(c, s.Config.CompleteTimeoutFor(s.Experiment), func(ctx context.Context) error {
				rec, err := s.Client.RequestData(ctx)
				if err == nil {
					s.Result = s.Client.NewExperiment(rec)
				}
				return err
			})
		}),
	}

	// RunCmd runs all steps.
	RunCmd = ishell.Cmd{
		Name: "run",
		Func: sh.MustBeConnected(func(c *ishell.Context, s *sh.Shell) {
			timeout := s.Config.CompleteTimeoutFor(s.Experiment) + 3*s.Config.Timeout
			s.Do(c, timeout, func(ctx context.Context) (err error) {
				s.Result, err = s.Client.Run(ctx)
				return
			})
		}),
	}

	// SaveCmd writes the fetched data as CSV.
	SaveCmd = ishell.Cmd{
		Name: "save",
		Help: "[FILE]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if s.Result == nil {
				c.Err(ErrNoData)
				return
			}
			path := "experiment_data.csv"
			if len(c.Args) > 0 {
				path = c.Args[0]
			}
			if err := host.SaveCSV(path, s.Result); err != nil {
				c.Err(err)
				return
			}
			s.Print(c, map[string]string{"saved": path}, fmt.Sprintf("Saved %s", path))
		},
	}

	// PublishCmd publishes the fetched data to MQTT.
	PublishCmd = ishell.Cmd{
		Name: "publish",
		Help: "[MQTT-URL]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if s.Result == nil {
				c.Err(ErrNoData)
				return
			}
			brokerURL := mqtt.DefaultURL()
			if len(c.Args) > 0 {
				brokerURL = c.Args[0]
			}
			if err := mqtt.PublishOnce(brokerURL, s.Result); err != nil {
				c.Err(err)
				return
			}
			s.Print(c, map[string]string{"published": mqtt.RecordTopic(s.Result.DeviceID)}, "Published")
		},
	}
)

func init() {
	sh.AddCmds(
		&CheckCmd,
		&StartCmd,
		&WaitCmd,
		&FetchCmd,
		&RunCmd,
		&SaveCmd,
		&PublishCmd,
	)
}
