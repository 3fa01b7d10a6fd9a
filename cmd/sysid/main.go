package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/sysid.go/pkg/excitation"
	fx "github.com/robotalks/sysid.go/pkg/framework"
	"github.com/robotalks/sysid.go/pkg/host"
	"github.com/robotalks/sysid.go/pkg/link"
	"github.com/robotalks/sysid.go/pkg/publish/mqtt"
)

var (
	output      = "experiment_data.csv"
	skipConfirm bool
)

func init() {
	excitation.SetupFlags()
	host.SetupFlags()
	mqtt.SetupFlags()
	flag.StringVar(&output, "o", output, "Output CSV file.")
	flag.BoolVar(&skipConfirm, "y", skipConfirm, "Start without asking for confirmation.")
}

func confirm(ctx context.Context) error {
	fmt.Print("Press [Enter] to start the experiment...")
	return fx.RunWithContext(ctx, func() error {
		_, err := bufio.NewReader(os.Stdin).ReadString('\n')
		return err
	})
}

func run(ctx context.Context, c *host.Client) error {
	fmt.Println("Checking connection...")
	if err := c.CheckConnection(ctx); err != nil {
		return err
	}
	if !skipConfirm {
		if err := confirm(ctx); err != nil {
			return err
		}
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Test running (about %v)...\n", c.Experiment.Duration())
	if err := c.WaitComplete(ctx); err != nil {
		return err
	}
	fmt.Println("Receiving data...")
	rec, err := c.RequestData(ctx)
	if err != nil {
		return err
	}
	exp := c.NewExperiment(rec)
	if err = host.SaveCSV(output, exp); err != nil {
		return err
	}
	fmt.Printf("Saved %d samples to %s\n", rec.Len(), output)
	if url := mqtt.DefaultURL(); url != "" {
		if err = mqtt.PublishOnce(url, exp); err != nil {
			glog.Errorf("publish failed: %v", err)
		}
	}
	return nil
}

func main() {
	flag.Parse()

	conf, exp := host.NewConfig(), excitation.NewConfig()
	rw, err := link.Open(conf.Link)
	if err != nil {
		log.Fatalln(err)
	}
	time.Sleep(conf.Settle)
	client := host.NewClient(rw, conf, exp)
	defer client.Close()

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("experiment", fx.RunFunc(func(ctx context.Context) error {
		return run(ctx, client)
	})))
	if err := runner.Wait(); err != nil {
		glog.Flush()
		log.Fatalln(err)
	}
}
