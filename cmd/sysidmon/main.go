package main

import (
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/robotalks/sysid.go/pkg/host"
	"github.com/robotalks/sysid.go/pkg/msgs"
	"github.com/robotalks/sysid.go/pkg/publish/mqtt"
)

var saveDir string

func init() {
	mqtt.SetupFlags()
	flag.StringVar(&saveDir, "save", saveDir, "Directory to save received records as CSV.")
}

func summary(exp *host.Experiment) (lo, hi, last float32) {
	rec := exp.Record
	if rec.Len() == 0 {
		return
	}
	lo, hi, last = rec.Input[0], rec.Input[0], rec.Angle[rec.Len()-1]
	for _, v := range rec.Input {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	brokerURL := mqtt.DefaultURL()
	if brokerURL == "" {
		brokerURL = "mqtt://localhost:1883/sysid/"
	}
	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		log.Fatalln(err)
	}
	mqtt.SubscribeRecords(q, func(deviceID string, m *msgs.Record) {
		exp, err := m.Experiment()
		if err != nil {
			log.Printf("%s: bad record: %v", deviceID, err)
			return
		}
		lo, hi, last := summary(exp)
		log.Printf("%s: %d samples @%v started %s input [%g, %g] final angle %g",
			deviceID, exp.Record.Len(), exp.SamplePeriod,
			exp.Started.Format(time.RFC3339), lo, hi, last)
		if saveDir != "" {
			path := filepath.Join(saveDir, deviceID+"-"+exp.Started.Format("20060102-150405")+".csv")
			if err := host.SaveCSV(path, exp); err != nil {
				log.Printf("%s: save failed: %v", deviceID, err)
			}
		}
	})
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
