package mqtt

import (
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/sysid.go/pkg/host"
	"github.com/robotalks/sysid.go/pkg/msgs"
)

// RecordSuffix is appended to the device ID to form the record topic.
const RecordSuffix = "/record"

// DefaultPublishTimeout bounds waiting for the broker.
const DefaultPublishTimeout = 10 * time.Second

var (
	// ErrPublishTimeout indicates the broker didn't confirm in time.
	ErrPublishTimeout = errors.New("publish timeout")
	// ErrNoBroker indicates no broker URL is configured.
	ErrNoBroker = errors.New("MQTT URL required")
)

var defaultURL string

func init() {
	defaultURL = os.Getenv("SYSID_MQTT_URL")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultURL, "mqtt-url", defaultURL, "MQTT broker URL, e.g. mqtt://localhost:1883/sysid/; empty disables publishing.")
}

// DefaultURL returns the broker URL from flags or SYSID_MQTT_URL.
func DefaultURL() string {
	return defaultURL
}

// RecordTopic returns the topic of records from deviceID.
func RecordTopic(deviceID string) string {
	return deviceID + RecordSuffix
}

// Pubber publishes a payload.
type Pubber interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// Publisher publishes experiments as msgs.Record.
type Publisher struct {
	Pubber  Pubber
	QoS     byte
	Timeout time.Duration
}

// NewPublisher creates a Publisher on q.
func NewPublisher(q *Queue) *Publisher {
	return &Publisher{Pubber: q, QoS: 1, Timeout: DefaultPublishTimeout}
}

// Publish publishes exp, retained so late subscribers receive the
// latest record of each device.
func (p *Publisher) Publish(exp *host.Experiment) error {
	payload, err := msgs.Encode(msgs.FromExperiment(exp))
	if err != nil {
		return err
	}
	token := p.Pubber.PubWith(RecordTopic(exp.DeviceID), payload, p.QoS, true)
	if p.Timeout > 0 && !token.WaitTimeout(p.Timeout) {
		return ErrPublishTimeout
	}
	if p.Timeout <= 0 {
		token.Wait()
	}
	if err = token.Error(); err != nil {
		return err
	}
	glog.Infof("published %d samples to %s", exp.Record.Len(), RecordTopic(exp.DeviceID))
	return nil
}

// SubscribeRecords calls fn with records published by any device.
func SubscribeRecords(q *Queue, fn func(deviceID string, rec *msgs.Record)) paho.Token {
	return q.Sub("+"+RecordSuffix, func(topic string, payload []byte) {
		rec, err := msgs.Decode(payload)
		if err != nil {
			glog.Warningf("decode %s: %v", topic, err)
			return
		}
		fn(strings.TrimSuffix(topic, RecordSuffix), rec)
	})
}

// PublishOnce connects to brokerURL, publishes exp and disconnects.
func PublishOnce(brokerURL string, exp *host.Experiment) error {
	if brokerURL == "" {
		return ErrNoBroker
	}
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer q.Close()
	return NewPublisher(q).Publish(exp)
}
