package events

import (
	"fmt"
	"log/slog"

	"sacco-backend/internal/domain/event"
)

const (
	DriverLog   = "log"
	DriverKafka = "kafka"
	DriverAMQP  = "amqp"
)

type Options struct {
	Driver       string
	KafkaBrokers []string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string
	Logger       *slog.Logger
}

// New builds the publisher selected by opts.Driver.
func New(opts Options) (event.Publisher, error) {
	switch opts.Driver {
	case "", DriverLog:
		return NewLogPublisher(opts.Logger), nil
	case DriverKafka:
		if len(opts.KafkaBrokers) == 0 || opts.KafkaTopic == "" {
			return nil, fmt.Errorf("kafka driver needs brokers and a topic")
		}
		return NewKafkaPublisher(opts.KafkaBrokers, opts.KafkaTopic), nil
	case DriverAMQP:
		if opts.AMQPURL == "" || opts.AMQPExchange == "" {
			return nil, fmt.Errorf("amqp driver needs a url and an exchange")
		}
		p, err := NewAMQPPublisher(opts.AMQPURL, opts.AMQPExchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", opts.Driver)
	}
}
