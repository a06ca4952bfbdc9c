package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/vermakhushbu723/Laundry-Backend/internal/config"
	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
)

const (
	SenderLog      = "log"
	SenderKafka    = "kafka"
	SenderRabbitMQ = "rabbitmq"
)

// OTPMessage is the payload handed to the SMS gateway.
type OTPMessage struct {
	PhoneNumber string    `json:"phoneNumber"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// OTPSender delivers codes to the phone out of band.
type OTPSender interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
	Close() error
}

// NewOTPSender builds the sender selected by OTP_SENDER.
func NewOTPSender(cfg *config.Config, log logger.Logger) (OTPSender, error) {
	switch cfg.OTPSender {
	case SenderLog, "":
		return NewLogSender(log), nil
	case SenderKafka:
		if cfg.KafkaBroker == "" {
			return nil, fmt.Errorf("KAFKA_BROKER is required for the kafka OTP sender")
		}
		return NewKafkaSender(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword), nil
	case SenderRabbitMQ:
		if cfg.AMQPURL == "" {
			return nil, fmt.Errorf("AMQP_URL is required for the rabbitmq OTP sender")
		}
		return NewRabbitSender(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	default:
		return nil, fmt.Errorf("unsupported OTP_SENDER %q", cfg.OTPSender)
	}
}

// LogSender writes codes to the debug log. Development only.
type LogSender struct {
	log logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendOTP(_ context.Context, msg OTPMessage) error {
	s.log.WithFields(map[string]interface{}{
		"phone_number": msg.PhoneNumber,
		"code":         msg.Code,
		"expires_at":   msg.ExpiresAt,
	}).Debug("otp dispatch skipped, log sender active")
	return nil
}

func (s *LogSender) Close() error { return nil }

// KafkaSender publishes OTP messages for a downstream SMS gateway consumer.
type KafkaSender struct {
	writer *kafka.Writer
}

func NewKafkaSender(broker, topic, username, password string) *KafkaSender {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}

	if username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: username, Password: password},
			TLS:  &tls.Config{},
		}
	}

	return &KafkaSender{writer: writer}
}

func (s *KafkaSender) SendOTP(ctx context.Context, msg OTPMessage) error {
	message, err := kafkaMessage(msg, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.writer.WriteMessages(ctx, message)
}

// kafkaMessage keys by phone number so codes for one phone stay in order.
func kafkaMessage(msg OTPMessage, now time.Time) (kafka.Message, error) {
	value, err := json.Marshal(msg)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(msg.PhoneNumber),
		Value: value,
		Time:  now,
	}, nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

// RabbitSender publishes OTP messages to a topic exchange.
type RabbitSender struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

func NewRabbitSender(url, exchange, routingKey string) (*RabbitSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}

	return &RabbitSender{
		conn:       conn,
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

func (s *RabbitSender) SendOTP(ctx context.Context, msg OTPMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.channel.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (s *RabbitSender) Close() error {
	if err := s.channel.Close(); err != nil {
		s.conn.Close()
		return err
	}
	return s.conn.Close()
}
