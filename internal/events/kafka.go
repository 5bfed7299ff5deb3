package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

var ErrQueueFull = errors.New("event queue full, event dropped")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues events and writes them from a small worker pool.
// Messages are keyed by organization so one tenant's events stay ordered
// within a partition.
type KafkaPublisher struct {
	writer      messageWriter
	queue       chan kafka.Message
	workerCount int
	log         logrus.FieldLogger
	shutdown    chan struct{}
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

func NewKafkaPublisher(brokers []string, topic string, log logrus.FieldLogger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return newKafkaPublisher(writer, 4, 1000, log)
}

func newKafkaPublisher(w messageWriter, workers, queueSize int, log logrus.FieldLogger) *KafkaPublisher {
	kp := &KafkaPublisher{
		writer:      w,
		queue:       make(chan kafka.Message, queueSize),
		workerCount: workers,
		log:         log,
		shutdown:    make(chan struct{}),
	}
	for i := 0; i < kp.workerCount; i++ {
		kp.wg.Add(1)
		go kp.worker(i)
	}
	return kp
}

func (kp *KafkaPublisher) worker(id int) {
	defer kp.wg.Done()

	for {
		select {
		case msg := <-kp.queue:
			kp.write(id, msg)
		case <-kp.shutdown:
			// drain what is already queued
			for {
				select {
				case msg := <-kp.queue:
					kp.write(id, msg)
				default:
					return
				}
			}
		}
	}
}

func (kp *KafkaPublisher) write(worker int, msg kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		kp.log.WithFields(logrus.Fields{
			"worker": worker,
			"key":    string(msg.Key),
		}).WithError(err).Warn("failed to write event to kafka")
	}
}

// Publish never blocks; it fails with ErrQueueFull when the workers are
// behind.
func (kp *KafkaPublisher) Publish(_ context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrganizationID), 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.Timestamp,
	}

	select {
	case kp.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (kp *KafkaPublisher) Close() error {
	var err error
	kp.closeOnce.Do(func() {
		close(kp.shutdown)
		kp.wg.Wait()
		err = kp.writer.Close()
	})
	return err
}
