// Package kafka bridges Kafka topics and flowz runtime channels: a Source is
// a generator runtime fed by topic consumption, a Sink is a sink runtime
// producing to a topic. The channels between nodes stay in-process; Kafka
// only appears at the edges of a graph.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/multierr"

	"github.com/flowzio/flowz"
	"github.com/flowzio/flowz/serde"
)

// Message is a deserialized record flowing through the graph.
type Message[K, V any] struct {
	Key       K
	Value     V
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// NewSource returns a generator runtime that consumes the client's subscribed
// topics and emits one deserialized message per cycle. The client must be
// configured with kgo.ConsumeTopics. Closing the client ends the stream
// gracefully.
func NewSource[K, V any](client *kgo.Client, name string, keyDeser serde.Deserializer[K], valueDeser serde.Deserializer[V], opts ...flowz.RuntimeOption) *flowz.Generator[Message[K, V]] {
	var buffered []*kgo.Record

	fn := func(ctx context.Context) (Message[K, V], error) {
		var zero Message[K, V]

		for len(buffered) == 0 {
			fetches := client.PollFetches(ctx)
			if fetches.IsClientClosed() {
				return zero, flowz.ErrDone
			}
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			for _, fetchErr := range fetches.Errors() {
				if errors.Is(fetchErr.Err, context.Canceled) || errors.Is(fetchErr.Err, context.DeadlineExceeded) {
					continue
				}
				return zero, fmt.Errorf("fetch topic %s partition %d: %w", fetchErr.Topic, fetchErr.Partition, fetchErr.Err)
			}
			fetches.EachRecord(func(rec *kgo.Record) {
				buffered = append(buffered, rec)
			})
		}

		rec := buffered[0]
		buffered = buffered[1:]

		key, err := keyDeser(rec.Key)
		if err != nil {
			return zero, fmt.Errorf("deserialize key: %w", err)
		}
		value, err := valueDeser(rec.Value)
		if err != nil {
			return zero, fmt.Errorf("deserialize value: %w", err)
		}

		return Message[K, V]{
			Key:       key,
			Value:     value,
			Topic:     rec.Topic,
			Partition: rec.Partition,
			Offset:    rec.Offset,
			Timestamp: rec.Timestamp,
		}, nil
	}

	return flowz.NewGenerator(name, fn, opts...)
}

type produceResult struct {
	record *kgo.Record
	err    error
}

// Sink is a sink runtime that serializes incoming messages and produces them
// to a fixed topic. Produces are asynchronous; call Flush to wait for
// outstanding ones and collect their errors.
type Sink[K, V any] struct {
	*flowz.Sink[Message[K, V]]

	client          *kgo.Client
	topic           string
	keySerializer   serde.Serializer[K]
	valueSerializer serde.Serializer[V]

	futuresMu sync.Mutex
	futuresWg sync.WaitGroup
	futures   []produceResult
}

func NewSink[K, V any](client *kgo.Client, name, topic string, keySerializer serde.Serializer[K], valueSerializer serde.Serializer[V], opts ...flowz.RuntimeOption) *Sink[K, V] {
	s := &Sink[K, V]{
		client:          client,
		topic:           topic,
		keySerializer:   keySerializer,
		valueSerializer: valueSerializer,
	}
	s.Sink = flowz.NewSink(name, s.produce, opts...)
	return s
}

func (s *Sink[K, V]) produce(ctx context.Context, m Message[K, V]) error {
	key, err := s.keySerializer(m.Key)
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	value, err := s.valueSerializer(m.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	s.futuresWg.Add(1)
	// Background context for the async produce: the processing context may be
	// canceled after this cycle returns.
	s.client.Produce(context.Background(), &kgo.Record{
		Key:   key,
		Value: value,
		Topic: s.topic,
	}, func(r *kgo.Record, err error) {
		s.futuresMu.Lock()
		s.futures = append(s.futures, produceResult{record: r, err: err})
		s.futuresMu.Unlock()
		s.futuresWg.Done()
	})

	return nil
}

// Flush waits for all pending produces and returns their errors combined.
func (s *Sink[K, V]) Flush(ctx context.Context) error {
	if err := s.client.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush client: %w", err)
	}
	s.futuresWg.Wait()

	s.futuresMu.Lock()
	defer s.futuresMu.Unlock()

	var err error
	for _, result := range s.futures {
		if result.err != nil {
			err = multierr.Append(err, fmt.Errorf("produce to %s: %w", result.record.Topic, result.err))
		}
	}

	// Keep allocated memory, just reset slice
	s.futures = s.futures[:0]

	return err
}

// EnsureTopics creates the given topics if they do not exist yet.
func EnsureTopics(ctx context.Context, client *kgo.Client, partitions int32, replicationFactor int16, topics ...string) error {
	adm := kadm.NewClient(client)

	resps, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}

	for _, resp := range resps.Sorted() {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
		}
	}

	return nil
}
