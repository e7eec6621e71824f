// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package streamz

import (
	"context"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ziongh/cudf/column"
)

// Config is a flat librdkafka-style configuration map. Recognized keys:
//
//	bootstrap.servers  comma-separated broker list (required)
//	group.id           consumer group for offset management
//	client.id          client identifier sent to the brokers
type Config map[string]string

// Option configures a Handle at connect time.
type Option func(*Handle)

// WithLogger sets the handle's logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(h *Handle) { h.log = log }
}

// Handle is a connected consumer/producer pair over one broker cluster.
// It is a pass-through to the underlying client: every method is a single
// synchronous call with no retries of its own.
type Handle struct {
	cfg      Config
	groupID  string
	client   sarama.Client
	consumer sarama.Consumer
	producer sarama.SyncProducer
	offsets  sarama.OffsetManager
	log      *zap.Logger
}

// Connect validates the configuration and establishes the client,
// consumer, producer, and offset manager.
func Connect(cfg Config, opts ...Option) (*Handle, error) {
	servers := cfg["bootstrap.servers"]
	if servers == "" {
		return nil, fmt.Errorf("streamz: config key %q is required", "bootstrap.servers")
	}

	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Consumer.Return.Errors = true
	if id := cfg["client.id"]; id != "" {
		sc.ClientID = id
	}

	h := &Handle{
		cfg:     cfg,
		groupID: cfg["group.id"],
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	client, err := sarama.NewClient(strings.Split(servers, ","), sc)
	if err != nil {
		return nil, fmt.Errorf("streamz: connecting to %s: %w", servers, err)
	}
	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("streamz: creating consumer: %w", err)
	}
	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		consumer.Close()
		client.Close()
		return nil, fmt.Errorf("streamz: creating producer: %w", err)
	}
	h.client = client
	h.consumer = consumer
	h.producer = producer

	if h.groupID != "" {
		h.offsets, err = sarama.NewOffsetManagerFromClient(h.groupID, client)
		if err != nil {
			producer.Close()
			consumer.Close()
			client.Close()
			return nil, fmt.Errorf("streamz: creating offset manager for group %q: %w", h.groupID, err)
		}
	}

	h.log.Info("connected",
		zap.String("bootstrap.servers", servers),
		zap.String("group.id", h.groupID))
	return h, nil
}

// Close releases the producer, consumer, offset manager, and client.
func (h *Handle) Close() error {
	var firstErr error
	if h.offsets != nil {
		if err := h.offsets.Close(); err != nil {
			firstErr = err
		}
	}
	if err := h.producer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := h.consumer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := h.client.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Metadata describes the connected cluster.
type Metadata struct {
	Brokers    []string
	Partitions map[string][]int32
}

// Metadata fetches broker addresses and the partition layout of every
// topic visible to the client.
func (h *Handle) Metadata() (*Metadata, error) {
	topics, err := h.client.Topics()
	if err != nil {
		return nil, fmt.Errorf("streamz: listing topics: %w", err)
	}
	md := &Metadata{Partitions: make(map[string][]int32, len(topics))}
	for _, b := range h.client.Brokers() {
		md.Brokers = append(md.Brokers, b.Addr())
	}
	for _, topic := range topics {
		parts, err := h.client.Partitions(topic)
		if err != nil {
			return nil, fmt.Errorf("streamz: listing partitions of %q: %w", topic, err)
		}
		md.Partitions[topic] = parts
	}
	return md, nil
}

// DumpConfigs logs the full configuration map at debug level.
func (h *Handle) DumpConfigs() {
	fields := make([]zap.Field, 0, len(h.cfg))
	for k, v := range h.cfg {
		fields = append(fields, zap.String(k, v))
	}
	h.log.Debug("kafka configuration", fields...)
}

// WatermarkOffsets returns the low and high watermark offsets of a
// partition.
func (h *Handle) WatermarkOffsets(topic string, partition int32) (low, high int64, err error) {
	low, err = h.client.GetOffset(topic, partition, sarama.OffsetOldest)
	if err != nil {
		return 0, 0, fmt.Errorf("streamz: low watermark of %s[%d]: %w", topic, partition, err)
	}
	high, err = h.client.GetOffset(topic, partition, sarama.OffsetNewest)
	if err != nil {
		return 0, 0, fmt.Errorf("streamz: high watermark of %s[%d]: %w", topic, partition, err)
	}
	return low, high, nil
}

// Committed returns the last committed offset of the consumer group on a
// partition, -1 when nothing has been committed.
func (h *Handle) Committed(topic string, partition int32) (int64, error) {
	if h.offsets == nil {
		return 0, fmt.Errorf("streamz: committed offsets require a group.id")
	}
	pom, err := h.offsets.ManagePartition(topic, partition)
	if err != nil {
		return 0, fmt.Errorf("streamz: managing %s[%d]: %w", topic, partition, err)
	}
	defer pom.Close()
	offset, _ := pom.NextOffset()
	return offset, nil
}

// Commit records an offset for the consumer group on a partition and
// flushes it to the brokers.
func (h *Handle) Commit(topic string, partition int32, offset int64) error {
	if h.offsets == nil {
		return fmt.Errorf("streamz: committing offsets requires a group.id")
	}
	pom, err := h.offsets.ManagePartition(topic, partition)
	if err != nil {
		return fmt.Errorf("streamz: managing %s[%d]: %w", topic, partition, err)
	}
	defer pom.Close()
	pom.MarkOffset(offset, "")
	h.offsets.Commit()
	h.log.Debug("committed offset",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Produce sends one message and waits for broker acknowledgement.
func (h *Handle) Produce(topic string, value, key []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(value),
	}
	if key != nil {
		msg.Key = sarama.ByteEncoder(key)
	}
	partition, offset, err := h.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("streamz: producing to %q: %w", topic, err)
	}
	h.log.Debug("produced message",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// ReadLines consumes offsets [start, end) of one partition, splits the
// payloads on delimiter, and returns the lines as a string column. start
// and end may be negative to mean the partition's low and high watermarks.
// The read stops early when the context is done; lines read so far are
// returned along with the context error.
func (h *Handle) ReadLines(ctx context.Context, topic string, partition int32, start, end int64, delimiter string) (*column.Column, error) {
	if delimiter == "" {
		delimiter = "\n"
	}
	if start < 0 {
		low, err := h.client.GetOffset(topic, partition, sarama.OffsetOldest)
		if err != nil {
			return nil, fmt.Errorf("streamz: resolving start offset: %w", err)
		}
		start = low
	}
	if end < 0 {
		high, err := h.client.GetOffset(topic, partition, sarama.OffsetNewest)
		if err != nil {
			return nil, fmt.Errorf("streamz: resolving end offset: %w", err)
		}
		end = high
	}

	var rows []any
	if start >= end {
		return column.FromValues(column.String, rows)
	}

	pc, err := h.consumer.ConsumePartition(topic, partition, start)
	if err != nil {
		return nil, fmt.Errorf("streamz: consuming %s[%d] from %d: %w", topic, partition, start, err)
	}
	defer pc.Close()

	for next := start; next < end; {
		select {
		case <-ctx.Done():
			col, buildErr := column.FromValues(column.String, rows)
			if buildErr != nil {
				return nil, buildErr
			}
			return col, ctx.Err()
		case err := <-pc.Errors():
			return nil, fmt.Errorf("streamz: reading %s[%d]: %w", topic, partition, err)
		case msg := <-pc.Messages():
			rows = appendLines(rows, msg.Value, delimiter)
			next = msg.Offset + 1
		}
	}

	h.log.Debug("read lines",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("start", start),
		zap.Int64("end", end),
		zap.Int("lines", len(rows)))
	return column.FromValues(column.String, rows)
}

// appendLines splits one payload on delimiter and appends the non-empty
// lines as column row values.
func appendLines(rows []any, payload []byte, delimiter string) []any {
	for _, line := range strings.Split(string(payload), delimiter) {
		if line != "" {
			rows = append(rows, line)
		}
	}
	return rows
}
