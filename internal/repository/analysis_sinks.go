package repository

import (
	"context"
	"fmt"

	"avesto/internal/domain/models"
	"avesto/internal/domain/repository"
	pkgch "avesto/pkg/clickhouse"
	pkgkafka "avesto/pkg/kafka"
)

// ClickHouseAnalysisStore implements AnalysisStore for ClickHouse. It owns the
// client and closes it with the store.
type ClickHouseAnalysisStore struct {
	client *pkgch.Client
	table  string
}

// NewClickHouseAnalysisStore creates ClickHouse-backed analysis storage.
func NewClickHouseAnalysisStore(client *pkgch.Client, table string) repository.AnalysisStore {
	return &ClickHouseAnalysisStore{client: client, table: table}
}

// SchemaStatements returns the idempotent DDL for the analysis table.
func SchemaStatements(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    user_id String,
    kind    LowCardinality(String),
    at      DateTime,
    score   Int32,
    found   Int32,
    value   Int64,
    summary String
) ENGINE = MergeTree()
ORDER BY (user_id, at)`, table)}
}

func (s *ClickHouseAnalysisStore) Store(ctx context.Context, rec *models.AnalysisRecord) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (user_id, kind, at, score, found, value, summary) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.table)
	_, err := s.client.DB().ExecContext(ctx, q,
		rec.UserID,
		rec.Kind,
		rec.At,
		int32(rec.Score),
		int32(rec.Found),
		int64(rec.Value),
		rec.Summary,
	)
	return err
}

func (s *ClickHouseAnalysisStore) Close() error {
	return s.client.Close()
}

// KafkaAnalysisPublisher implements AnalysisPublisher for Kafka. Records are
// keyed by user so one user's history stays ordered within a partition.
type KafkaAnalysisPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAnalysisPublisher creates a Kafka-backed analysis publisher.
func NewKafkaAnalysisPublisher(producer *pkgkafka.Producer, topic string) repository.AnalysisPublisher {
	return &KafkaAnalysisPublisher{producer: producer, topic: topic}
}

func (p *KafkaAnalysisPublisher) Publish(ctx context.Context, rec *models.AnalysisRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.UserID), rec)
}

func (p *KafkaAnalysisPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
