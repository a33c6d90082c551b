package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// postgresStore keeps every table as (pk, sk, doc jsonb, expires_at).
// Table names are code-owned constants, never user input.
type postgresStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, logger *zap.Logger) Store {
	return &postgresStore{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("kvstore/postgres"),
	}
}

func (s *postgresStore) Get(ctx context.Context, table string, key Key) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "PostgresStore.Get")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", table),
		attribute.String("pk", key.PK),
	)

	query := fmt.Sprintf(`
		SELECT doc
		FROM %s
		WHERE pk = $1 AND sk = $2;
	`, table)

	var doc []byte
	if err := s.pool.QueryRow(ctx, query, key.PK, key.SK).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			s.logger,
			"Error getting item",
			zap.String("table", table),
			zap.String("pk", key.PK),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting item: %w", err)
	}

	return doc, nil
}

func (s *postgresStore) Put(ctx context.Context, table string, key Key, doc []byte) error {
	return s.put(ctx, table, key, doc, nil)
}

func (s *postgresStore) PutWithExpiry(ctx context.Context, table string, key Key, doc []byte, expiresAt time.Time) error {
	return s.put(ctx, table, key, doc, &expiresAt)
}

func (s *postgresStore) put(ctx context.Context, table string, key Key, doc []byte, expiresAt *time.Time) error {
	ctx, span := s.tracer.Start(ctx, "PostgresStore.Put")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", table),
		attribute.String("pk", key.PK),
	)

	query := fmt.Sprintf(`
		INSERT INTO %s (pk, sk, doc, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pk, sk)
		DO UPDATE SET doc = EXCLUDED.doc, expires_at = EXCLUDED.expires_at;
	`, table)

	if _, err := s.pool.Exec(ctx, query, key.PK, key.SK, doc, expiresAt); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			s.logger,
			"Error putting item",
			zap.String("table", table),
			zap.String("pk", key.PK),
			zap.Error(err),
		)

		return fmt.Errorf("error putting item: %w", err)
	}

	return nil
}

func (s *postgresStore) Update(ctx context.Context, table string, key Key, doc []byte) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "PostgresStore.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", table),
		attribute.String("pk", key.PK),
	)

	// Single statement keeps the existence check and the write atomic.
	query := fmt.Sprintf(`
		UPDATE %s
		SET doc = $3
		WHERE pk = $1 AND sk = $2
		RETURNING doc;
	`, table)

	var stored []byte
	if err := s.pool.QueryRow(ctx, query, key.PK, key.SK, doc).Scan(&stored); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			s.logger,
			"Error updating item",
			zap.String("table", table),
			zap.String("pk", key.PK),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error updating item: %w", err)
	}

	return stored, nil
}

func (s *postgresStore) Delete(ctx context.Context, table string, key Key) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "PostgresStore.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", table),
		attribute.String("pk", key.PK),
	)

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE pk = $1 AND sk = $2
		RETURNING doc;
	`, table)

	var old []byte
	if err := s.pool.QueryRow(ctx, query, key.PK, key.SK).Scan(&old); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			s.logger,
			"Error deleting item",
			zap.String("table", table),
			zap.String("pk", key.PK),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error deleting item: %w", err)
	}

	return old, nil
}

func (s *postgresStore) Scan(ctx context.Context, table string) ([][]byte, error) {
	ctx, span := s.tracer.Start(ctx, "PostgresStore.Scan")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", table),
	)

	query := fmt.Sprintf(`SELECT doc FROM %s;`, table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			s.logger,
			"Error scanning table",
			zap.String("table", table),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error scanning table: %w", err)
	}
	defer rows.Close()

	return collectDocs(rows, span)
}

func (s *postgresStore) Query(ctx context.Context, table string, pk string) ([][]byte, error) {
	ctx, span := s.tracer.Start(ctx, "PostgresStore.Query")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", table),
		attribute.String("pk", pk),
	)

	query := fmt.Sprintf(`
		SELECT doc
		FROM %s
		WHERE pk = $1
		ORDER BY sk;
	`, table)

	rows, err := s.pool.Query(ctx, query, pk)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			s.logger,
			"Error querying partition",
			zap.String("table", table),
			zap.String("pk", pk),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error querying partition: %w", err)
	}
	defer rows.Close()

	return collectDocs(rows, span)
}

func (s *postgresStore) BatchGet(ctx context.Context, table string, keys []Key) ([][]byte, error) {
	ctx, span := s.tracer.Start(ctx, "PostgresStore.BatchGet")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", table),
		attribute.Int("keys_count", len(keys)),
	)

	if len(keys) == 0 {
		return nil, nil
	}

	var conditions []string
	var args []interface{}
	argId := 1

	// Duplicate keys collapse to one condition, matching one returned row.
	seen := make(map[Key]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		conditions = append(conditions, fmt.Sprintf("(pk = $%d AND sk = $%d)", argId, argId+1))
		args = append(args, key.PK, key.SK)
		argId += 2
	}

	query := fmt.Sprintf(`
		SELECT doc
		FROM %s
		WHERE %s;
	`, table, strings.Join(conditions, " OR "))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			s.logger,
			"Error batch getting items",
			zap.String("table", table),
			zap.Int("keys_count", len(keys)),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error batch getting items: %w", err)
	}
	defer rows.Close()

	return collectDocs(rows, span)
}

func collectDocs(rows pgx.Rows, span trace.Span) ([][]byte, error) {
	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning rows: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	span.SetAttributes(
		attribute.Int("result_count", len(docs)),
	)

	return docs, nil
}
