package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shemigam1/dream-devs-assesment/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer for merchant activities.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// BulkInsertActivities persists rows in one round trip and returns how
// many were actually inserted.
//
// Duplicate event ids are absorbed by the primary key constraint via
// ON CONFLICT DO NOTHING, which is what makes re-imports idempotent.
// CopyFrom would be faster but cannot skip conflicts.
func (p *PostgresStore) BulkInsertActivities(ctx context.Context, rows []models.MerchantActivity) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO merchant_activities
				(event_id, merchant_id, event_timestamp, product, event_type,
				 amount, status, channel, region, merchant_tier)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (event_id) DO NOTHING
		`, r.EventID, r.MerchantID, r.EventTimestamp, r.Product, r.EventType,
			r.Amount, r.Status, r.Channel, r.Region, r.MerchantTier)
	}

	br := p.pool.SendBatch(ctx, batch)

	var inserted int64
	for range rows {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("bulk insert: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("bulk insert close: %w", err)
	}
	return inserted, nil
}

// CountActivities returns the total number of stored records.
func (p *PostgresStore) CountActivities(ctx context.Context) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM merchant_activities`).Scan(&count)
	return count, err
}

// TopMerchant returns the merchant with the highest total successful
// transaction volume, rounded to 2 decimals, or nil when there are no
// SUCCESS records. Ties break on merchant_id ascending so the result is
// stable across calls.
func (p *PostgresStore) TopMerchant(ctx context.Context) (*models.TopMerchant, error) {
	var tm models.TopMerchant
	err := p.pool.QueryRow(ctx, `
		SELECT merchant_id, ROUND(SUM(amount)::numeric, 2)::float8
		FROM merchant_activities
		WHERE status = 'SUCCESS'
		GROUP BY merchant_id
		ORDER BY SUM(amount) DESC, merchant_id ASC
		LIMIT 1
	`).Scan(&tm.MerchantID, &tm.TotalVolume)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

// MonthlyActiveMerchants counts distinct merchants with at least one
// successful event per calendar month (UTC), months ascending.
func (p *PostgresStore) MonthlyActiveMerchants(ctx context.Context) (models.OrderedCounts, error) {
	return p.orderedCounts(ctx, `
		SELECT TO_CHAR(event_timestamp AT TIME ZONE 'UTC', 'YYYY-MM') AS month,
		       COUNT(DISTINCT merchant_id)
		FROM merchant_activities
		WHERE status = 'SUCCESS'
		GROUP BY month
		ORDER BY month ASC
	`)
}

// ProductAdoption counts distinct merchants per product over all
// statuses, highest count first.
func (p *PostgresStore) ProductAdoption(ctx context.Context) (models.OrderedCounts, error) {
	return p.orderedCounts(ctx, `
		SELECT product, COUNT(DISTINCT merchant_id) AS merchants
		FROM merchant_activities
		GROUP BY product
		ORDER BY merchants DESC, product ASC
	`)
}

// KycFunnel counts distinct merchants at each verification stage over
// successful KYC events. Event types outside the three known stages are
// dropped; unseen stages stay 0.
func (p *PostgresStore) KycFunnel(ctx context.Context) (models.KycFunnel, error) {
	var funnel models.KycFunnel

	rows, err := p.pool.Query(ctx, `
		SELECT event_type, COUNT(DISTINCT merchant_id)
		FROM merchant_activities
		WHERE product = 'KYC' AND status = 'SUCCESS'
		GROUP BY event_type
	`)
	if err != nil {
		return funnel, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return funnel, err
		}
		switch eventType {
		case models.KycDocumentSubmitted:
			funnel.DocumentsSubmitted = count
		case models.KycVerificationCompleted:
			funnel.VerificationsCompleted = count
		case models.KycTierUpgrade:
			funnel.TierUpgrades = count
		}
	}
	return funnel, rows.Err()
}

// FailureRates computes FAILED / (SUCCESS + FAILED) * 100 per product,
// rounded to 1 decimal, highest rate first. PENDING events are excluded
// from the denominator, and products with no SUCCESS or FAILED records
// are absent from the result.
func (p *PostgresStore) FailureRates(ctx context.Context) ([]models.ProductFailureRate, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT product,
		       ROUND(COUNT(*) FILTER (WHERE status = 'FAILED') * 100.0 / COUNT(*), 1)::float8 AS rate
		FROM merchant_activities
		WHERE status IN ('SUCCESS', 'FAILED')
		GROUP BY product
		ORDER BY rate DESC, product ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProductFailureRate
	for rows.Next() {
		var fr models.ProductFailureRate
		if err := rows.Scan(&fr.Product, &fr.FailureRate); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

func (p *PostgresStore) orderedCounts(ctx context.Context, query string) (models.OrderedCounts, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out models.OrderedCounts
	for rows.Next() {
		var kc models.KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, err
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}
