package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flashlend/internal/model"
)

// Store provides Postgres persistence for audit records.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// RecordPlan inserts a loan plan row.
func (s *Store) RecordPlan(ctx context.Context, plan model.LoanPlan) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO loan_plans (
			network, pool, asset, amount0_out, amount1_out, recipient, callback_data, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		plan.Network,
		plan.Pool,
		plan.Asset,
		plan.Amount0Out,
		plan.Amount1Out,
		plan.Recipient,
		plan.CallbackData,
		plan.CreatedAt,
	)
	return err
}

// RecordSettlements inserts settlement rows in one batch.
func (s *Store) RecordSettlements(ctx context.Context, records []model.SettlementRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO settlements (
				pool, initiator, asset, borrowed, fee, repay, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			record.Pool,
			record.Initiator,
			record.Asset,
			record.Borrowed,
			record.Fee,
			record.Repay,
			record.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
