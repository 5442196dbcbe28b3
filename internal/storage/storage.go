package storage

import (
	"context"

	"flashlend/internal/model"
)

// AuditSink records planned loans and computed settlements for operators.
type AuditSink interface {
	RecordPlan(ctx context.Context, plan model.LoanPlan) error
	RecordSettlements(ctx context.Context, records []model.SettlementRecord) error
}
