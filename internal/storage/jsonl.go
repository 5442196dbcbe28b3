package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"flashlend/internal/model"
)

// JsonlAudit appends audit records to a JSONL file.
type JsonlAudit struct {
	path string
	mu   sync.Mutex
}

func NewJsonlAudit(path string) *JsonlAudit {
	return &JsonlAudit{path: path}
}

// RecordPlan appends a loan plan as one JSON line.
func (s *JsonlAudit) RecordPlan(_ context.Context, plan model.LoanPlan) error {
	return s.appendLines([]interface{}{plan})
}

// RecordSettlements appends settlement records as JSON lines.
func (s *JsonlAudit) RecordSettlements(_ context.Context, records []model.SettlementRecord) error {
	if len(records) == 0 {
		return nil
	}
	lines := make([]interface{}, 0, len(records))
	for _, record := range records {
		lines = append(lines, record)
	}
	return s.appendLines(lines)
}

func (s *JsonlAudit) appendLines(records []interface{}) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal audit record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write audit record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
