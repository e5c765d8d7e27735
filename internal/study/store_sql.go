package study

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mind-engage/studyquiz/internal/quiz"
)

// SQLStore keeps pools and banks as JSON columns, one row per
// (document, kind) pool and per (document, kind, tier) bank.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutPool(ctx context.Context, docID string, kind quiz.Kind, items []PoolItem) error {
	buf, err := json.Marshal(items)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO documents (id, created_at) VALUES ($1,$2)
		ON CONFLICT (id) DO NOTHING`, docID, now); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO question_pools (doc_id, kind, items_json, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (doc_id, kind) DO UPDATE SET items_json=EXCLUDED.items_json, updated_at=EXCLUDED.updated_at`,
		docID, string(kind), string(buf), now); err != nil {
		return fmt.Errorf("upsert pool: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) Pool(ctx context.Context, docID string, kind quiz.Kind, tier quiz.Tier) ([]Record, error) {
	if ok, err := s.HasDocument(ctx, docID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT items_json FROM question_pools WHERE doc_id=$1 AND kind=$2`,
		docID, string(kind)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []PoolItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode pool: %w", err)
	}
	var out []Record
	for _, it := range items {
		if it.Tier == tier {
			out = append(out, it.Record)
		}
	}
	return out, nil
}

func (s *SQLStore) ReplaceTier(ctx context.Context, docID string, kind quiz.Kind, tier quiz.Tier, runID string, recs []Record) error {
	if ok, err := s.HasDocument(ctx, docID); err != nil {
		return err
	} else if !ok {
		return ErrNotFound
	}
	buf, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO question_banks (doc_id, kind, tier, run_id, questions_json, generated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (doc_id, kind, tier) DO UPDATE SET run_id=EXCLUDED.run_id,
			questions_json=EXCLUDED.questions_json, generated_at=EXCLUDED.generated_at, progress_updated_at=NULL`,
		docID, string(kind), string(tier), runID, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) Bank(ctx context.Context, docID string, kind quiz.Kind) (Bank, error) {
	if ok, err := s.HasDocument(ctx, docID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, `SELECT tier, questions_json FROM question_banks WHERE doc_id=$1 AND kind=$2`,
		docID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := Bank{}
	for rows.Next() {
		var tier, raw string
		if err := rows.Scan(&tier, &raw); err != nil {
			return nil, err
		}
		var recs []Record
		if err := json.Unmarshal([]byte(raw), &recs); err != nil {
			return nil, fmt.Errorf("decode %s bank: %w", tier, err)
		}
		out[quiz.Tier(tier)] = recs
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateTier(ctx context.Context, docID string, kind quiz.Kind, tier quiz.Tier, fn TierUpdate) error {
	if ok, err := s.HasDocument(ctx, docID); err != nil {
		return err
	} else if !ok {
		return ErrNotFound
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := `SELECT questions_json FROM question_banks WHERE doc_id=$1 AND kind=$2 AND tier=$3`
	if s.driver == "postgres" {
		q += ` FOR UPDATE`
	}
	var raw string
	if err := tx.QueryRowContext(ctx, q, docID, string(kind), string(tier)).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoQuestion
		}
		return err
	}
	var recs []Record
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return fmt.Errorf("decode %s bank: %w", tier, err)
	}
	if len(recs) == 0 {
		return ErrNoQuestion
	}
	recs, err = fn(recs)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE question_banks SET questions_json=$1, progress_updated_at=$2
		WHERE doc_id=$3 AND kind=$4 AND tier=$5`,
		string(buf), time.Now().Unix(), docID, string(kind), string(tier)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) HasDocument(ctx context.Context, docID string) (bool, error) {
	var exist int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id=$1`, docID).Scan(&exist)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
