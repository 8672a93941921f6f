// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package docstore is the PostgreSQL backing store.

Every entity kind shares one JSONB document table; a record's identifier and
sequence number are kept beside its body for ordering and lookups. Writes that
read the current record first (update, transition, remove) lock the row with
SELECT ... FOR UPDATE inside a transaction, so concurrent mutations of the
same record are serialised by the database.
*/
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/erpconsole/internal/listctl"
	"github.com/taibuivan/erpconsole/internal/platform/database/schema"
	"github.com/taibuivan/erpconsole/internal/platform/dberr"
	"github.com/taibuivan/erpconsole/internal/platform/store"
)

// DB is the subset of a pgx pool the store needs. Both *pgxpool.Pool and
// pgxmock pools satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store is a [listctl.Store] over the erp.document table.
type Store[T listctl.Resource] struct {
	db     DB
	kind   store.Kind[T]
	now    func() time.Time
	logger *slog.Logger
}

// New creates a store for one entity kind.
func New[T listctl.Resource](db DB, kind store.Kind[T], logger *slog.Logger) *Store[T] {
	return &Store[T]{
		db:     db,
		kind:   kind,
		now:    time.Now,
		logger: logger.With(slog.String("kind", kind.Name)),
	}
}

// # Queries

var (
	doc = schema.ErpDocument
	seq = schema.ErpDocumentSequence

	countQuery = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, doc.Table, doc.Kind)

	listQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		doc.Body, doc.Table, doc.Kind, doc.Seq, doc.ID)

	getQuery = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		doc.Body, doc.Table, doc.Kind, doc.ID)

	lockQuery = getQuery + ` FOR UPDATE`

	// kindLockQuery serialises writers of one kind until the transaction ends.
	kindLockQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`

	insertQuery = fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		doc.Table, doc.Kind, doc.ID, doc.Seq, doc.Body)

	updateQuery = fmt.Sprintf(`UPDATE %s SET %s = $3, %s = NOW() WHERE %s = $1 AND %s = $2`,
		doc.Table, doc.Body, doc.UpdatedAt, doc.Kind, doc.ID)

	deleteQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		doc.Table, doc.Kind, doc.ID)

	nextSeqQuery = fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s) VALUES ($1, 1)
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = %[1]s.%[3]s + 1
		RETURNING %[3]s`,
		seq.Table, seq.Kind, seq.LastValue)

	setSeqQuery = fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s) VALUES ($1, $2)
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = GREATEST(%[1]s.%[3]s, EXCLUDED.%[3]s)`,
		seq.Table, seq.Kind, seq.LastValue)
)

// # Seeding

// Seed inserts the kind's seed data when the kind has no documents yet.
// It reports whether anything was inserted.
func (s *Store[T]) Seed(ctx context.Context) (bool, error) {
	transaction, err := s.db.Begin(ctx)
	if err != nil {
		return false, dberr.Wrap(err, "seed_begin")
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	var count int
	if err := transaction.QueryRow(ctx, countQuery, s.kind.Name).Scan(&count); err != nil {
		return false, dberr.Wrap(err, "seed_count")
	}
	if count > 0 {
		return false, nil
	}

	for _, item := range s.kind.Seed {
		body, err := json.Marshal(item)
		if err != nil {
			return false, dberr.Wrap(err, "seed_marshal")
		}
		if _, err := transaction.Exec(ctx, insertQuery,
			s.kind.Name, item.ResourceID(), store.SequenceOf(item.ResourceID()), body,
		); err != nil {
			return false, dberr.Wrap(err, "seed_insert")
		}
	}

	if _, err := transaction.Exec(ctx, setSeqQuery, s.kind.Name, store.NextSequence(s.kind.Seed)-1); err != nil {
		return false, dberr.Wrap(err, "seed_sequence")
	}

	if err := transaction.Commit(ctx); err != nil {
		return false, dberr.Wrap(err, "seed_commit")
	}

	s.logger.Info("docstore_seeded", slog.Int("count", len(s.kind.Seed)))
	return true, nil
}

// # Reads

// List returns every document of the kind in sequence order.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	return collect[T](s.db.Query(ctx, listQuery, s.kind.Name))
}

func collect[T any](rows pgx.Rows, err error) ([]T, error) {
	if err != nil {
		return nil, dberr.Wrap(err, "list_documents")
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, dberr.Wrap(err, "scan_document")
		}

		item, err := decode[T](body)
		if err != nil {
			return nil, dberr.Wrap(err, "decode_document")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_documents")
	}
	return items, nil
}

// Get returns one document.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	var body []byte
	if err := s.db.QueryRow(ctx, getQuery, s.kind.Name, id).Scan(&body); err != nil {
		return zero, s.notFoundOr(err, "get_document")
	}

	item, err := decode[T](body)
	if err != nil {
		return zero, dberr.Wrap(err, "decode_document")
	}
	return item, nil
}

// # Writes

// Create stores input under the kind's next sequence number.
func (s *Store[T]) Create(ctx context.Context, input T) (T, error) {
	var zero T

	transaction, err := s.db.Begin(ctx)
	if err != nil {
		return zero, dberr.Wrap(err, "create_begin")
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	all, err := s.related(ctx, transaction)
	if err != nil {
		return zero, err
	}

	var next int
	if err := transaction.QueryRow(ctx, nextSeqQuery, s.kind.Name).Scan(&next); err != nil {
		return zero, dberr.Wrap(err, "next_sequence")
	}

	created, err := s.kind.Create(input, next, s.now())
	if err != nil {
		return zero, err
	}
	if err := s.kind.CheckConflicts(created, all); err != nil {
		return zero, err
	}

	body, err := json.Marshal(created)
	if err != nil {
		return zero, dberr.Wrap(err, "encode_document")
	}
	if _, err := transaction.Exec(ctx, insertQuery, s.kind.Name, created.ResourceID(), next, body); err != nil {
		return zero, dberr.Wrap(err, "insert_document")
	}

	if err := transaction.Commit(ctx); err != nil {
		return zero, dberr.Wrap(err, "create_commit")
	}
	return created, nil
}

// Update applies patch to the locked current document.
func (s *Store[T]) Update(ctx context.Context, id string, patch listctl.Patch[T]) (T, error) {
	return s.apply(ctx, id, patch, true)
}

// Transition applies a workflow step to the locked current document.
func (s *Store[T]) Transition(ctx context.Context, id, action string, patch listctl.Patch[T]) (T, error) {
	item, err := s.apply(ctx, id, patch, false)
	if err == nil {
		s.logger.Info("docstore_transition", slog.String("id", id), slog.String("action", action))
	}
	return item, err
}

// Remove deletes a document once the kind allows it.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	transaction, err := s.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "remove_begin")
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	all, err := s.related(ctx, transaction)
	if err != nil {
		return err
	}

	current, err := s.lock(ctx, transaction, id)
	if err != nil {
		return err
	}
	if err := s.kind.CheckRemove(current); err != nil {
		return err
	}
	if err := s.kind.CheckDependents(current, all); err != nil {
		return err
	}

	if _, err := transaction.Exec(ctx, deleteQuery, s.kind.Name, id); err != nil {
		return dberr.Wrap(err, "delete_document")
	}
	return dberr.Wrap(transaction.Commit(ctx), "remove_commit")
}

func (s *Store[T]) apply(ctx context.Context, id string, patch listctl.Patch[T], revise bool) (T, error) {
	var zero T

	transaction, err := s.db.Begin(ctx)
	if err != nil {
		return zero, dberr.Wrap(err, "update_begin")
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	all, err := s.related(ctx, transaction)
	if err != nil {
		return zero, err
	}

	current, err := s.lock(ctx, transaction, id)
	if err != nil {
		return zero, err
	}

	next, err := s.kind.Apply(current, patch, revise, s.now())
	if err != nil {
		return zero, err
	}
	if err := s.kind.CheckConflicts(next, all); err != nil {
		return zero, err
	}

	body, err := json.Marshal(next)
	if err != nil {
		return zero, dberr.Wrap(err, "encode_document")
	}
	if _, err := transaction.Exec(ctx, updateQuery, s.kind.Name, id, body); err != nil {
		return zero, dberr.Wrap(err, "update_document")
	}

	if err := transaction.Commit(ctx); err != nil {
		return zero, dberr.Wrap(err, "update_commit")
	}
	return next, nil
}

// related takes the kind lock and reads every document of the kind when the
// kind checks writes against its other records. It returns nil otherwise.
func (s *Store[T]) related(ctx context.Context, transaction pgx.Tx) ([]T, error) {
	if !s.kind.Related() {
		return nil, nil
	}
	if _, err := transaction.Exec(ctx, kindLockQuery, s.kind.Name); err != nil {
		return nil, dberr.Wrap(err, "lock_kind")
	}
	return collect[T](transaction.Query(ctx, listQuery, s.kind.Name))
}

// lock reads a document with a row lock held until the transaction ends.
func (s *Store[T]) lock(ctx context.Context, transaction pgx.Tx, id string) (T, error) {
	var zero T

	var body []byte
	if err := transaction.QueryRow(ctx, lockQuery, s.kind.Name, id).Scan(&body); err != nil {
		return zero, s.notFoundOr(err, "lock_document")
	}

	item, err := decode[T](body)
	if err != nil {
		return zero, dberr.Wrap(err, "decode_document")
	}
	return item, nil
}

func (s *Store[T]) notFoundOr(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return s.kind.NotFound()
	}
	return dberr.Wrap(err, action)
}

func decode[T any](body []byte) (T, error) {
	var item T
	err := json.Unmarshal(body, &item)
	return item, err
}
