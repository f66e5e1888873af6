package store

import (
	"context"
	"fmt"
)

// MetaTable selects the postmeta or termmeta table.
type MetaTable struct {
	table     string
	objectCol string
}

// Metadata tables.
var (
	PostMeta = MetaTable{table: "postmeta", objectCol: "post_id"}
	TermMeta = MetaTable{table: "termmeta", objectCol: "term_id"}
)

func (t MetaTable) String() string { return t.table }

// MetaRow is one stored metadata row. Value is in serialized form.
type MetaRow struct {
	MetaID   int64
	ObjectID int64
	Key      string
	Value    string
}

// InsertMeta appends a metadata row and returns its meta_id. Keys may repeat.
func (s *Store) InsertMeta(ctx context.Context, t MetaTable, objectID int64, key, value string) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, meta_key, meta_value) VALUES (?, ?, ?)`, t.table, t.objectCol)
	res, err := s.db.ExecContext(ctx, query, objectID, key, value)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.table, err)
	}
	return res.LastInsertId()
}

// FirstMetaID returns the meta_id of the oldest row for key, or ErrNotFound.
func (s *Store) FirstMetaID(ctx context.Context, t MetaTable, objectID int64, key string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT meta_id FROM %s WHERE %s = ? AND meta_key = ?
		ORDER BY meta_id ASC LIMIT 1
	`, t.table, t.objectCol)
	var id int64
	if err := s.db.QueryRowContext(ctx, query, objectID, key).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup %s %d/%q: %w", t.table, objectID, key, notFound(err))
	}
	return id, nil
}

// UpdateMeta sets the value of every row for key and returns the number of
// rows changed.
func (s *Store) UpdateMeta(ctx context.Context, t MetaTable, objectID int64, key, value string) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET meta_value = ? WHERE %s = ? AND meta_key = ?`, t.table, t.objectCol)
	res, err := s.db.ExecContext(ctx, query, value, objectID, key)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", t.table, err)
	}
	return res.RowsAffected()
}

// ReadMeta returns the rows for key, oldest first.
func (s *Store) ReadMeta(ctx context.Context, t MetaTable, objectID int64, key string) ([]MetaRow, error) {
	query := fmt.Sprintf(`
		SELECT meta_id, %s, meta_key, meta_value FROM %s
		WHERE %s = ? AND meta_key = ?
		ORDER BY meta_id ASC
	`, t.objectCol, t.table, t.objectCol)
	return s.queryMeta(ctx, t, query, objectID, key)
}

// ListMeta returns every row owned by objectID, oldest first.
func (s *Store) ListMeta(ctx context.Context, t MetaTable, objectID int64) ([]MetaRow, error) {
	query := fmt.Sprintf(`
		SELECT meta_id, %s, meta_key, meta_value FROM %s
		WHERE %s = ?
		ORDER BY meta_id ASC
	`, t.objectCol, t.table, t.objectCol)
	return s.queryMeta(ctx, t, query, objectID)
}

// FindObjectsByMeta returns the ids of objects holding key=value, ascending.
func (s *Store) FindObjectsByMeta(ctx context.Context, t MetaTable, key, value string) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM %s WHERE meta_key = ? AND meta_value = ?
		ORDER BY %s ASC
	`, t.objectCol, t.table, t.objectCol)
	rows, err := s.db.QueryContext(ctx, query, key, value)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) queryMeta(ctx context.Context, t MetaTable, query string, args ...any) ([]MetaRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.table, err)
	}
	defer rows.Close()

	var out []MetaRow
	for rows.Next() {
		var r MetaRow
		if err := rows.Scan(&r.MetaID, &r.ObjectID, &r.Key, &r.Value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
