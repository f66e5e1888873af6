package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/content"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// CreatePost inserts a post and returns its id. p.ID is ignored.
func (s *Store) CreatePost(ctx context.Context, p content.Post) (int64, error) {
	if p.Type == "" {
		p.Type = "post"
	}
	if p.Status == "" {
		p.Status = "publish"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (post_name, post_type, post_title, post_status)
		VALUES (?, ?, ?, ?)
	`, p.Name, p.Type, p.Title, p.Status)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return res.LastInsertId()
}

// ReadPost returns the post with the given id.
func (s *Store) ReadPost(ctx context.Context, id int64) (content.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, post_name, post_type, post_title, post_status
		FROM posts WHERE id = ?
	`, id)
	p, err := scanPost(row)
	if err != nil {
		return content.Post{}, fmt.Errorf("read post %d: %w", id, err)
	}
	return p, nil
}

// FindPostByName returns the oldest post of postType with the given slug.
func (s *Store) FindPostByName(ctx context.Context, postType, name string) (content.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, post_name, post_type, post_title, post_status
		FROM posts WHERE post_type = ? AND post_name = ?
		ORDER BY id ASC LIMIT 1
	`, postType, name)
	p, err := scanPost(row)
	if err != nil {
		return content.Post{}, fmt.Errorf("find post %s/%q: %w", postType, name, err)
	}
	return p, nil
}

// ListPosts returns every post ordered by id.
func (s *Store) ListPosts(ctx context.Context) ([]content.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_name, post_type, post_title, post_status
		FROM posts ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreateTerm inserts a term and returns its id. t.ID is ignored.
func (s *Store) CreateTerm(ctx context.Context, t content.Term) (int64, error) {
	if t.Taxonomy == "" {
		return 0, fmt.Errorf("insert term: empty taxonomy")
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO terms (name, slug, taxonomy) VALUES (?, ?, ?)
	`, t.Name, t.Slug, t.Taxonomy)
	if err != nil {
		return 0, fmt.Errorf("insert term: %w", err)
	}
	return res.LastInsertId()
}

// ReadTerm returns the term with the given id.
func (s *Store) ReadTerm(ctx context.Context, id int64) (content.Term, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT term_id, name, slug, taxonomy FROM terms WHERE term_id = ?
	`, id)
	t, err := scanTerm(row)
	if err != nil {
		return content.Term{}, fmt.Errorf("read term %d: %w", id, err)
	}
	return t, nil
}

// FindTermBySlug returns the oldest term in taxonomy with the given slug.
func (s *Store) FindTermBySlug(ctx context.Context, taxonomy, slug string) (content.Term, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT term_id, name, slug, taxonomy FROM terms
		WHERE taxonomy = ? AND slug = ?
		ORDER BY term_id ASC LIMIT 1
	`, taxonomy, slug)
	t, err := scanTerm(row)
	if err != nil {
		return content.Term{}, fmt.Errorf("find term %s/%q: %w", taxonomy, slug, err)
	}
	return t, nil
}

// ListTerms returns every term ordered by id.
func (s *Store) ListTerms(ctx context.Context) ([]content.Term, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT term_id, name, slug, taxonomy FROM terms ORDER BY term_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	defer rows.Close()

	var terms []content.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(sc scanner) (content.Post, error) {
	var p content.Post
	if err := sc.Scan(&p.ID, &p.Name, &p.Type, &p.Title, &p.Status); err != nil {
		return content.Post{}, notFound(err)
	}
	return p, nil
}

func scanTerm(sc scanner) (content.Term, error) {
	var t content.Term
	if err := sc.Scan(&t.ID, &t.Name, &t.Slug, &t.Taxonomy); err != nil {
		return content.Term{}, notFound(err)
	}
	return t, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
