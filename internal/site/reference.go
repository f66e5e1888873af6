package site

import (
	"context"
	"errors"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
	"github.com/instawp/twowaysync-sample/internal/store"
)

// PostReferenceID implements provider.Helper. The id is assigned on first
// use and stored as post metadata.
func (s *Site) PostReferenceID(ctx context.Context, postID int64) (string, error) {
	return s.referenceID(ctx, store.PostMeta, postID)
}

// TermReferenceID implements provider.Helper.
func (s *Site) TermReferenceID(ctx context.Context, termID int64) (string, error) {
	return s.referenceID(ctx, store.TermMeta, termID)
}

// SetPostReferenceID pins a post's reference id, replacing any existing one.
func (s *Site) SetPostReferenceID(ctx context.Context, postID int64, ref string) error {
	return s.setReferenceID(ctx, store.PostMeta, postID, ref)
}

// SetTermReferenceID pins a term's reference id.
func (s *Site) SetTermReferenceID(ctx context.Context, termID int64, ref string) error {
	return s.setReferenceID(ctx, store.TermMeta, termID, ref)
}

// PostByReference implements provider.Helper.
func (s *Site) PostByReference(ctx context.Context, postType, referenceID, postName string) (*content.Post, error) {
	if referenceID != "" {
		ids, err := s.store.FindObjectsByMeta(ctx, store.PostMeta, provider.KeyReferenceID, storedReference(referenceID))
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			p, err := s.store.ReadPost(ctx, id)
			if err != nil {
				return nil, err
			}
			if p.Type == postType {
				return &p, nil
			}
		}
	}
	if postName == "" {
		return nil, nil
	}
	p, err := s.store.FindPostByName(ctx, postType, postName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TermByReference implements provider.Helper.
func (s *Site) TermByReference(ctx context.Context, taxonomy, referenceID, slug string) (*content.Term, error) {
	if referenceID != "" {
		ids, err := s.store.FindObjectsByMeta(ctx, store.TermMeta, provider.KeyReferenceID, storedReference(referenceID))
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			t, err := s.store.ReadTerm(ctx, id)
			if err != nil {
				return nil, err
			}
			if t.Taxonomy == taxonomy {
				return &t, nil
			}
		}
	}
	if slug == "" {
		return nil, nil
	}
	t, err := s.store.FindTermBySlug(ctx, taxonomy, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Reference ids are written straight to the store: they are bookkeeping,
// not content, and never pass through the provider hooks.
func (s *Site) referenceID(ctx context.Context, t store.MetaTable, objectID int64) (string, error) {
	rows, err := s.store.ReadMeta(ctx, t, objectID, provider.KeyReferenceID)
	if err != nil {
		return "", err
	}
	if len(rows) > 0 {
		if ref, ok := metaval.Unserialize(rows[0].Value).(metaval.String); ok && ref != "" {
			return string(ref), nil
		}
	}

	ref := s.refs.Generate()
	if err := s.setReferenceID(ctx, t, objectID, ref); err != nil {
		return "", err
	}
	return ref, nil
}

// storedReference is the meta_value a reference id is stored as. Ids that
// look like numbers or JSON are stored quoted.
func storedReference(ref string) string {
	return metaval.MustSerialize(metaval.String(ref))
}

func (s *Site) setReferenceID(ctx context.Context, t store.MetaTable, objectID int64, ref string) error {
	raw := storedReference(ref)
	n, err := s.store.UpdateMeta(ctx, t, objectID, provider.KeyReferenceID, raw)
	if err != nil {
		return fmt.Errorf("set %s reference id: %w", t, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.store.InsertMeta(ctx, t, objectID, provider.KeyReferenceID, raw); err != nil {
		return fmt.Errorf("set %s reference id: %w", t, err)
	}
	return nil
}
