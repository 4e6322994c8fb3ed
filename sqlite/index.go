package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/bloom"
)

// Compile-time interface verification.
var _ sphinxdex.IndexService = (*IndexService)(nil)

// Kinds of rows in the titles table.
const (
	titleKind = "title"
	entryKind = "entry"
)

// IndexService implements sphinxdex.IndexService using SQLite.
//
// Indexes are stored normalized, one row per posting, object and title, so
// objects can be queried across projects without loading whole indexes.
type IndexService struct {
	db *DB
}

// NewIndexService creates a new IndexService.
func NewIndexService(db *DB) *IndexService {
	return &IndexService{db: db}
}

// ReplaceIndex stores idx as the index of a project in a single transaction.
func (s *IndexService) ReplaceIndex(ctx context.Context, projectID string, idx *sphinxdex.Index) error {
	if idx == nil {
		return sphinxdex.Errorf(sphinxdex.EINVALID, "index required")
	}
	if err := idx.Validate(); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM projects WHERE id = ?", projectID).Scan(&exists)
	if err == sql.ErrNoRows {
		return sphinxdex.Errorf(sphinxdex.ENOTFOUND, "project not found")
	}
	if err != nil {
		return err
	}

	filter, err := bloom.NewTermFilter(idx.Terms, idx.TitleTerms).Bytes()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM indexes WHERE project_id = ?", projectID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO indexes (project_id, layout, term_filter, imported_at) VALUES (?, ?, ?, ?)
	`, projectID, int(idx.Layout), filter, formatTime(now())); err != nil {
		return err
	}

	w := &indexWriter{ctx: ctx, tx: tx, projectID: projectID}
	w.documents(idx)
	w.terms(idx.Terms, false)
	w.terms(idx.TitleTerms, true)
	w.objTypes(idx.ObjTypes)
	w.objects(idx.Objects)
	w.titles(titleKind, idx.AllTitles)
	w.titles(entryKind, idx.IndexEntries)
	w.envVersion(idx.EnvVersion)
	if w.err != nil {
		return w.err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// indexWriter inserts the rows of an index, keeping the first error.
type indexWriter struct {
	ctx       context.Context
	tx        *sql.Tx
	projectID string
	err       error
}

// each prepares query once and runs fn with a function executing it.
func (w *indexWriter) each(query string, fn func(exec func(args ...any))) {
	if w.err != nil {
		return
	}
	stmt, err := w.tx.PrepareContext(w.ctx, query)
	if err != nil {
		w.err = err
		return
	}
	defer stmt.Close()

	fn(func(args ...any) {
		if w.err != nil {
			return
		}
		_, w.err = stmt.ExecContext(w.ctx, append([]any{w.projectID}, args...)...)
	})
}

func (w *indexWriter) documents(idx *sphinxdex.Index) {
	w.each("INSERT INTO documents (project_id, position, docname, filename, title) VALUES (?, ?, ?, ?, ?)",
		func(exec func(args ...any)) {
			for i := range idx.DocNames {
				ref, _ := idx.Doc(i)
				exec(i, ref.DocName, ref.Filename, ref.Title)
			}
		})
}

func (w *indexWriter) terms(terms map[string][]int, inTitle bool) {
	w.each("INSERT INTO terms (project_id, in_title, term, seq, doc) VALUES (?, ?, ?, ?, ?)",
		func(exec func(args ...any)) {
			for term, docs := range terms {
				for seq, doc := range docs {
					exec(inTitle, term, seq, doc)
				}
			}
		})
}

func (w *indexWriter) objTypes(types map[int]sphinxdex.ObjType) {
	w.each("INSERT INTO objtypes (project_id, type_index, domain, name, label, role) VALUES (?, ?, ?, ?, ?, ?)",
		func(exec func(args ...any)) {
			for n, typ := range types {
				exec(n, typ.Domain, typ.Name, typ.Label, typ.Role)
			}
		})
}

func (w *indexWriter) objects(objects []sphinxdex.Object) {
	w.each("INSERT INTO objects (project_id, seq, prefix, name, doc, type, prio, anchor) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		func(exec func(args ...any)) {
			for seq, o := range objects {
				exec(seq, o.Prefix, o.Name, o.Doc, o.Type, o.Prio, o.Anchor)
			}
		})
}

func (w *indexWriter) titles(kind string, titles map[string][]sphinxdex.Anchor) {
	w.each("INSERT INTO titles (project_id, kind, title, seq, doc, anchor) VALUES (?, ?, ?, ?, ?, ?)",
		func(exec func(args ...any)) {
			for title, anchors := range titles {
				for seq, a := range anchors {
					exec(kind, title, seq, a.Doc, a.ID)
				}
			}
		})
}

func (w *indexWriter) envVersion(versions map[string]int) {
	w.each("INSERT INTO envversion (project_id, name, version) VALUES (?, ?, ?)",
		func(exec func(args ...any)) {
			for name, version := range versions {
				exec(name, version)
			}
		})
}

// FindIndex rebuilds the index of a project from its rows.
func (s *IndexService) FindIndex(ctx context.Context, projectID string) (*sphinxdex.Index, error) {
	var layout int
	err := s.db.QueryRowContext(ctx, "SELECT layout FROM indexes WHERE project_id = ?", projectID).Scan(&layout)
	if err == sql.ErrNoRows {
		return nil, sphinxdex.Errorf(sphinxdex.ENOTFOUND, "index not found")
	}
	if err != nil {
		return nil, err
	}

	idx := &sphinxdex.Index{
		Terms:      make(map[string][]int),
		TitleTerms: make(map[string][]int),
		ObjTypes:   make(map[int]sphinxdex.ObjType),
		Layout:     sphinxdex.ObjectLayout(layout),
	}

	r := &indexReader{ctx: ctx, db: s.db, projectID: projectID}
	r.documents(idx)
	r.terms(idx)
	r.objTypes(idx)
	r.objects(idx)
	r.titles(idx)
	r.envVersion(idx)
	if r.err != nil {
		return nil, r.err
	}
	return idx, nil
}

// indexReader loads the rows of an index, keeping the first error.
type indexReader struct {
	ctx       context.Context
	db        *DB
	projectID string
	err       error
}

// each runs query for the project and calls scan for every row.
func (r *indexReader) each(query string, scan func(rows *sql.Rows) error) {
	if r.err != nil {
		return
	}
	rows, err := r.db.QueryContext(r.ctx, query, r.projectID)
	if err != nil {
		r.err = err
		return
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			r.err = err
			return
		}
	}
	r.err = rows.Err()
}

func (r *indexReader) documents(idx *sphinxdex.Index) {
	r.each("SELECT docname, filename, title FROM documents WHERE project_id = ? ORDER BY position",
		func(rows *sql.Rows) error {
			var docname, filename, title string
			if err := rows.Scan(&docname, &filename, &title); err != nil {
				return err
			}
			idx.DocNames = append(idx.DocNames, docname)
			idx.Filenames = append(idx.Filenames, filename)
			idx.Titles = append(idx.Titles, title)
			return nil
		})
}

func (r *indexReader) terms(idx *sphinxdex.Index) {
	r.each("SELECT in_title, term, doc FROM terms WHERE project_id = ? ORDER BY in_title, term, seq",
		func(rows *sql.Rows) error {
			var inTitle bool
			var term string
			var doc int
			if err := rows.Scan(&inTitle, &term, &doc); err != nil {
				return err
			}
			if inTitle {
				idx.TitleTerms[term] = append(idx.TitleTerms[term], doc)
			} else {
				idx.Terms[term] = append(idx.Terms[term], doc)
			}
			return nil
		})
}

func (r *indexReader) objTypes(idx *sphinxdex.Index) {
	r.each("SELECT type_index, domain, name, label, role FROM objtypes WHERE project_id = ?",
		func(rows *sql.Rows) error {
			var n int
			var typ sphinxdex.ObjType
			if err := rows.Scan(&n, &typ.Domain, &typ.Name, &typ.Label, &typ.Role); err != nil {
				return err
			}
			idx.ObjTypes[n] = typ
			return nil
		})
}

func (r *indexReader) objects(idx *sphinxdex.Index) {
	r.each("SELECT prefix, name, doc, type, prio, anchor FROM objects WHERE project_id = ? ORDER BY seq",
		func(rows *sql.Rows) error {
			var o sphinxdex.Object
			if err := rows.Scan(&o.Prefix, &o.Name, &o.Doc, &o.Type, &o.Prio, &o.Anchor); err != nil {
				return err
			}
			idx.Objects = append(idx.Objects, o)
			return nil
		})
}

func (r *indexReader) titles(idx *sphinxdex.Index) {
	r.each("SELECT kind, title, doc, anchor FROM titles WHERE project_id = ? ORDER BY kind, title, seq",
		func(rows *sql.Rows) error {
			var kind, title string
			var a sphinxdex.Anchor
			if err := rows.Scan(&kind, &title, &a.Doc, &a.ID); err != nil {
				return err
			}

			target := &idx.AllTitles
			if kind == entryKind {
				target = &idx.IndexEntries
			}
			if *target == nil {
				*target = make(map[string][]sphinxdex.Anchor)
			}
			(*target)[title] = append((*target)[title], a)
			return nil
		})
}

func (r *indexReader) envVersion(idx *sphinxdex.Index) {
	r.each("SELECT name, version FROM envversion WHERE project_id = ?",
		func(rows *sql.Rows) error {
			var name string
			var version int
			if err := rows.Scan(&name, &version); err != nil {
				return err
			}
			if idx.EnvVersion == nil {
				idx.EnvVersion = make(map[string]int)
			}
			idx.EnvVersion[name] = version
			return nil
		})
}

// FindObjects retrieves objects matching the filter across projects, in
// project then index order.
func (s *IndexService) FindObjects(ctx context.Context, filter sphinxdex.ObjectFilter) ([]*sphinxdex.ObjectMatch, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT o.project_id, o.prefix, o.name, o.doc, o.type, o.prio, o.anchor,
			COALESCE(t.domain, ''), COALESCE(t.name, ''), COALESCE(t.label, ''), COALESCE(t.role, ''),
			COALESCE(d.docname, ''), COALESCE(d.filename, ''), COALESCE(d.title, '')
		FROM objects o
		LEFT JOIN objtypes t ON t.project_id = o.project_id AND t.type_index = o.type
		LEFT JOIN documents d ON d.project_id = o.project_id AND d.position = o.doc
		WHERE 1=1`)

	if filter.ProjectID != nil {
		query.WriteString(" AND o.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Name != nil {
		query.WriteString(" AND instr(lower(CASE WHEN o.prefix = '' THEN o.name ELSE o.prefix || '.' || o.name END), ?) > 0")
		args = append(args, strings.ToLower(*filter.Name))
	}
	if filter.Role != nil {
		query.WriteString(" AND t.role = ?")
		args = append(args, *filter.Role)
	}

	query.WriteString(" ORDER BY o.project_id, o.seq")
	appendLimit(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*sphinxdex.ObjectMatch
	for rows.Next() {
		var m sphinxdex.ObjectMatch
		if err := rows.Scan(&m.ProjectID, &m.Object.Prefix, &m.Object.Name, &m.Object.Doc, &m.Object.Type,
			&m.Object.Prio, &m.Object.Anchor, &m.Type.Domain, &m.Type.Name, &m.Type.Label, &m.Type.Role,
			&m.Doc.DocName, &m.Doc.Filename, &m.Doc.Title); err != nil {
			return nil, err
		}
		m.Doc.Index = m.Object.Doc
		matches = append(matches, &m)
	}

	return matches, rows.Err()
}

// FindTermDocs returns the documents containing an exact term. The stored
// Bloom filter answers most misses without touching the terms table.
func (s *IndexService) FindTermDocs(ctx context.Context, projectID, term string) ([]sphinxdex.DocRef, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT term_filter FROM indexes WHERE project_id = ?", projectID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, sphinxdex.Errorf(sphinxdex.ENOTFOUND, "index not found")
	}
	if err != nil {
		return nil, err
	}

	filter, err := bloom.Decode(data)
	if err != nil {
		return nil, err
	}
	if !filter.Test(term) {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT d.position, d.docname, d.filename, d.title
		FROM terms t
		JOIN documents d ON d.project_id = t.project_id AND d.position = t.doc
		WHERE t.project_id = ? AND t.term = ?
		ORDER BY d.position
	`, projectID, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []sphinxdex.DocRef
	for rows.Next() {
		var ref sphinxdex.DocRef
		if err := rows.Scan(&ref.Index, &ref.DocName, &ref.Filename, &ref.Title); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

// DeleteIndex removes the index of a project.
func (s *IndexService) DeleteIndex(ctx context.Context, projectID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM indexes WHERE project_id = ?", projectID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sphinxdex.Errorf(sphinxdex.ENOTFOUND, "index not found")
	}

	return nil
}
