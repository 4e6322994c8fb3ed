package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/sphinxdex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sphinxdex.ProjectService = (*ProjectService)(nil)

const projectColumns = "id, name, source_url, index_url, base_url, file_suffix, index_hash, created_at, updated_at"

// ProjectService implements sphinxdex.ProjectService using SQLite.
type ProjectService struct {
	db *DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProject creates a new project.
func (s *ProjectService) CreateProject(ctx context.Context, project *sphinxdex.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	project.ID = uuid.New().String()
	created := now()
	project.CreatedAt = created
	project.UpdatedAt = created

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, project.SourceURL, project.IndexURL, project.BaseURL,
		project.FileSuffix, project.IndexHash,
		formatTime(project.CreatedAt), formatTime(project.UpdatedAt))

	if isUniqueViolation(err) {
		return sphinxdex.Errorf(sphinxdex.ECONFLICT, "project %q already exists", project.Name)
	}
	return err
}

// FindProjectByID retrieves a project by ID.
func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*sphinxdex.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)

	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, sphinxdex.Errorf(sphinxdex.ENOTFOUND, "project not found")
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// FindProjects retrieves projects matching the filter, ordered by name.
func (s *ProjectService) FindProjects(ctx context.Context, filter sphinxdex.ProjectFilter) ([]*sphinxdex.Project, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + projectColumns + " FROM projects WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name ASC")
	appendLimit(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*sphinxdex.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProject updates an existing project.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd sphinxdex.ProjectUpdate) (*sphinxdex.Project, error) {
	project, err := s.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		project.Name = *upd.Name
	}
	if upd.SourceURL != nil {
		project.SourceURL = *upd.SourceURL
	}
	if upd.IndexURL != nil {
		project.IndexURL = *upd.IndexURL
	}
	if upd.BaseURL != nil {
		project.BaseURL = *upd.BaseURL
	}
	if upd.FileSuffix != nil {
		project.FileSuffix = *upd.FileSuffix
	}
	if upd.IndexHash != nil {
		project.IndexHash = *upd.IndexHash
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	project.UpdatedAt = now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, source_url = ?, index_url = ?, base_url = ?, file_suffix = ?, index_hash = ?, updated_at = ?
		WHERE id = ?
	`, project.Name, project.SourceURL, project.IndexURL, project.BaseURL, project.FileSuffix,
		project.IndexHash, formatTime(project.UpdatedAt), id)

	if isUniqueViolation(err) {
		return nil, sphinxdex.Errorf(sphinxdex.ECONFLICT, "project %q already exists", project.Name)
	}
	if err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject permanently removes a project and its index.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sphinxdex.Errorf(sphinxdex.ENOTFOUND, "project not found")
	}

	return nil
}

func scanProject(row rowScanner) (*sphinxdex.Project, error) {
	var project sphinxdex.Project
	var createdAt, updatedAt string

	if err := row.Scan(&project.ID, &project.Name, &project.SourceURL, &project.IndexURL, &project.BaseURL,
		&project.FileSuffix, &project.IndexHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if project.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if project.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &project, nil
}
