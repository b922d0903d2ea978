package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func principalTable(kind model.Kind) string {
	if kind == model.KindAdmin {
		return "admins"
	}
	return "users"
}

func (s *Store) CreatePrincipal(ctx context.Context, p model.Principal) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
    INSERT INTO %s (id, first_name, last_name, email, password_hash, created_at)
    VALUES ($1, $2, $3, $4, $5, $6)
  `, principalTable(p.Kind)), p.ID, p.FirstName, p.LastName, p.Email, p.PasswordHash, p.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetPrincipalByEmail(ctx context.Context, kind model.Kind, email string) (model.Principal, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
    SELECT id, first_name, last_name, email, password_hash, created_at
    FROM %s WHERE email = $1
  `, principalTable(kind)), email)
	return scanPrincipal(row, kind)
}

func (s *Store) GetPrincipalByID(ctx context.Context, kind model.Kind, id string) (model.Principal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Principal{}, repository.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
    SELECT id, first_name, last_name, email, password_hash, created_at
    FROM %s WHERE id = $1
  `, principalTable(kind)), id)
	return scanPrincipal(row, kind)
}

func (s *Store) ListPrincipals(ctx context.Context, kind model.Kind) ([]model.Principal, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
    SELECT id, first_name, last_name, email, password_hash, created_at
    FROM %s ORDER BY created_at ASC
  `, principalTable(kind)))
	if err != nil {
		return nil, err
	}
	return collectPrincipals(rows, kind)
}

func (s *Store) FindPrincipals(ctx context.Context, kind model.Kind, ids []string) (map[string]model.Principal, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range repository.UniqueIDs(ids) {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	out := make(map[string]model.Principal, len(valid))
	if len(valid) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
    SELECT id, first_name, last_name, email, password_hash, created_at
    FROM %s WHERE id::text = ANY($1)
  `, principalTable(kind)), valid)
	if err != nil {
		return nil, err
	}
	list, err := collectPrincipals(rows, kind)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a model.Assignment) error {
	_, err := s.pool.Exec(ctx, `
    INSERT INTO assignments (id, user_id, admin_id, task, status, created_at)
    VALUES ($1, $2, $3, $4, $5, $6)
  `, a.ID, a.UserID, a.AdminID, a.Task, string(a.Status), a.CreatedAt)
	return err
}

func (s *Store) GetAssignment(ctx context.Context, id string) (model.Assignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Assignment{}, repository.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
    SELECT id, user_id, admin_id, task, status, created_at
    FROM assignments WHERE id = $1
  `, id)
	return scanAssignment(row)
}

func (s *Store) ListAssignments(ctx context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	query := `
    SELECT id, user_id, admin_id, task, status, created_at
    FROM assignments
    WHERE ($1 = '' OR admin_id::text = $1)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC, id DESC
  `
	status := ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	rows, err := s.pool.Query(ctx, query, filter.AdminID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) TransitionAssignment(ctx context.Context, id string, from, to model.Status) (model.Assignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Assignment{}, repository.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
    UPDATE assignments SET status = $3
    WHERE id = $1 AND status = $2
    RETURNING id, user_id, admin_id, task, status, created_at
  `, id, string(from), string(to))
	a, err := scanAssignment(row)
	if !errors.Is(err, repository.ErrNotFound) {
		return a, err
	}
	current, getErr := s.GetAssignment(ctx, id)
	if getErr != nil {
		return model.Assignment{}, getErr
	}
	return current, repository.ErrStatusConflict
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func scanPrincipal(row pgx.Row, kind model.Kind) (model.Principal, error) {
	p := model.Principal{Kind: kind}
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Principal{}, repository.ErrNotFound
	}
	return p, err
}

func collectPrincipals(rows pgx.Rows, kind model.Kind) ([]model.Principal, error) {
	defer rows.Close()
	var out []model.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanAssignment(row pgx.Row) (model.Assignment, error) {
	var a model.Assignment
	var status string
	err := row.Scan(&a.ID, &a.UserID, &a.AdminID, &a.Task, &status, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Assignment{}, repository.ErrNotFound
	}
	a.Status = model.Status(status)
	return a, err
}
