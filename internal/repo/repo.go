package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mockline/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// ErrConflict reports a unique constraint violation, such as a reused mock id.
var ErrConflict = errors.New("conflict")

type scanner interface {
	Scan(dest ...any) error
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r Repo) q(tx *sql.Tx) queryer {
	if tx != nil {
		return tx
	}
	return r.DB
}

const mockColumns = `id,mock_id,owner_id,endpoint,method,status_code,delay_ms,chaos_enabled,chaos_level,template,created_at,updated_at`

func scanMock(row scanner) (domain.MockDefinition, error) {
	var m domain.MockDefinition
	var chaos int
	err := row.Scan(&m.ID, &m.MockID, &m.OwnerID, &m.Endpoint, &m.Method, &m.StatusCode, &m.DelayMs, &chaos, &m.ChaosLevel, &m.Template, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	m.ChaosEnabled = chaos != 0
	return m, err
}

func (r Repo) InsertMock(ctx context.Context, m domain.MockDefinition) error {
	return r.InsertMockTx(ctx, nil, m)
}

func (r Repo) InsertMockTx(ctx context.Context, tx *sql.Tx, m domain.MockDefinition) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO mocks(`+mockColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.MockID, m.OwnerID, m.Endpoint, m.Method, m.StatusCode, m.DelayMs, boolInt(m.ChaosEnabled), m.ChaosLevel, m.Template, m.CreatedAt, m.UpdatedAt)
	return mapConstraint(err)
}

// GetMock looks a mock up by its storage id.
func (r Repo) GetMock(ctx context.Context, id string) (domain.MockDefinition, error) {
	return r.GetMockTx(ctx, nil, id)
}

func (r Repo) GetMockTx(ctx context.Context, tx *sql.Tx, id string) (domain.MockDefinition, error) {
	return scanMock(r.q(tx).QueryRowContext(ctx, `SELECT `+mockColumns+` FROM mocks WHERE id=?`, id))
}

// GetMockByMockID looks a mock up by its public serving id.
func (r Repo) GetMockByMockID(ctx context.Context, mockID string) (domain.MockDefinition, error) {
	return scanMock(r.DB.QueryRowContext(ctx, `SELECT `+mockColumns+` FROM mocks WHERE mock_id=?`, mockID))
}

// ListMocksByOwner returns an owner's mocks, newest first.
func (r Repo) ListMocksByOwner(ctx context.Context, ownerID string) ([]domain.MockDefinition, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+mockColumns+` FROM mocks WHERE owner_id=? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.MockDefinition{}
	for rows.Next() {
		m, err := scanMock(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateMockTx overwrites the mutable columns of a mock. id, mock_id,
// owner_id and created_at never change.
func (r Repo) UpdateMockTx(ctx context.Context, tx *sql.Tx, m domain.MockDefinition) error {
	res, err := r.q(tx).ExecContext(ctx, `UPDATE mocks SET endpoint=?,method=?,status_code=?,delay_ms=?,chaos_enabled=?,chaos_level=?,template=?,updated_at=? WHERE id=?`,
		m.Endpoint, m.Method, m.StatusCode, m.DelayMs, boolInt(m.ChaosEnabled), m.ChaosLevel, m.Template, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteMockTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := r.q(tx).ExecContext(ctx, `DELETE FROM mocks WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountMocks returns the number of stored mocks across all owners.
func (r Repo) CountMocks(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM mocks`).Scan(&n)
	return n, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
