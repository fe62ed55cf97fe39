package incidents

import (
	"context"
	"fmt"

	"github.com/Artexxx/pair-overlap/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	pool PgxPoolIface
}

func NewRepository(pool PgxPoolIface) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the journal table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS upload_incidents (
	id         BIGSERIAL PRIMARY KEY,
	upload_id  UUID        NOT NULL,
	file_name  TEXT        NOT NULL DEFAULT '',
	message    TEXT        NOT NULL,
	detail     TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}

func (r *Repository) Insert(ctx context.Context, incident dto.Incident) (int64, error) {
	query := `
INSERT INTO upload_incidents
	(upload_id, file_name, message, detail, created_at)
VALUES
	($1::uuid, $2, $3, $4, NOW())
RETURNING id;
`
	var id int64
	err := r.pool.QueryRow(ctx, query, incident.UploadID, incident.FileName, incident.Message, incident.Detail).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return id, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]dto.Incident, error) {
	query := `
SELECT id, upload_id, file_name, message, detail, to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SSOF')
FROM upload_incidents
ORDER BY id DESC
LIMIT $1 OFFSET $2
`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	out := make([]dto.Incident, 0)
	for rows.Next() {
		var incident dto.Incident

		err = rows.Scan(&incident.ID, &incident.UploadID, &incident.FileName, &incident.Message, &incident.Detail, &incident.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		out = append(out, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

func (r *Repository) ResetAll(ctx context.Context) error {
	query := `TRUNCATE upload_incidents RESTART IDENTITY;`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}
