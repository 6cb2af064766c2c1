package candidates

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (
    id,
    candidate_name,
    candidate_email,
    job_role,
    score,
    match_details,
    status,
    resume_path,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		app.ID,
		app.CandidateName,
		nullableString(app.CandidateEmail),
		app.JobRole,
		app.Score,
		app.MatchDetails,
		app.Status,
		nullableString(app.ResumePath),
		app.CreatedAt,
	)
	return err
}

// List returns applications newest first.
func (r *PGRepo) List(ctx context.Context) ([]Application, error) {
	const query = `
SELECT id, candidate_name, candidate_email, job_role, score, match_details, status, resume_path, created_at
FROM applications
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var (
			app        Application
			email      sql.NullString
			resumePath sql.NullString
			createdAt  time.Time
		)
		if err := rows.Scan(
			&app.ID,
			&app.CandidateName,
			&email,
			&app.JobRole,
			&app.Score,
			&app.MatchDetails,
			&app.Status,
			&resumePath,
			&createdAt,
		); err != nil {
			return nil, err
		}
		app.CandidateEmail = email.String
		app.ResumePath = resumePath.String
		app.CreatedAt = createdAt.UTC()
		out = append(out, app)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `
SELECT
    COUNT(*),
    COALESCE(AVG(score), 0),
    COUNT(*) FILTER (WHERE status = 'shortlisted'),
    COUNT(*) FILTER (WHERE status = 'rejected'),
    COUNT(*) FILTER (WHERE status = 'pending')
FROM applications`

	var (
		stats Stats
		avg   float64
	)
	if err := r.DB.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&avg,
		&stats.Shortlisted,
		&stats.Rejected,
		&stats.Pending,
	); err != nil {
		return Stats{}, err
	}
	stats.AvgScore = int(avg)
	return stats, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
