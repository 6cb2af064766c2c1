package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, title, company_name, description, experience_level, location, responsibilities, skills, status, created_by, created_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO job_postings (
    id,
    title,
    company_name,
    description,
    experience_level,
    location,
    responsibilities,
    skills,
    status,
    created_by,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		job.ID,
		job.Title,
		job.CompanyName,
		job.Description,
		nullableString(job.ExperienceLevel),
		nullableString(job.Location),
		nullableString(job.Responsibilities),
		nullableString(job.Skills),
		job.Status,
		nullableString(job.CreatedBy),
		job.CreatedAt,
	)
	return err
}

// List returns postings newest first, filtered by status when status is set.
func (r *PGRepo) List(ctx context.Context, status string) ([]Job, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.DB.QueryContext(ctx, `SELECT `+selectColumns+` FROM job_postings ORDER BY created_at DESC`)
	} else {
		rows, err = r.DB.QueryContext(ctx, `SELECT `+selectColumns+` FROM job_postings WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, id string) (Job, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM job_postings WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE job_postings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete removes a posting. Its applications go with it through ON DELETE CASCADE.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) Counts(ctx context.Context) (Counts, error) {
	const query = `
SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
FROM job_postings`
	var counts Counts
	if err := r.DB.QueryRowContext(ctx, query).Scan(&counts.Total, &counts.Active); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var (
		job              Job
		experienceLevel  sql.NullString
		location         sql.NullString
		responsibilities sql.NullString
		skills           sql.NullString
		createdBy        sql.NullString
	)
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.CompanyName,
		&job.Description,
		&experienceLevel,
		&location,
		&responsibilities,
		&skills,
		&job.Status,
		&createdBy,
		&job.CreatedAt,
	); err != nil {
		return Job{}, err
	}
	job.ExperienceLevel = experienceLevel.String
	job.Location = location.String
	job.Responsibilities = responsibilities.String
	job.Skills = skills.String
	job.CreatedBy = createdBy.String
	job.CreatedAt = job.CreatedAt.UTC()
	return job, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
