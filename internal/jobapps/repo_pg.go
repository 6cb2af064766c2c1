package jobapps

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectApplication = `
SELECT
    a.id, a.job_id, a.candidate_id, a.candidate_name, a.candidate_email,
    a.resume_path, a.cover_letter, a.relevant_experience, a.overall_experience,
    a.current_location, a.preferred_location, a.current_ctc, a.expected_ctc,
    a.current_company, a.notice_period, a.status, a.ai_score, a.ai_explanation,
    a.screening_status, a.created_at, j.title, j.company_name
FROM job_applications a
JOIN job_postings j ON j.id = a.job_id`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO job_applications (
    id,
    job_id,
    candidate_id,
    candidate_name,
    candidate_email,
    resume_path,
    cover_letter,
    relevant_experience,
    overall_experience,
    current_location,
    preferred_location,
    current_ctc,
    expected_ctc,
    current_company,
    notice_period,
    status,
    screening_status,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		app.ID,
		app.JobID,
		app.CandidateID,
		app.CandidateName,
		app.CandidateEmail,
		nullableString(app.ResumePath),
		nullableString(app.CoverLetter),
		nullableString(app.RelevantExperience),
		nullableString(app.OverallExperience),
		nullableString(app.CurrentLocation),
		nullableString(app.PreferredLocation),
		nullableString(app.CurrentCTC),
		nullableString(app.ExpectedCTC),
		nullableString(app.CurrentCompany),
		nullableString(app.NoticePeriod),
		app.Status,
		nullableString(app.ScreeningStatus),
		app.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyApplied
	}
	return err
}

func (r *PGRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM job_applications WHERE job_id = $1 AND candidate_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, jobID, candidateID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns applications newest first, optionally limited to one posting.
func (r *PGRepo) List(ctx context.Context, jobID string) ([]Application, error) {
	if jobID == "" {
		return r.query(ctx, selectApplication+`
ORDER BY a.created_at DESC`)
	}
	return r.query(ctx, selectApplication+`
WHERE a.job_id = $1
ORDER BY a.created_at DESC`, jobID)
}

func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	return r.query(ctx, selectApplication+`
WHERE a.candidate_id = $1
ORDER BY a.created_at DESC`, candidateID)
}

func (r *PGRepo) Get(ctx context.Context, id string) (Application, error) {
	apps, err := r.query(ctx, selectApplication+`
WHERE a.id = $1`, id)
	if err != nil {
		return Application{}, err
	}
	if len(apps) == 0 {
		return Application{}, ErrNotFound
	}
	return apps[0], nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE job_applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) SetScreening(ctx context.Context, id string, s Screening) error {
	const query = `
UPDATE job_applications
SET screening_status = $2, ai_score = $3, ai_explanation = $4
WHERE id = $1`

	var score sql.NullFloat64
	if s.Score != nil {
		score = sql.NullFloat64{Float64: *s.Score, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx, query, id, s.Status, score, nullableString(s.Explanation))
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE status = 'pending'),
    COUNT(*) FILTER (WHERE status = 'reviewed'),
    COUNT(*) FILTER (WHERE status = 'shortlisted'),
    COUNT(*) FILTER (WHERE status = 'rejected'),
    COUNT(*) FILTER (WHERE status = 'hired')
FROM job_applications`

	var stats Stats
	if err := r.DB.QueryRowContext(ctx, query).Scan(
		&stats.TotalApplications,
		&stats.Pending,
		&stats.Reviewed,
		&stats.Shortlisted,
		&stats.Rejected,
		&stats.Hired,
	); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var (
			app                Application
			resumePath         sql.NullString
			coverLetter        sql.NullString
			relevantExperience sql.NullString
			overallExperience  sql.NullString
			currentLocation    sql.NullString
			preferredLocation  sql.NullString
			currentCTC         sql.NullString
			expectedCTC        sql.NullString
			currentCompany     sql.NullString
			noticePeriod       sql.NullString
			aiScore            sql.NullFloat64
			aiExplanation      sql.NullString
			screeningStatus    sql.NullString
		)
		if err := rows.Scan(
			&app.ID,
			&app.JobID,
			&app.CandidateID,
			&app.CandidateName,
			&app.CandidateEmail,
			&resumePath,
			&coverLetter,
			&relevantExperience,
			&overallExperience,
			&currentLocation,
			&preferredLocation,
			&currentCTC,
			&expectedCTC,
			&currentCompany,
			&noticePeriod,
			&app.Status,
			&aiScore,
			&aiExplanation,
			&screeningStatus,
			&app.CreatedAt,
			&app.JobTitle,
			&app.CompanyName,
		); err != nil {
			return nil, err
		}
		app.ResumePath = resumePath.String
		app.CoverLetter = coverLetter.String
		app.RelevantExperience = relevantExperience.String
		app.OverallExperience = overallExperience.String
		app.CurrentLocation = currentLocation.String
		app.PreferredLocation = preferredLocation.String
		app.CurrentCTC = currentCTC.String
		app.ExpectedCTC = expectedCTC.String
		app.CurrentCompany = currentCompany.String
		app.NoticePeriod = noticePeriod.String
		if aiScore.Valid {
			score := aiScore.Float64
			app.AIScore = &score
		}
		app.AIExplanation = aiExplanation.String
		app.ScreeningStatus = screeningStatus.String
		app.CreatedAt = app.CreatedAt.UTC()
		out = append(out, app)
	}
	return out, rows.Err()
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
