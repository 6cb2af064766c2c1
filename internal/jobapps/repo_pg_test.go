package jobapps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO job_applications").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	repo := &PGRepo{DB: db}
	app := Application{ID: "a1", JobID: "j1", CandidateID: "c1", CandidateName: "Ada", CandidateEmail: "ada@example.com", Status: StatusPending, CreatedAt: time.Now()}
	if err := repo.Create(context.Background(), app); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetScansJoinedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	columns := []string{
		"id", "job_id", "candidate_id", "candidate_name", "candidate_email",
		"resume_path", "cover_letter", "relevant_experience", "overall_experience",
		"current_location", "preferred_location", "current_ctc", "expected_ctc",
		"current_company", "notice_period", "status", "ai_score", "ai_explanation",
		"screening_status", "created_at", "title", "company_name",
	}
	rows := sqlmock.NewRows(columns).AddRow(
		"a1", "j1", "c1", "Ada", "ada@example.com",
		"resumes/x.pdf", nil, nil, "5 years",
		nil, nil, nil, nil,
		nil, "30 days", StatusPending, 81.0, "solid",
		ScreeningCompleted, time.Now(), "Go Engineer", "Acme",
	)
	mock.ExpectQuery("FROM job_applications a").WithArgs("a1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	app, err := repo.Get(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if app.AIScore == nil || *app.AIScore != 81 {
		t.Fatalf("unexpected score %v", app.AIScore)
	}
	if app.JobTitle != "Go Engineer" || app.OverallExperience != "5 years" || app.CoverLetter != "" {
		t.Fatalf("unexpected application %+v", app)
	}
}

func TestPGRepoSetScreeningNullScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE job_applications").
		WithArgs("a1", ScreeningSkipped, nil, "Unsupported resume format.").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.SetScreening(context.Background(), "a1", Screening{Status: ScreeningSkipped, Explanation: "Unsupported resume format."}); err != nil {
		t.Fatalf("SetScreening: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
