package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconnector/devconnector-go/internal/model"
)

var profileColumns = []string{
	"id", "user_id", "name", "avatar", "company", "website", "location",
	"status", "skills", "bio", "github_username", "social", "created_at",
}

func TestProfileGetByUserID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = ?").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"p1", "u1", "Ada", "avatar", "Acme", "", "London",
			"Developer", `["go","sql"]`, "", "ada", `{"twitter":"https://twitter.com/ada"}`, created,
		))
	mock.ExpectQuery("FROM profile_experience WHERE profile_id IN \\(\\?\\) ORDER BY seq DESC").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"profile_id", "id", "title", "company", "location", "from_date", "to_date", "is_current", "description"}).
			AddRow("p1", "e2", "Lead", "Acme", "", from, nil, true, "").
			AddRow("p1", "e1", "Dev", "Initech", "", from, to, false, ""))
	mock.ExpectQuery("FROM profile_education WHERE profile_id IN \\(\\?\\) ORDER BY seq DESC").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"profile_id", "id", "school", "degree", "field_of_study", "from_date", "to_date", "is_current", "description"}))

	p, err := repo.GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, model.UserSummary{ID: "u1", Name: "Ada", Avatar: "avatar"}, p.User)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	assert.Equal(t, "https://twitter.com/ada", p.Social.Twitter)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "e2", p.Experience[0].ID)
	assert.Nil(t, p.Experience[0].To)
	require.NotNil(t, p.Experience[1].To)
	assert.Equal(t, to, *p.Experience[1].To)
	assert.Empty(t, p.Education)
	assert.NotNil(t, p.Education)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileGetByUserIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery("FROM profiles p").WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err := repo.GetByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileListEmptySkipsEntryQueries(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery("FROM profiles p JOIN users u ON u.id = p.user_id ORDER BY p.created_at DESC").
		WillReturnRows(sqlmock.NewRows(profileColumns))

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileUpsertEncodesJSONColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO profiles (.+) ON DUPLICATE KEY UPDATE").
		WithArgs("p1", "u1", "", "", "", "Developer", `["go"]`, "", "", `{"youtube":"yt"}`, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &model.Profile{
		ID:     "p1",
		User:   model.UserSummary{ID: "u1"},
		Status: "Developer",
		Skills: []string{"go"},
		Social: model.SocialLinks{YouTube: "yt"},
		Date:   now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileExperienceOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery("SELECT p.user_id FROM profile_experience e JOIN profiles p").
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
	mock.ExpectQuery("SELECT p.user_id FROM profile_experience e JOIN profiles p").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	owner, err := repo.ExperienceOwner(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	_, err = repo.ExperienceOwner(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrExperienceNotFound)
}

func TestProfileDeleteEducation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec("DELETE FROM profile_education WHERE id = ?").
		WithArgs("ed1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM profile_education WHERE id = ?").
		WithArgs("ed1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteEducation(context.Background(), "ed1"))
	assert.ErrorIs(t, repo.DeleteEducation(context.Background(), "ed1"), ErrEducationNotFound)
}

func TestProfileAddExperienceNullableTo(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO profile_experience").
		WithArgs("e1", "p1", "Dev", "Acme", "", from, nil, true, "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.AddExperience(context.Background(), "p1", &model.Experience{
		ID: "e1", Title: "Dev", Company: "Acme", From: from, Current: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
