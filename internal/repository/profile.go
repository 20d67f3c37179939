package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/devconnector/devconnector-go/internal/model"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
)

const profileSelect = `SELECT p.id, p.user_id, u.name, u.avatar, p.company, p.website, p.location,
		p.status, p.skills, p.bio, p.github_username, p.social, p.created_at
	FROM profiles p JOIN users u ON u.id = p.user_id`

// ProfileRepository handles profile persistence, including the experience and
// education entries embedded in a profile.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves the profile owned by userID with its entries, newest first.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := scanProfile(r.db.QueryRowContext(ctx, profileSelect+` WHERE p.user_id = ?`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if err := r.loadEntries(ctx, []*model.Profile{profile}); err != nil {
		return nil, err
	}
	return profile, nil
}

// List retrieves all profiles.
func (r *ProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, profileSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadEntries(ctx, ptrs); err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, len(ptrs))
	for i, p := range ptrs {
		profiles[i] = *p
	}
	return profiles, nil
}

// Upsert inserts the profile or, when the owner already has one, overwrites its
// scalar fields. Experience and education entries are not touched.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	social, err := json.Marshal(p.Social)
	if err != nil {
		return fmt.Errorf("encode social: %w", err)
	}

	query := `
		INSERT INTO profiles (id, user_id, company, website, location, status, skills, bio, github_username, social, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			company         = VALUES(company),
			website         = VALUES(website),
			location        = VALUES(location),
			status          = VALUES(status),
			skills          = VALUES(skills),
			bio             = VALUES(bio),
			github_username = VALUES(github_username),
			social          = VALUES(social)`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.User.ID, p.Company, p.Website, p.Location, p.Status,
		string(skills), p.Bio, p.GitHubUsername, string(social), p.Date,
	)
	return err
}

// AddExperience attaches an experience entry to the profile.
func (r *ProfileRepository) AddExperience(ctx context.Context, profileID string, e *model.Experience) error {
	query := `INSERT INTO profile_experience (id, profile_id, title, company, location, from_date, to_date, is_current, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, profileID, e.Title, e.Company, e.Location, e.From, nullTime(e.To), e.Current, e.Description,
	)
	return err
}

// ExperienceOwner returns the id of the user whose profile holds the entry.
func (r *ProfileRepository) ExperienceOwner(ctx context.Context, id string) (string, error) {
	query := `SELECT p.user_id FROM profile_experience e JOIN profiles p ON p.id = e.profile_id WHERE e.id = ?`
	return r.owner(ctx, query, id, ErrExperienceNotFound)
}

// DeleteExperience removes exactly the entry with the given id.
func (r *ProfileRepository) DeleteExperience(ctx context.Context, id string) error {
	return r.deleteEntry(ctx, `DELETE FROM profile_experience WHERE id = ?`, id, ErrExperienceNotFound)
}

// AddEducation attaches an education entry to the profile.
func (r *ProfileRepository) AddEducation(ctx context.Context, profileID string, e *model.Education) error {
	query := `INSERT INTO profile_education (id, profile_id, school, degree, field_of_study, from_date, to_date, is_current, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, profileID, e.School, e.Degree, e.FieldOfStudy, e.From, nullTime(e.To), e.Current, e.Description,
	)
	return err
}

// EducationOwner returns the id of the user whose profile holds the entry.
func (r *ProfileRepository) EducationOwner(ctx context.Context, id string) (string, error) {
	query := `SELECT p.user_id FROM profile_education e JOIN profiles p ON p.id = e.profile_id WHERE e.id = ?`
	return r.owner(ctx, query, id, ErrEducationNotFound)
}

// DeleteEducation removes exactly the entry with the given id.
func (r *ProfileRepository) DeleteEducation(ctx context.Context, id string) error {
	return r.deleteEntry(ctx, `DELETE FROM profile_education WHERE id = ?`, id, ErrEducationNotFound)
}

func (r *ProfileRepository) owner(ctx context.Context, query, id string, notFound error) (string, error) {
	var userID string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", notFound
		}
		return "", err
	}
	return userID, nil
}

func (r *ProfileRepository) deleteEntry(ctx context.Context, query, id string, notFound error) error {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

// loadEntries fills Experience and Education for the given profiles.
func (r *ProfileRepository) loadEntries(ctx context.Context, profiles []*model.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	byID := make(map[string]*model.Profile, len(profiles))
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		byID[p.ID] = p
		ids[i] = p.ID
	}
	in, args := placeholders(ids)

	rows, err := r.db.QueryContext(ctx, `SELECT profile_id, id, title, company, location, from_date, to_date, is_current, description
		FROM profile_experience WHERE profile_id IN (`+in+`) ORDER BY seq DESC`, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			profileID string
			e         model.Experience
			to        sql.NullTime
		)
		if err := rows.Scan(&profileID, &e.ID, &e.Title, &e.Company, &e.Location, &e.From, &to, &e.Current, &e.Description); err != nil {
			rows.Close()
			return err
		}
		e.To = timePtr(to)
		if p := byID[profileID]; p != nil {
			p.Experience = append(p.Experience, e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT profile_id, id, school, degree, field_of_study, from_date, to_date, is_current, description
		FROM profile_education WHERE profile_id IN (`+in+`) ORDER BY seq DESC`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			profileID string
			e         model.Education
			to        sql.NullTime
		)
		if err := rows.Scan(&profileID, &e.ID, &e.School, &e.Degree, &e.FieldOfStudy, &e.From, &to, &e.Current, &e.Description); err != nil {
			return err
		}
		e.To = timePtr(to)
		if p := byID[profileID]; p != nil {
			p.Education = append(p.Education, e)
		}
	}
	return rows.Err()
}

func scanProfile(row scanner) (*model.Profile, error) {
	var (
		p      model.Profile
		skills []byte
		social []byte
	)
	err := row.Scan(
		&p.ID, &p.User.ID, &p.User.Name, &p.User.Avatar, &p.Company, &p.Website, &p.Location,
		&p.Status, &skills, &p.Bio, &p.GitHubUsername, &social, &p.Date,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal(social, &p.Social); err != nil {
		return nil, fmt.Errorf("decode social: %w", err)
	}
	p.Experience = []model.Experience{}
	p.Education = []model.Education{}
	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
