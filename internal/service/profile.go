package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/devconnector/devconnector-go/internal/github"
	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/repository"
)

// ProfileService handles profiles, their experience and education entries,
// and account deletion.
type ProfileService struct {
	profiles ProfileStore
	users    UserStore
	repos    RepoLister
	now      func() time.Time
}

// NewProfileService creates a new ProfileService. repos may be nil, in which
// case GitHub lookups always report not found.
func NewProfileService(profiles ProfileStore, users UserStore, repos RepoLister) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		repos:    repos,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the profile owned by userID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns every profile.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return profiles, nil
}

// Upsert creates the caller's profile or patches the existing one. Fields
// left nil in req keep their stored value.
func (s *ProfileService) Upsert(ctx context.Context, userID string, req model.ProfileRequest) (*model.Profile, error) {
	var v validator
	v.required(deref(req.Status), "status", "Status is required")
	v.required(deref(req.Skills), "skills", "Skills is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p = &model.Profile{
			ID:   uuid.NewString(),
			User: model.UserSummary{ID: userID},
			Date: s.now(),
		}
	case err != nil:
		return nil, err
	}

	merge(&p.Company, req.Company)
	merge(&p.Website, req.Website)
	merge(&p.Location, req.Location)
	merge(&p.Bio, req.Bio)
	merge(&p.Status, req.Status)
	merge(&p.GitHubUsername, req.GitHubUsername)
	if req.Skills != nil {
		p.Skills = splitSkills(*req.Skills)
	}
	merge(&p.Social.YouTube, req.YouTube)
	merge(&p.Social.Twitter, req.Twitter)
	merge(&p.Social.Facebook, req.Facebook)
	merge(&p.Social.LinkedIn, req.LinkedIn)
	merge(&p.Social.Instagram, req.Instagram)

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// DeleteAccount removes the user along with their profile, posts, likes and comments.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.users.DeleteAccount(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// AddExperience puts a new experience entry at the front of the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, req model.ExperienceRequest) (*model.Profile, error) {
	var v validator
	v.required(req.Title, "title", "Title is required")
	v.required(req.Company, "company", "Company is required")
	from, to := v.dateRange(req.From, req.To)
	if err := v.err(); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	exp := &model.Experience{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	}
	if err := s.profiles.AddExperience(ctx, p.ID, exp); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveExperience deletes one experience entry owned by the caller.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*model.Profile, error) {
	owner, err := s.profiles.ExperienceOwner(ctx, expID)
	if err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	if owner != userID {
		return nil, ErrNotAuthorized
	}

	if err := s.profiles.DeleteExperience(ctx, expID); err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// AddEducation puts a new education entry at the front of the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, req model.EducationRequest) (*model.Profile, error) {
	var v validator
	v.required(req.School, "school", "School is required")
	v.required(req.Degree, "degree", "Degree is required")
	v.required(req.FieldOfStudy, "fieldofstudy", "Field of study is required")
	from, to := v.dateRange(req.From, req.To)
	if err := v.err(); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	edu := &model.Education{
		ID:           uuid.NewString(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	}
	if err := s.profiles.AddEducation(ctx, p.ID, edu); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveEducation deletes one education entry owned by the caller.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*model.Profile, error) {
	owner, err := s.profiles.EducationOwner(ctx, eduID)
	if err != nil {
		if errors.Is(err, repository.ErrEducationNotFound) {
			return nil, ErrEducationNotFound
		}
		return nil, err
	}
	if owner != userID {
		return nil, ErrNotAuthorized
	}

	if err := s.profiles.DeleteEducation(ctx, eduID); err != nil {
		if errors.Is(err, repository.ErrEducationNotFound) {
			return nil, ErrEducationNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

// GitHubRepos returns the public repositories of a GitHub user as raw JSON.
func (s *ProfileService) GitHubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	if s.repos == nil {
		return nil, ErrGitHubNotFound
	}
	repos, err := s.repos.Repos(ctx, username)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return nil, ErrGitHubNotFound
		}
		return nil, err
	}
	return repos, nil
}

func merge(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
