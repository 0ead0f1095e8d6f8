package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/utils"
)

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

type entry interface {
	EntryID() primitive.ObjectID
}

func prependEntry[T any](list []T, e T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, e)
	return append(out, list...)
}

// removeEntryByID drops the first entry whose id matches and keeps the order
// of the rest. No match returns list unchanged.
func removeEntryByID[T entry](list []T, id string) ([]T, bool) {
	for i, e := range list {
		if e.EntryID().Hex() == id {
			out := make([]T, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01"}

func parseDate(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// entryDates validates required fields of in and parses from/to, collecting
// every violation.
func entryDates(in any, from, to string) (time.Time, *time.Time, []utils.FieldError) {
	fields := utils.ValidateStruct(in)

	var (
		fromT time.Time
		toT   *time.Time
	)
	if from != "" {
		t, ok := parseDate(from)
		if !ok {
			fields = append(fields, utils.FieldError{Field: "from", Message: "from must be a date"})
		}
		fromT = t
	}
	if to != "" {
		t, ok := parseDate(to)
		if !ok {
			fields = append(fields, utils.FieldError{Field: "to", Message: "to must be a date"})
		} else {
			toT = &t
		}
	}
	return fromT, toT, fields
}

func (s *profileService) AddExperience(ctx context.Context, id auth.Identity, in ExperienceInput) (*models.Profile, error) {
	const op = "ProfileService.AddExperience"

	from, to, fields := entryDates(in, in.From, in.To)
	if len(fields) > 0 {
		return nil, utils.Invalid(op, fields)
	}
	exp := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	return s.editEntries(ctx, op, id, func(p *models.Profile) {
		p.Experience = prependEntry(p.Experience, exp)
	})
}

func (s *profileService) RemoveExperience(ctx context.Context, id auth.Identity, entryID string) (*models.Profile, error) {
	const op = "ProfileService.RemoveExperience"

	return s.editEntries(ctx, op, id, func(p *models.Profile) {
		p.Experience, _ = removeEntryByID(p.Experience, entryID)
	})
}

func (s *profileService) AddEducation(ctx context.Context, id auth.Identity, in EducationInput) (*models.Profile, error) {
	const op = "ProfileService.AddEducation"

	from, to, fields := entryDates(in, in.From, in.To)
	if len(fields) > 0 {
		return nil, utils.Invalid(op, fields)
	}
	edu := models.Education{
		ID:           primitive.NewObjectID(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	return s.editEntries(ctx, op, id, func(p *models.Profile) {
		p.Education = prependEntry(p.Education, edu)
	})
}

func (s *profileService) RemoveEducation(ctx context.Context, id auth.Identity, entryID string) (*models.Profile, error) {
	const op = "ProfileService.RemoveEducation"

	return s.editEntries(ctx, op, id, func(p *models.Profile) {
		p.Education, _ = removeEntryByID(p.Education, entryID)
	})
}

// editEntries loads the caller's profile, applies mutate and writes the
// sub-collections back. The write happens even when mutate changed nothing.
func (s *profileService) editEntries(ctx context.Context, op string, id auth.Identity, mutate func(p *models.Profile)) (*models.Profile, error) {
	p, err := s.profiles.FindByOwner(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "User profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}

	mutate(p)

	if err := s.profiles.SaveEntries(ctx, p); err != nil {
		return nil, writeError(op, err)
	}
	s.invalidate(ctx, id.UserID)
	return p, nil
}
