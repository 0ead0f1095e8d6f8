package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/cache"
	"github.com/yoockh/devconnect/internal/models"
	mongorepo "github.com/yoockh/devconnect/internal/repositories/mongo"
	"github.com/yoockh/devconnect/internal/utils"
)

const ProfileDeletedMessage = "User profile deleted successfully!"

type ProfileService interface {
	GetMe(ctx context.Context, id auth.Identity) (*models.Profile, error)
	Upsert(ctx context.Context, id auth.Identity, in UpsertProfileInput) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Delete(ctx context.Context, id auth.Identity) (string, error)

	AddExperience(ctx context.Context, id auth.Identity, in ExperienceInput) (*models.Profile, error)
	RemoveExperience(ctx context.Context, id auth.Identity, entryID string) (*models.Profile, error)
	AddEducation(ctx context.Context, id auth.Identity, in EducationInput) (*models.Profile, error)
	RemoveEducation(ctx context.Context, id auth.Identity, entryID string) (*models.Profile, error)
}

// UpsertProfileInput carries the raw request fields. An empty string means
// "not supplied" and leaves the stored value untouched.
type UpsertProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required"`

	YouTube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

type profileService struct {
	profiles mongorepo.ProfileRepository
	users    mongorepo.UserRepository
	cache    cache.Cache
	ttl      time.Duration
	log      *logrus.Logger

	// writes counts invalidations; a read only fills the cache when no write
	// landed while it was loading from the store.
	writes atomic.Uint64
}

func NewProfileService(profiles mongorepo.ProfileRepository, users mongorepo.UserRepository, c cache.Cache, ttl time.Duration, log *logrus.Logger) ProfileService {
	if c == nil {
		c = cache.Nop{}
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = logrus.New()
	}
	return &profileService{profiles: profiles, users: users, cache: c, ttl: ttl, log: log}
}

// ParseSkills splits a comma-separated list and trims each token.
// Empty tokens (ex: from "a,,b" or a trailing comma) are kept as-is.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// BuildProfileFields keeps only the fields the caller actually supplied.
func BuildProfileFields(in UpsertProfileInput) models.ProfileFields {
	opt := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	f := models.ProfileFields{
		Company:        opt(in.Company),
		Website:        opt(in.Website),
		Location:       opt(in.Location),
		Bio:            opt(in.Bio),
		Status:         opt(in.Status),
		GitHubUsername: opt(in.GitHubUsername),
		Social: models.Social{
			YouTube:   in.YouTube,
			Facebook:  in.Facebook,
			Twitter:   in.Twitter,
			LinkedIn:  in.LinkedIn,
			Instagram: in.Instagram,
		},
	}
	if in.Skills != "" {
		f.Skills = ParseSkills(in.Skills)
	}
	return f
}

func (s *profileService) GetMe(ctx context.Context, id auth.Identity) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	p, err := s.profiles.FindByOwner(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "User profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, id auth.Identity, in UpsertProfileInput) (*models.Profile, error) {
	const op = "ProfileService.Upsert"

	if fields := utils.ValidateStruct(in); fields != nil {
		return nil, utils.Invalid(op, fields)
	}
	set := BuildProfileFields(in)

	existing, err := s.profiles.FindByOwner(ctx, id.UserID)
	switch {
	case err == nil:
		if err := s.profiles.Update(ctx, id.UserID, existing.Version, set); err != nil {
			return nil, writeError(op, err)
		}
	case errors.Is(err, utils.ErrNotFound):
		p := &models.Profile{UserID: id.UserID}
		set.Apply(p)
		if err := s.profiles.Create(ctx, p); err != nil {
			return nil, writeError(op, err)
		}
	default:
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	s.invalidate(ctx, id.UserID)

	out, err := s.profiles.FindByOwner(ctx, id.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload profile", err)
	}
	return out, nil
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	const op = "ProfileService.List"

	var cached []models.Profile
	if s.cacheGet(ctx, cache.ProfilesKey(), &cached) {
		return cached, nil
	}

	gen := s.writes.Load()
	out, err := s.profiles.FindAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	s.cacheSet(ctx, gen, cache.ProfilesKey(), out)
	return out, nil
}

// GetByUserID answers NotFound both for a malformed id and for an unused one.
func (s *profileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetByUserID"

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "User profile not found", err)
	}

	key := cache.ProfileKey(oid.Hex())
	var cached models.Profile
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	gen := s.writes.Load()
	p, err := s.profiles.FindByOwner(ctx, oid)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "User profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	s.cacheSet(ctx, gen, key, p)
	return p, nil
}

// Delete removes the profile and then the owning account. Nothing matching
// is not an error.
func (s *profileService) Delete(ctx context.Context, id auth.Identity) (string, error) {
	const op = "ProfileService.Delete"

	if err := s.profiles.DeleteByOwner(ctx, id.UserID); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to delete profile", err)
	}
	s.invalidate(ctx, id.UserID)

	if err := s.users.DeleteByID(ctx, id.UserID); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to delete user", err)
	}
	// TODO: remove the user's posts once the posts service exists.
	return ProfileDeletedMessage, nil
}

func writeError(op string, err error) error {
	if errors.Is(err, utils.ErrConflict) {
		return utils.E(utils.CodeConflict, op, "profile was modified concurrently, retry the request", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to save profile", err)
}

func (s *profileService) invalidate(ctx context.Context, userID primitive.ObjectID) {
	s.writes.Add(1)
	if err := s.cache.Del(ctx, cache.ProfilesKey(), cache.ProfileKey(userID.Hex())); err != nil {
		s.log.WithError(err).WithField("user_id", userID.Hex()).Warn("profile cache invalidation failed")
	}
}

func (s *profileService) cacheGet(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("profile cache read failed")
		return false
	}
	return hit
}

// cacheSet stores val unless a write invalidated the cache after gen was
// taken, in which case val may already be stale.
func (s *profileService) cacheSet(ctx context.Context, gen uint64, key string, val any) {
	if s.writes.Load() != gen {
		return
	}
	if err := s.cache.SetJSON(ctx, key, val, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("profile cache write failed")
	}
}
