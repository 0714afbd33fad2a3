package service

import (
	"context"
	"log"
	"strings"
	"time"

	"connector-service/internal/apperror"
	"connector-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	msgNoProfile          = "There is no profile for this user"
	msgExperienceNotFound = "Experience not found"
	msgEducationNotFound  = "Education not found"
)

// UserPurger removes everything a deleted user left on posts.
type UserPurger interface {
	PurgeUser(ctx context.Context, userID bson.ObjectID) error
}

type ProfileServiceConfig struct {
	CacheTTL time.Duration
	// AsyncPurge hands post cleanup to the user.deleted consumer instead of
	// running it inside the request.
	AsyncPurge bool
}

type ProfileService struct {
	profiles  ProfileStore
	users     UserStore
	cache     SummaryCache
	purger    UserPurger
	publisher EventPublisher
	cfg       ProfileServiceConfig
}

func NewProfileService(profiles ProfileStore, users UserStore, cache SummaryCache, purger UserPurger, publisher EventPublisher, cfg ProfileServiceConfig) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		users:     users,
		cache:     cache,
		purger:    purger,
		publisher: publisher,
		cfg:       cfg,
	}
}

// ParseSkills splits a comma separated list and trims every entry.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, skill := range strings.Split(raw, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func (s *ProfileService) Upsert(ctx context.Context, userID bson.ObjectID, fields *models.ProfileFields) (*models.Profile, error) {
	profile, err := s.profiles.Upsert(ctx, userID, fields)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to save profile")
	}
	return profile, nil
}

// Load returns the caller's own profile.
func (s *ProfileService) Load(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to find profile")
	}
	if profile == nil {
		return nil, apperror.New(apperror.BadRequest, msgNoProfile)
	}
	return profile, nil
}

func (s *ProfileService) Me(ctx context.Context, userID bson.ObjectID) (*models.ProfileView, error) {
	profile, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, profile)
}

// ByUser resolves a profile from a raw user id. A malformed id is reported
// like a missing profile.
func (s *ProfileService) ByUser(ctx context.Context, rawUserID string) (*models.ProfileView, error) {
	userID, err := bson.ObjectIDFromHex(rawUserID)
	if err != nil {
		return nil, apperror.New(apperror.BadRequest, msgNoProfile)
	}
	return s.Me(ctx, userID)
}

func (s *ProfileService) All(ctx context.Context) ([]models.ProfileView, error) {
	profiles, err := s.profiles.FindAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to list profiles")
	}
	return s.populate(ctx, profiles)
}

func (s *ProfileService) AddExperience(ctx context.Context, profile *models.Profile, exp models.Experience) (*models.Profile, error) {
	updated, err := s.profiles.AddExperience(ctx, profile.User, exp)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to add experience")
	}
	if updated == nil {
		return nil, apperror.New(apperror.BadRequest, msgNoProfile)
	}
	return updated, nil
}

// ExperienceID checks that the profile holds the raw experience id.
func (s *ProfileService) ExperienceID(profile *models.Profile, rawID string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(rawID)
	if err != nil || !profile.HasExperience(id) {
		return bson.NilObjectID, apperror.New(apperror.NotFound, msgExperienceNotFound)
	}
	return id, nil
}

func (s *ProfileService) RemoveExperience(ctx context.Context, profile *models.Profile, expID bson.ObjectID) (*models.Profile, error) {
	updated, err := s.profiles.RemoveExperience(ctx, profile.User, expID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to remove experience")
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, msgExperienceNotFound)
	}
	return updated, nil
}

func (s *ProfileService) AddEducation(ctx context.Context, profile *models.Profile, edu models.Education) (*models.Profile, error) {
	updated, err := s.profiles.AddEducation(ctx, profile.User, edu)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to add education")
	}
	if updated == nil {
		return nil, apperror.New(apperror.BadRequest, msgNoProfile)
	}
	return updated, nil
}

func (s *ProfileService) EducationID(profile *models.Profile, rawID string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(rawID)
	if err != nil || !profile.HasEducation(id) {
		return bson.NilObjectID, apperror.New(apperror.NotFound, msgEducationNotFound)
	}
	return id, nil
}

func (s *ProfileService) RemoveEducation(ctx context.Context, profile *models.Profile, eduID bson.ObjectID) (*models.Profile, error) {
	updated, err := s.profiles.RemoveEducation(ctx, profile.User, eduID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to remove education")
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, msgEducationNotFound)
	}
	return updated, nil
}

// DeleteAccount removes the profile and the user. The user's posts, likes and
// comments are purged inline or through the user.deleted event.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID bson.ObjectID) error {
	if err := s.profiles.DeleteByUser(ctx, userID); err != nil {
		return apperror.Wrap(err, "failed to delete profile")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return apperror.Wrap(err, "failed to delete user")
	}
	s.cache.DeleteSummary(ctx, userID)

	if s.cfg.AsyncPurge && s.publisher != nil {
		err := s.publisher.PublishUserDeleted(ctx, userID.Hex())
		if err == nil {
			return nil
		}
		log.Printf("Warning: Failed to publish user deleted event, purging inline: %v", err)
	}

	if err := s.purger.PurgeUser(ctx, userID); err != nil {
		return apperror.Wrap(err, "failed to purge user posts")
	}
	return nil
}

func (s *ProfileService) populateOne(ctx context.Context, profile *models.Profile) (*models.ProfileView, error) {
	views, err := s.populate(ctx, []*models.Profile{profile})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populate attaches the owner's name and avatar to each profile, reading the
// cache first and the users collection for the rest.
func (s *ProfileService) populate(ctx context.Context, profiles []*models.Profile) ([]models.ProfileView, error) {
	summaries := make(map[bson.ObjectID]models.UserSummary, len(profiles))
	var missing []bson.ObjectID

	for _, profile := range profiles {
		if _, seen := summaries[profile.User]; seen {
			continue
		}
		if cached, ok := s.cache.GetSummary(ctx, profile.User); ok {
			summaries[profile.User] = *cached
			continue
		}
		summaries[profile.User] = models.UserSummary{ID: profile.User}
		missing = append(missing, profile.User)
	}

	if len(missing) > 0 {
		found, err := s.users.FindSummaries(ctx, missing)
		if err != nil {
			return nil, apperror.Wrap(err, "failed to load profile owners")
		}
		for _, summary := range found {
			summaries[summary.ID] = summary
			s.cache.SetSummary(ctx, summary, s.cfg.CacheTTL)
		}
	}

	views := make([]models.ProfileView, 0, len(profiles))
	for _, profile := range profiles {
		views = append(views, models.NewProfileView(profile, summaries[profile.User]))
	}
	return views, nil
}
