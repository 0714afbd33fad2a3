package handlers

import (
	"strings"
	"time"

	"connector-service/internal/apperror"
	"connector-service/internal/middleware"
	"connector-service/internal/models"
	"connector-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

var (
	profileRules = []middleware.Rule{
		middleware.Required("status", "status is required"),
		middleware.Required("skills", "skills is required"),
	}

	experienceRules = []middleware.Rule{
		middleware.Required("title", "title is required"),
		middleware.Required("company", "company is required"),
		middleware.Required("from", "from date is required"),
	}

	educationRules = []middleware.Rule{
		middleware.Required("school", "school is required"),
		middleware.Required("degree", "degree is required"),
		middleware.Required("from", "from date is required"),
	}
)

type ProfileHandler struct {
	profileService *service.ProfileService
	opts           Options
}

func NewProfileHandler(profileService *service.ProfileService, opts Options) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		opts:           opts,
	}
}

func (h *ProfileHandler) RegisterRoutes(app *fiber.App) {
	auth := h.opts.auth()

	profileGroup := app.Group("/api/profile")
	profileGroup.Get("/", h.ListProfiles)
	profileGroup.Post("/", h.UpsertProfile, auth, middleware.Validate(profileRules...))
	profileGroup.Delete("/", h.DeleteAccount, auth)
	profileGroup.Get("/me", h.GetMyProfile, auth)
	profileGroup.Get("/user/:user_id", h.GetProfileByUser)

	profileGroup.Put("/experience", h.AddExperience, auth, middleware.Validate(experienceRules...))
	profileGroup.Delete("/experience/:exp_id", h.DeleteExperience, auth)
	profileGroup.Put("/education", h.AddEducation, auth, middleware.Validate(educationRules...))
	profileGroup.Delete("/education/:edu_id", h.DeleteEducation, auth)
}

func (h *ProfileHandler) ListProfiles(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	profiles, err := h.profileService.All(ctx)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(profiles)
}

func (h *ProfileHandler) GetMyProfile(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	profile, err := h.profileService.Me(ctx, middleware.IdentityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *ProfileHandler) GetProfileByUser(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	profile, err := h.profileService.ByUser(ctx, c.Params("user_id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// UpsertProfile creates or updates the caller's profile.
func (h *ProfileHandler) UpsertProfile(c fiber.Ctx) error {
	body := middleware.RequestFrom(c).Body
	identity := middleware.IdentityFrom(c)

	fields := &models.ProfileFields{
		Company:        body.String("company"),
		Website:        body.String("website"),
		Location:       body.String("location"),
		Bio:            body.String("bio"),
		Status:         body.String("status"),
		GithubUsername: body.String("githubusername"),
		Skills:         service.ParseSkills(skillsText(body["skills"])),
		Social: models.Social{
			YouTube:   body.String("youtube"),
			Twitter:   body.String("twitter"),
			Facebook:  body.String("facebook"),
			LinkedIn:  body.String("linkedin"),
			Instagram: body.String("instagram"),
		},
	}

	ctx, cancel := h.opts.context()
	defer cancel()

	profile, err := h.profileService.Upsert(ctx, identity.UserID, fields)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// DeleteAccount removes the caller's profile, user and posts.
func (h *ProfileHandler) DeleteAccount(c fiber.Ctx) error {
	ctx, cancel := h.opts.context()
	defer cancel()

	if err := h.profileService.DeleteAccount(ctx, middleware.IdentityFrom(c).UserID); err != nil {
		return err
	}
	return message(c, "User Deleted")
}

func (h *ProfileHandler) AddExperience(c fiber.Ctx) error {
	body := middleware.RequestFrom(c).Body
	identity := middleware.IdentityFrom(c)

	from, to, err := parsePeriod(body)
	if err != nil {
		return err
	}
	exp := models.Experience{
		Title:       body.String("title"),
		Company:     body.String("company"),
		Location:    body.String("location"),
		From:        from,
		To:          to,
		Current:     body.Bool("current"),
		Description: body.String("description"),
	}

	ctx, cancel := h.opts.context()
	defer cancel()

	profile, err := h.profileService.Load(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if err := middleware.Authorize(identity, profile, middleware.ActionMutateProfile); err != nil {
		return err
	}

	updated, err := h.profileService.AddExperience(ctx, profile, exp)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ProfileHandler) DeleteExperience(c fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)

	ctx, cancel := h.opts.context()
	defer cancel()

	profile, err := h.profileService.Load(ctx, identity.UserID)
	if err != nil {
		return err
	}
	expID, err := h.profileService.ExperienceID(profile, c.Params("exp_id"))
	if err != nil {
		return err
	}
	if err := middleware.Authorize(identity, profile, middleware.ActionMutateProfile); err != nil {
		return err
	}

	updated, err := h.profileService.RemoveExperience(ctx, profile, expID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ProfileHandler) AddEducation(c fiber.Ctx) error {
	body := middleware.RequestFrom(c).Body
	identity := middleware.IdentityFrom(c)

	from, to, err := parsePeriod(body)
	if err != nil {
		return err
	}
	edu := models.Education{
		School:       body.String("school"),
		Degree:       body.String("degree"),
		FieldOfStudy: body.String("fieldofstudy"),
		From:         from,
		To:           to,
		Current:      body.Bool("current"),
		Description:  body.String("description"),
	}

	ctx, cancel := h.opts.context()
	defer cancel()

	profile, err := h.profileService.Load(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if err := middleware.Authorize(identity, profile, middleware.ActionMutateProfile); err != nil {
		return err
	}

	updated, err := h.profileService.AddEducation(ctx, profile, edu)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ProfileHandler) DeleteEducation(c fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)

	ctx, cancel := h.opts.context()
	defer cancel()

	profile, err := h.profileService.Load(ctx, identity.UserID)
	if err != nil {
		return err
	}
	eduID, err := h.profileService.EducationID(profile, c.Params("edu_id"))
	if err != nil {
		return err
	}
	if err := middleware.Authorize(identity, profile, middleware.ActionMutateProfile); err != nil {
		return err
	}

	updated, err := h.profileService.RemoveEducation(ctx, profile, eduID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// skillsText accepts skills either as a comma separated string or as a list.
func skillsText(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parsePeriod reads the from/to dates of an experience or education entry.
// A current entry has no end date.
func parsePeriod(body middleware.Payload) (time.Time, *time.Time, error) {
	from, ok := parseDate(body.String("from"))
	if !ok {
		return time.Time{}, nil, apperror.Validation([]apperror.Violation{{
			Message:  "from date is invalid",
			Field:    "from",
			Location: "body",
			Value:    body["from"],
		}})
	}

	rawTo := body.String("to")
	if rawTo == "" || body.Bool("current") {
		return from, nil, nil
	}
	to, ok := parseDate(rawTo)
	if !ok {
		return time.Time{}, nil, apperror.Validation([]apperror.Violation{{
			Message:  "to date is invalid",
			Field:    "to",
			Location: "body",
			Value:    body["to"],
		}})
	}
	return from, &to, nil
}
