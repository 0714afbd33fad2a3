package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connector-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

func (r *ProfileRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "date", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create profile indexes: %w", err)
	}
	return nil
}

// Upsert creates the user's profile or sets the given fields on it. Empty
// scalar fields are not written so a partial update keeps earlier values.
func (r *ProfileRepository) Upsert(ctx context.Context, userID bson.ObjectID, fields *models.ProfileFields) (*models.Profile, error) {
	set := bson.M{
		"user":   userID,
		"social": fields.Social,
	}
	setIfPresent := func(key, value string) {
		if value != "" {
			set[key] = value
		}
	}
	setIfPresent("company", fields.Company)
	setIfPresent("website", fields.Website)
	setIfPresent("location", fields.Location)
	setIfPresent("bio", fields.Bio)
	setIfPresent("status", fields.Status)
	setIfPresent("githubusername", fields.GithubUsername)
	if len(fields.Skills) > 0 {
		set["skills"] = fields.Skills
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"experience": bson.A{},
			"education":  bson.A{},
			"date":       time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	normalizeProfile(&profile)
	return &profile, nil
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	normalizeProfile(&profile)
	return &profile, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*models.Profile, error) {
	opts := options.Find().SetSort(bson.M{"date": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []*models.Profile{}
	for cursor.Next(ctx) {
		var profile models.Profile
		if err := cursor.Decode(&profile); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		normalizeProfile(&profile)
		profiles = append(profiles, &profile)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) AddExperience(ctx context.Context, userID bson.ObjectID, exp models.Experience) (*models.Profile, error) {
	if exp.ID.IsZero() {
		exp.ID = bson.NewObjectID()
	}
	return r.pushFront(ctx, userID, "experience", exp)
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, expID bson.ObjectID) (*models.Profile, error) {
	return r.pullByID(ctx, userID, "experience", expID)
}

func (r *ProfileRepository) AddEducation(ctx context.Context, userID bson.ObjectID, edu models.Education) (*models.Profile, error) {
	if edu.ID.IsZero() {
		edu.ID = bson.NewObjectID()
	}
	return r.pushFront(ctx, userID, "education", edu)
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, eduID bson.ObjectID) (*models.Profile, error) {
	return r.pullByID(ctx, userID, "education", eduID)
}

func (r *ProfileRepository) pushFront(ctx context.Context, userID bson.ObjectID, field string, entry any) (*models.Profile, error) {
	return r.findOneAndUpdate(ctx, bson.M{"user": userID}, pushFrontUpdate(field, entry))
}

func (r *ProfileRepository) pullByID(ctx context.Context, userID bson.ObjectID, field string, entryID bson.ObjectID) (*models.Profile, error) {
	filter, update := pullEntryQuery(userID, field, entryID)
	return r.findOneAndUpdate(ctx, filter, update)
}

// pullEntryQuery only matches while the entry exists, so a missing id leaves
// the profile untouched and reports no document.
func pullEntryQuery(userID bson.ObjectID, field string, entryID bson.ObjectID) (bson.M, bson.M) {
	filter := bson.M{
		"user":         userID,
		field + "._id": entryID,
	}
	update := bson.M{
		"$pull": bson.M{field: bson.M{"_id": entryID}},
	}
	return filter, update
}

func (r *ProfileRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	normalizeProfile(&profile)
	return &profile, nil
}

func normalizeProfile(profile *models.Profile) {
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Experience == nil {
		profile.Experience = []models.Experience{}
	}
	if profile.Education == nil {
		profile.Education = []models.Education{}
	}
}
