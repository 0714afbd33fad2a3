package repository

import (
	"context"
	"testing"
	"time"

	"connector-service/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestRedisRepoWithoutClient(t *testing.T) {
	repo := NewRedisRepo(nil)
	ctx := context.Background()
	id := bson.NewObjectID()

	repo.SetSummary(ctx, models.UserSummary{ID: id, Name: "ann"}, time.Minute)
	_, ok := repo.GetSummary(ctx, id)
	assert.False(t, ok)
	repo.DeleteSummary(ctx, id)

	repo.RecordFailedLogin(ctx, "ann@example.com", time.Minute)
	assert.Equal(t, int64(0), repo.FailedLogins(ctx, "ann@example.com"))
	repo.ResetFailedLogins(ctx, "ann@example.com")
}

func TestFailedLoginKeyNormalizesEmail(t *testing.T) {
	assert.Equal(t, failedLoginKey("ann@example.com"), failedLoginKey("  ANN@example.com "))
}
