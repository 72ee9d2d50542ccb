package service

import (
	"context"
	"testing"

	"filmhub/internal/api/dto"
	"filmhub/internal/api/models"
	"filmhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRatingFixture(t *testing.T) (RatingService, *gorm.DB) {
	db := newTestDB(t)
	return NewRatingService(repository.NewRatingRepository(db), repository.NewMovieRepo(db)), db
}

func TestSubmitStarRating_CreatesRow(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	resp, err := svc.SubmitStarRating(context.Background(), user.ID, movie.ID, 8.5)
	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.Composite)
	assert.Nil(t, resp.Plot)
}

func TestSubmitStarRating_OverwritesCompositeOnly(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	_, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{
		Plot:   ptr(8.0),
		Acting: ptr(6.0),
	})
	require.NoError(t, err)

	resp, err := svc.SubmitStarRating(context.Background(), user.ID, movie.ID, 3.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, resp.Composite)
	// Dimension scores survive a star overwrite.
	require.NotNil(t, resp.Plot)
	assert.Equal(t, 8.0, *resp.Plot)
	require.NotNil(t, resp.Acting)
	assert.Equal(t, 6.0, *resp.Acting)

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitStarRating_AllowsPendingMovie(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Unreviewed", models.StatusPending)

	_, err := svc.SubmitStarRating(context.Background(), user.ID, movie.ID, 7.0)
	assert.NoError(t, err)
}

func TestSubmitStarRating_InvalidScore(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	_, err := svc.SubmitStarRating(context.Background(), user.ID, movie.ID, 10.5)
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = svc.SubmitStarRating(context.Background(), user.ID, movie.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestSubmitStarRating_MovieNotFound(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")

	_, err := svc.SubmitStarRating(context.Background(), user.ID, 999, 5.0)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestSubmitMultiRating_CompositeIsMeanOfPresent(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	// Mean of 8, 7, 6 = 7.0; absent dimensions are ignored, not zero.
	resp, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{
		Plot:   ptr(8.0),
		Acting: ptr(7.0),
		Visual: ptr(6.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, resp.Composite)
	assert.Nil(t, resp.Music)
}

func TestSubmitMultiRating_CompositeRoundsToOneDecimal(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	// 8.0, 7.0, 7.0 -> 7.333... -> 7.3
	resp, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{
		Plot:   ptr(8.0),
		Acting: ptr(7.0),
		Visual: ptr(7.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.3, resp.Composite)
}

func TestSubmitMultiRating_AllNilYieldsZero(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	resp, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Composite)
}

func TestSubmitMultiRating_RejectsPendingMovie(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Unreviewed", models.StatusPending)

	_, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{Plot: ptr(8.0)})
	assert.ErrorIs(t, err, ErrMovieNotApproved)
}

func TestSubmitMultiRating_ClearsDroppedDimensions(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	_, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{
		Plot:  ptr(8.0),
		Music: ptr(9.0),
	})
	require.NoError(t, err)

	// Resubmission without music must null it out, not keep the old 9.0.
	resp, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{
		Plot: ptr(6.0),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Music)
	assert.Equal(t, 6.0, resp.Composite)
}

func TestSubmitMultiRating_StoresComment(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	resp, err := svc.SubmitMultiRating(context.Background(), user.ID, movie.ID, dto.MultiRatingDTO{
		Plot:    ptr(8.0),
		Comment: "  dreams within dreams  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "dreams within dreams", resp.Comment)
}

func TestGetUserRating_NotFound(t *testing.T) {
	svc, db := newRatingFixture(t)
	user := seedUser(t, db, "user")
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	_, err := svc.GetUserRating(context.Background(), user.ID, movie.ID)
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestAggregateRating_AveragesAcrossUsers(t *testing.T) {
	svc, db := newRatingFixture(t)
	movie := seedMovie(t, db, "Inception", models.StatusApproved)
	alice := seedUser(t, db, "user")
	bob := seedUser(t, db, "user")

	_, err := svc.SubmitStarRating(context.Background(), alice.ID, movie.ID, 8.0)
	require.NoError(t, err)
	_, err = svc.SubmitStarRating(context.Background(), bob.ID, movie.ID, 7.0)
	require.NoError(t, err)

	agg, err := svc.AggregateRating(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, agg.Average)
	assert.EqualValues(t, 2, agg.RatingCount)
}

func TestAggregateRating_NoRatersIsZero(t *testing.T) {
	svc, db := newRatingFixture(t)
	movie := seedMovie(t, db, "Inception", models.StatusApproved)

	agg, err := svc.AggregateRating(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg.Average)
	assert.EqualValues(t, 0, agg.RatingCount)
}

func TestDimensionAverages_IgnoreAbsentScores(t *testing.T) {
	svc, db := newRatingFixture(t)
	movie := seedMovie(t, db, "Inception", models.StatusApproved)
	alice := seedUser(t, db, "user")
	bob := seedUser(t, db, "user")

	_, err := svc.SubmitMultiRating(context.Background(), alice.ID, movie.ID, dto.MultiRatingDTO{
		Plot:   ptr(8.0),
		Acting: ptr(6.0),
	})
	require.NoError(t, err)
	_, err = svc.SubmitMultiRating(context.Background(), bob.ID, movie.ID, dto.MultiRatingDTO{
		Plot: ptr(6.0),
	})
	require.NoError(t, err)

	avgs, err := svc.DimensionAverages(context.Background(), movie.ID)
	require.NoError(t, err)
	// Plot averages over both raters, acting only over the one who scored it.
	assert.Equal(t, 7.0, avgs.Plot)
	assert.Equal(t, 6.0, avgs.Acting)
	assert.Equal(t, 0.0, avgs.Visual)
}
