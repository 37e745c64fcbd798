package journal_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobalog/bobalog/internal/blob"
	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/identity"
	"github.com/bobalog/bobalog/internal/models"
	"github.com/bobalog/bobalog/internal/services/backup"
	"github.com/bobalog/bobalog/internal/services/images"
	"github.com/bobalog/bobalog/internal/services/journal"
	"github.com/bobalog/bobalog/internal/services/rankings"
	"github.com/bobalog/bobalog/internal/store"
)

type fixture struct {
	store    *store.MockStore
	blob     *blob.MockStore
	resolver *identity.Resolver
	service  *journal.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	logger := events.NewTestLogger(io.Discard)

	recordStore := store.NewMockStore()
	blobStore := blob.NewMockStore()
	resolver := identity.NewResolver(
		filepath.Join(dir, "local-mode"),
		filepath.Join(dir, "session.json"),
		logger,
	)

	backupSvc := backup.NewService(recordStore, blobStore, resolver, logger)
	rankingsSvc := rankings.NewService(blobStore, resolver, logger)
	cache := images.NewURLCache(blobStore, 15*time.Minute, time.Minute, logger)
	imagesSvc := images.NewService(blobStore, resolver, cache, logger)

	return &fixture{
		store:    recordStore,
		blob:     blobStore,
		resolver: resolver,
		service:  journal.NewService(recordStore, backupSvc, rankingsSvc, imagesSvc, resolver, logger),
	}
}

func (f *fixture) signIn(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, f.resolver.SaveSession(&identity.Session{
		UserID:    userID,
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
}

func TestAddPushesAndRecordsVisit(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")

	rec, err := f.service.Add(context.Background(), journal.AddParams{
		Flavor: "Taro",
		Store:  "Boba Guys",
		Price:  5.5,
		Rating: 4,
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u1", rec.UserID)
	assert.NotEmpty(t, rec.Date, "date defaults to today")

	// The backup blob holds the pushed record.
	data, ok := f.blob.Object("private/u1/backup/drinks.json")
	require.True(t, ok)
	var entries []models.BackupRecord
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, rec.ID, entries[0].ID)

	// The visit landed on the leaderboard.
	board, ok := f.blob.Object(blob.RankingsKey)
	require.True(t, ok)
	var parsed models.Rankings
	require.NoError(t, json.Unmarshal(board, &parsed))
	require.Len(t, parsed.Stores, 1)
	assert.Equal(t, "Boba Guys", parsed.Stores[0].StoreName)

	// And the local copy is marked synced.
	stored, err := f.store.Find(rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.Synced)
}

func TestAddLocalModeStaysOffline(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.resolver.SetLocalMode(true))

	rec, err := f.service.Add(context.Background(), journal.AddParams{
		Flavor: "Taro",
		Store:  "Boba Guys",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.LocalUserID, rec.UserID)

	assert.Zero(t, f.blob.PutCalls, "local mode makes no remote calls")
}

func TestAddWithPhoto(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")

	photo := filepath.Join(t.TempDir(), "taro.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0600))

	rec, err := f.service.Add(context.Background(), journal.AddParams{
		Flavor:    "Taro",
		PhotoPath: photo,
	})
	require.NoError(t, err)
	assert.True(t, rec.HasRemotePhoto())
	assert.True(t, blob.OwnedByUser(rec.S3Key, "u1"))
}

func TestAddSurvivesPushFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")

	f.blob.PutErr = errors.New("network down")

	rec, err := f.service.Add(context.Background(), journal.AddParams{Flavor: "Taro"})
	require.Error(t, err)
	require.NotNil(t, rec, "record is durable even when push fails")

	stored, findErr := f.store.Find(rec.ID)
	require.NoError(t, findErr)
	assert.False(t, stored.Synced, "failed push leaves the needs-retry marker")
}

func TestEditKeepsOwnerAndPushes(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")

	rec, err := f.service.Add(context.Background(), journal.AddParams{Flavor: "Taro", Rating: 3})
	require.NoError(t, err)

	updated, err := f.service.Edit(context.Background(), rec.ID, func(r *models.DrinkRecord) {
		r.Rating = 5
		r.UserID = "someone-else"
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "u1", updated.UserID, "owner is immutable")

	stored, err := f.store.Find(rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.Synced, "push after edit re-marks the record")
}

func TestDeleteCascadesAndShrinksBackup(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")
	ctx := context.Background()

	photo := filepath.Join(t.TempDir(), "taro.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0600))

	keep, err := f.service.Add(ctx, journal.AddParams{Flavor: "Matcha"})
	require.NoError(t, err)
	doomed, err := f.service.Add(ctx, journal.AddParams{Flavor: "Taro", PhotoPath: photo})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, doomed.ID))

	_, err = f.store.Find(doomed.ID)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)

	_, photoExists := f.blob.Object(doomed.S3Key)
	assert.False(t, photoExists, "photo object is cascade-deleted")

	data, ok := f.blob.Object("private/u1/backup/drinks.json")
	require.True(t, ok)
	var entries []models.BackupRecord
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1, "push after delete re-serializes the smaller set")
	assert.Equal(t, keep.ID, entries[0].ID)
}

func TestDeleteToleratesPhotoDeletionFailure(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")
	ctx := context.Background()

	photo := filepath.Join(t.TempDir(), "taro.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0600))

	rec, err := f.service.Add(ctx, journal.AddParams{Flavor: "Taro", PhotoPath: photo})
	require.NoError(t, err)

	f.blob.DeleteErr = errors.New("access denied")
	require.NoError(t, f.service.Delete(ctx, rec.ID), "photo cleanup is best-effort")

	_, err = f.store.Find(rec.ID)
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestListSortsByDateDescending(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")
	ctx := context.Background()

	for _, p := range []journal.AddParams{
		{Flavor: "Old", Date: "2026-08-01"},
		{Flavor: "New", Date: "2026-08-20"},
		{Flavor: "Mid", Date: "2026-08-10"},
	} {
		_, err := f.service.Add(ctx, p)
		require.NoError(t, err)
	}

	records, err := f.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "New", records[0].Flavor)
	assert.Equal(t, "Mid", records[1].Flavor)
	assert.Equal(t, "Old", records[2].Flavor)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")
	ctx := context.Background()

	for _, p := range []journal.AddParams{
		{Flavor: "Taro", Store: "Boba Guys", Price: 5.0, Rating: 4},
		{Flavor: "Matcha", Store: "boba guys", Price: 6.0, Rating: 5},
		{Flavor: "Thai", Store: "Kung Fu Tea", Price: 4.0, Rating: 3},
	} {
		_, err := f.service.Add(ctx, p)
		require.NoError(t, err)
	}

	stats, err := f.service.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 15.0, stats.TotalSpent, 0.001)
	assert.InDelta(t, 5.0, stats.AveragePrice, 0.001)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
	assert.Equal(t, "Boba Guys", stats.FavoriteStore, "favorite matches case-insensitively")
	assert.Equal(t, 2, stats.FavoriteVisits)
}

func TestStatsEmptyJournal(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "u1")

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Empty(t, stats.FavoriteStore)
}
