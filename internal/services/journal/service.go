package journal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/identity"
	"github.com/bobalog/bobalog/internal/models"
	"github.com/bobalog/bobalog/internal/services/backup"
	"github.com/bobalog/bobalog/internal/services/images"
	"github.com/bobalog/bobalog/internal/services/rankings"
	"github.com/bobalog/bobalog/internal/store"
)

// Service runs the journal flows: every local mutation is followed by a
// synchronous push of the full record set, and store visits feed the shared
// leaderboard. It is the single write path screens go through.
type Service struct {
	store    store.Store
	backup   *backup.Service
	rankings *rankings.Service
	images   *images.Service
	identity *identity.Resolver
	logger   *events.Logger
}

// NewService creates a journal service.
func NewService(
	recordStore store.Store,
	backupSvc *backup.Service,
	rankingsSvc *rankings.Service,
	imagesSvc *images.Service,
	resolver *identity.Resolver,
	logger *events.Logger,
) *Service {
	return &Service{
		store:    recordStore,
		backup:   backupSvc,
		rankings: rankingsSvc,
		images:   imagesSvc,
		identity: resolver,
		logger:   logger.WithField("service", "journal"),
	}
}

// AddParams are the caller-supplied fields for a new drink.
type AddParams struct {
	Flavor    string
	Store     string
	Occasion  string
	Price     float64
	Rating    int
	Date      string
	PhotoPath string
	Latitude  *float64
	Longitude *float64
	PlaceID   string
}

// Add creates a record, uploads its photo, pushes the backup and records
// the store visit. The record is durable once created: a failing push or
// rankings write returns an error alongside the created record, which stays
// local with synced=false until the next successful push.
func (s *Service) Add(ctx context.Context, p AddParams) (*models.DrinkRecord, error) {
	userID, err := s.identity.Current()
	if err != nil {
		return nil, err
	}

	date := strings.TrimSpace(p.Date)
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var s3Key string
	if p.PhotoPath != "" {
		s3Key, err = s.images.Attach(ctx, p.PhotoPath)
		if err != nil {
			return nil, fmt.Errorf("attach photo: %w", err)
		}
	}

	rec, err := s.store.Create(&models.DrinkRecord{
		Flavor:    p.Flavor,
		Store:     p.Store,
		Occasion:  p.Occasion,
		Price:     p.Price,
		Rating:    p.Rating,
		Date:      date,
		PhotoURL:  p.PhotoPath,
		S3Key:     s3Key,
		UserID:    userID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		PlaceID:   p.PlaceID,
	})
	if err != nil {
		return nil, err
	}

	return rec, s.afterMutation(ctx, rec.Store, rec.PlaceID)
}

// Edit applies mutate to the record and pushes. The id and owner are
// immutable; everything else is the caller's to change.
func (s *Service) Edit(ctx context.Context, id string, mutate func(*models.DrinkRecord)) (*models.DrinkRecord, error) {
	rec, err := s.store.Update(id, func(r *models.DrinkRecord) {
		owner := r.UserID
		mutate(r)
		r.UserID = owner
	})
	if err != nil {
		return nil, err
	}

	return rec, s.afterMutation(ctx, "", "")
}

// Delete removes the record, best-effort deletes its remote photo, and
// pushes the shrunken set so the record disappears from the backup blob.
func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.store.Find(id)
	if err != nil {
		return err
	}

	if err := s.store.Destroy(id); err != nil {
		return err
	}

	s.images.Remove(ctx, rec.S3Key, rec.UserID)

	return s.afterMutation(ctx, "", "")
}

// List returns the current identity's records, newest date first.
func (s *Service) List(ctx context.Context) ([]*models.DrinkRecord, error) {
	userID, err := s.identity.Current()
	if err != nil {
		return nil, err
	}

	records, err := s.store.ForUser(userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].LastModified.After(records[j].LastModified)
	})

	return records, nil
}

// Stats summarizes the current identity's journal.
type Stats struct {
	Count          int
	TotalSpent     float64
	AveragePrice   float64
	AverageRating  float64
	FavoriteStore  string
	FavoriteVisits int
}

// Stats computes journal statistics from the local store only.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Count: len(records)}
	if stats.Count == 0 {
		return stats, nil
	}

	var ratingSum int
	visits := make(map[string]int)
	casing := make(map[string]string)

	for _, rec := range records {
		stats.TotalSpent += rec.Price
		ratingSum += rec.Rating

		name := strings.TrimSpace(rec.Store)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		visits[key]++
		if _, ok := casing[key]; !ok {
			casing[key] = name
		}
	}

	stats.AveragePrice = stats.TotalSpent / float64(stats.Count)
	stats.AverageRating = float64(ratingSum) / float64(stats.Count)

	for key, count := range visits {
		if count > stats.FavoriteVisits ||
			(count == stats.FavoriteVisits && casing[key] < stats.FavoriteStore) {
			stats.FavoriteStore = casing[key]
			stats.FavoriteVisits = count
		}
	}

	return stats, nil
}

// afterMutation runs the post-write protocol: push the full set, then count
// the visit. Both failures surface to the caller, but the local mutation is
// already durable and will be retried by the next push.
func (s *Service) afterMutation(ctx context.Context, visitedStore, placeID string) error {
	if err := s.backup.Push(ctx); err != nil {
		return fmt.Errorf("backup push: %w", err)
	}

	if visitedStore != "" {
		if err := s.rankings.RecordVisit(ctx, visitedStore, placeID); err != nil {
			return fmt.Errorf("record visit: %w", err)
		}
	}

	return nil
}
