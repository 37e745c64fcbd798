package rankings

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/bobalog/bobalog/internal/blob"
	"github.com/bobalog/bobalog/internal/events"
	"github.com/bobalog/bobalog/internal/identity"
	"github.com/bobalog/bobalog/internal/models"
)

// MaxEntries caps the shared leaderboard; everything past it is dropped.
const MaxEntries = 100

// DefaultTopLimit is the number of stores returned when no limit is given.
const DefaultTopLimit = 5

// Service maintains the shared store leaderboard. Writes are optimistic
// read-modify-write over one unauthenticated blob with no locking, so two
// concurrent visits can lose one update. The object store offers no
// compare-and-swap, and for a just-for-fun leaderboard the loss is accepted.
type Service struct {
	blob     blob.Store
	identity *identity.Resolver
	logger   *events.Logger
	now      func() time.Time
}

// NewService creates a rankings service.
func NewService(blobStore blob.Store, resolver *identity.Resolver, logger *events.Logger) *Service {
	return &Service{
		blob:     blobStore,
		identity: resolver,
		logger:   logger.WithField("service", "rankings"),
		now:      time.Now,
	}
}

// SetClock overrides the clock (for tests).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RecordVisit counts one visit to storeName. Stores match case-insensitively
// on the trimmed name; the first-seen casing is what stays on the board.
// Read misses bootstrap an empty board, but a failed write is returned so
// the caller can retry.
func (s *Service) RecordVisit(ctx context.Context, storeName, placeID string) error {
	if s.identity.LocalMode() {
		s.logger.Debug("Local mode, skipping visit")
		return nil
	}

	trimmed := strings.TrimSpace(storeName)
	if trimmed == "" {
		return nil
	}

	board := s.load(ctx)

	key := normalize(trimmed)
	nowMillis := s.now().UnixMilli()

	found := false
	for i := range board.Stores {
		if normalize(board.Stores[i].StoreName) != key {
			continue
		}
		board.Stores[i].VisitCount++
		board.Stores[i].LastVisited = nowMillis
		if board.Stores[i].PlaceID == "" && placeID != "" {
			board.Stores[i].PlaceID = placeID
		}
		found = true
		break
	}

	if !found {
		board.Stores = append(board.Stores, models.StoreEntry{
			StoreName:   trimmed,
			PlaceID:     placeID,
			VisitCount:  1,
			LastVisited: nowMillis,
		})
	}

	// Ties keep their pre-sort relative order.
	sort.SliceStable(board.Stores, func(i, j int) bool {
		return board.Stores[i].VisitCount > board.Stores[j].VisitCount
	})

	if len(board.Stores) > MaxEntries {
		board.Stores = board.Stores[:MaxEntries]
	}

	board.LastUpdated = nowMillis

	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshal rankings: %w", err)
	}

	if err := s.blob.Put(ctx, blob.RankingsKey, data, "application/json"); err != nil {
		return fmt.Errorf("write rankings: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"store":   trimmed,
		"entries": len(board.Stores),
	}).Debug("Recorded visit")

	return nil
}

// TopStores returns the first limit entries of the board, which is kept
// pre-sorted by every writer.
func (s *Service) TopStores(ctx context.Context, limit int) ([]models.StoreEntry, error) {
	if s.identity.LocalMode() {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	board := s.load(ctx)
	if len(board.Stores) > limit {
		board.Stores = board.Stores[:limit]
	}
	return board.Stores, nil
}

// StoreRank returns the 1-based rank of storeName, or 0 when the store is
// not on the board.
func (s *Service) StoreRank(ctx context.Context, storeName string) (int, error) {
	if s.identity.LocalMode() {
		return 0, nil
	}

	key := normalize(strings.TrimSpace(storeName))
	board := s.load(ctx)

	for i := range board.Stores {
		if normalize(board.Stores[i].StoreName) == key {
			return i + 1, nil
		}
	}
	return 0, nil
}

// load reads the shared blob, degrading to an empty board on any read or
// parse failure. A missing or unreadable board must never fail the visit.
func (s *Service) load(ctx context.Context) *models.Rankings {
	board := &models.Rankings{LastUpdated: s.now().UnixMilli()}

	data, err := s.blob.Get(ctx, blob.RankingsKey)
	if err != nil {
		return board
	}

	if err := json.Unmarshal(data, board); err != nil {
		s.logger.WithError(err).Warn("Malformed rankings blob, starting fresh")
		return &models.Rankings{LastUpdated: s.now().UnixMilli()}
	}

	return board
}

// normalize produces the case-insensitive matching key for a store name.
func normalize(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
