package blob

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// RankingsKey is the single shared, unauthenticated leaderboard object.
const RankingsKey = "public/global/store-rankings.json"

// BackupKey returns the fixed per-user backup blob path. The identity is the
// only caller-controlled input that may reach a private path; anything else
// must be rejected upstream.
func BackupKey(identity string) string {
	return fmt.Sprintf("private/%s/backup/drinks.json", identity)
}

// ImageKey returns a fresh per-user image path. The timestamp prefix keeps
// uploads of the same filename from colliding.
func ImageKey(identity, filename string, now time.Time) string {
	return fmt.Sprintf("private/%s/drinks/%d_%s", identity, now.UnixMilli(), sanitizeFilename(filename))
}

// OwnedByUser reports whether key lives under the given identity's private
// namespace. Deletion of photo objects is gated on it so one user's record
// can never reference, and cascade-delete, another user's object.
func OwnedByUser(key, identity string) bool {
	return strings.HasPrefix(key, "private/"+identity+"/")
}

// sanitizeFilename strips directory components and characters that would
// break out of the object key.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "photo"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '?', '#', '%':
			return '_'
		}
		return r
	}, name)
}
