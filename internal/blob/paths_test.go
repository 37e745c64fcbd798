package blob_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bobalog/bobalog/internal/blob"
)

func TestBackupKey(t *testing.T) {
	assert.Equal(t, "private/u1/backup/drinks.json", blob.BackupKey("u1"))
}

func TestImageKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	assert.Equal(t,
		"private/u1/drinks/1700000000000_latte.jpg",
		blob.ImageKey("u1", "latte.jpg", now))

	// Directory components and unsafe characters never reach the key.
	assert.Equal(t,
		"private/u1/drinks/1700000000000_secrets.json",
		blob.ImageKey("u1", "../../u2/backup/secrets.json", now))
	assert.Equal(t,
		"private/u1/drinks/1700000000000_a_b.jpg",
		blob.ImageKey("u1", "a?b.jpg", now))
	assert.Equal(t,
		"private/u1/drinks/1700000000000_photo",
		blob.ImageKey("u1", "", now))
}

func TestOwnedByUser(t *testing.T) {
	assert.True(t, blob.OwnedByUser("private/u1/drinks/1_a.jpg", "u1"))
	assert.False(t, blob.OwnedByUser("private/u2/drinks/1_a.jpg", "u1"))
	assert.False(t, blob.OwnedByUser("public/global/store-rankings.json", "u1"))
}
