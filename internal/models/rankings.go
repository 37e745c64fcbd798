package models

// StoreEntry is one line of the shared store leaderboard.
type StoreEntry struct {
	StoreName   string `json:"storeName"`
	PlaceID     string `json:"placeId,omitempty"`
	VisitCount  int    `json:"visitCount"`
	LastVisited int64  `json:"lastVisited"`
}

// Rankings is the shared leaderboard blob. Stores are kept sorted descending
// by visit count and capped by the aggregator before every write.
type Rankings struct {
	Stores      []StoreEntry `json:"stores"`
	LastUpdated int64        `json:"lastUpdated"`
}
