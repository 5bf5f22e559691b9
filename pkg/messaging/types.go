package messaging

import "github.com/matst80/moment-finder/pkg/types"

type ChangeTopic string

const (
	CollectionChanged ChangeTopic = "collection_changed"
)

// CollectionChange replaces the full snapshot of one account.
type CollectionChange struct {
	Account string         `json:"account"`
	Moments []types.Moment `json:"moments"`
}
