package models

import "time"

type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RefreshAction string

const (
	ActionUpdateFeeds RefreshAction = "update-feeds"
	ActionClearCache  RefreshAction = "clear-cache"
)

// ResyncEvent anuncia a outras sessões do console que o backend mudou.
type ResyncEvent struct {
	Reason RefreshAction `json:"reason"`
	Origin string        `json:"origin"`
	At     time.Time     `json:"at"`
}
