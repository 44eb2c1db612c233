package service

import (
	"context"

	"supportbot/events"
	"supportbot/models"
)

// ProgressStore persists the progression table.
type ProgressStore interface {
	Load() (map[string]*models.UserProgress, error)
	Save(table map[string]*models.UserProgress) error
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event)
}

// ProgressionService owns the in-memory progression table: XP accrual,
// level-threshold resolution and the credit ledger. Every mutation is
// followed by a synchronous full-table save; a failed save is logged and the
// in-memory state stays authoritative until the next flush.
//
// Mutating methods return a copy of the updated record, so callers never
// hold a pointer into the table.
type ProgressionService interface {
	// Load replaces the table with the persisted one. Load failures are
	// logged and degrade to an empty table, never reported up.
	Load(ctx context.Context)

	// Flush persists the current table.
	Flush(ctx context.Context) error

	// AwardMessageXP grants one XP for a qualifying message, refreshes the
	// cached display name and publishes a LevelUpEvent when a threshold is
	// crossed.
	AwardMessageXP(ctx context.Context, userID, username, channelID string) models.UserProgress

	// AwardCredits adds to the user's credit balance and publishes a
	// CreditsAwardedEvent.
	AwardCredits(ctx context.Context, userID, username string, amount int) models.UserProgress

	// GetProgress returns the user's record, creating it lazily on first
	// observed activity.
	GetProgress(ctx context.Context, userID, username string) models.UserProgress

	// Snapshot returns a copy of the whole table for external readers.
	Snapshot(ctx context.Context) map[string]models.UserProgress
}
