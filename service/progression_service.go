package service

import (
	"context"
	"sync"

	"supportbot/events"
	"supportbot/models"

	log "github.com/sirupsen/logrus"
)

// MessageXPAmount is the XP granted per qualifying message.
const MessageXPAmount = 1

// progressionService implements the ProgressionService interface
type progressionService struct {
	store ProgressStore
	bus   EventPublisher

	mu    sync.Mutex
	table map[string]*models.UserProgress
}

// NewProgressionService creates a progression service with an empty table.
// Call Load to pick up previously persisted state.
func NewProgressionService(store ProgressStore, bus EventPublisher) ProgressionService {
	return &progressionService{
		store: store,
		bus:   bus,
		table: make(map[string]*models.UserProgress),
	}
}

func (s *progressionService) Load(ctx context.Context) {
	table, err := s.store.Load()
	if err != nil {
		// Documented data-loss risk: a corrupt file means starting over.
		log.Errorf("Failed to load progression table, starting empty: %v", err)
		table = make(map[string]*models.UserProgress)
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	log.Infof("Loaded progression table with %d users", len(table))
}

func (s *progressionService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(s.table)
}

func (s *progressionService) AwardMessageXP(ctx context.Context, userID, username, channelID string) models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress := s.getOrCreate(userID, username)
	progress.XP += MessageXPAmount

	newLevel := models.LevelForXP(progress.XP)
	if progress.Level.Less(newLevel) {
		progress.Level = newLevel
		s.bus.Emit(ctx, events.LevelUpEvent{
			UserID:    userID,
			ChannelID: channelID,
			NewLevel:  newLevel,
			XP:        progress.XP,
			XPToNext:  models.XPToNext(progress.XP),
		})
		log.Infof("User %s reached level %s with %d xp", userID, newLevel, progress.XP)
	}

	s.flushLocked()
	return *progress
}

func (s *progressionService) AwardCredits(ctx context.Context, userID, username string, amount int) models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress := s.getOrCreate(userID, username)
	progress.Credits += amount

	s.bus.Emit(ctx, events.CreditsAwardedEvent{
		UserID:     userID,
		Amount:     amount,
		NewBalance: progress.Credits,
	})

	s.flushLocked()
	return *progress
}

func (s *progressionService) GetProgress(ctx context.Context, userID, username string) models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.table[userID]
	progress := s.getOrCreate(userID, username)
	if !existed {
		s.flushLocked()
	}
	return *progress
}

func (s *progressionService) Snapshot(ctx context.Context) map[string]models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]models.UserProgress, len(s.table))
	for id, progress := range s.table {
		snapshot[id] = *progress
	}
	return snapshot
}

// getOrCreate returns the user's record, creating it on first observed
// activity and refreshing the cached display name. Caller holds s.mu.
func (s *progressionService) getOrCreate(userID, username string) *models.UserProgress {
	progress, ok := s.table[userID]
	if !ok {
		progress = &models.UserProgress{
			Name:  username,
			Level: models.LevelForXP(0),
		}
		s.table[userID] = progress
	}
	if username != "" {
		progress.Name = username
	}
	return progress
}

// flushLocked persists the table. Save failures cost durability for this
// write only, so they are logged and not propagated. Caller holds s.mu.
func (s *progressionService) flushLocked() {
	if err := s.store.Save(s.table); err != nil {
		log.Errorf("Failed to persist progression table: %v", err)
	}
}
