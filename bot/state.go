package bot

import (
	"sync"
	"time"

	"supportbot/models"
)

// sessionState holds the in-memory session maps: open tickets, active polls
// and the mini-game cooldown set. discordgo dispatches handlers on separate
// goroutines, so every access goes through the mutex. Entries are only
// written after the platform-side steps of an operation fully succeeded.
type sessionState struct {
	mu        sync.Mutex
	tickets   map[string]models.Ticket // keyed by owning user ID
	polls     map[string]*models.Poll  // keyed by announcement message ID
	cooldowns map[string]struct{}
}

func newSessionState() *sessionState {
	return &sessionState{
		tickets:   make(map[string]models.Ticket),
		polls:     make(map[string]*models.Poll),
		cooldowns: make(map[string]struct{}),
	}
}

func (s *sessionState) ticketFor(userID string) (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[userID]
	return ticket, ok
}

// addTicket records an open ticket. It reports false without writing when
// the user already has one, which covers the race between the open check
// and channel creation completing.
func (s *sessionState) addTicket(ticket models.Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[ticket.UserID]; ok {
		return false
	}
	s.tickets[ticket.UserID] = ticket
	return true
}

// removeTicketByMessage resolves the owning user by reverse lookup from the
// welcome message the close button is attached to, removing the entry when
// found.
func (s *sessionState) removeTicketByMessage(messageID string) (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, ticket := range s.tickets {
		if ticket.WelcomeMessageID == messageID {
			delete(s.tickets, userID)
			return ticket, true
		}
	}
	return models.Ticket{}, false
}

func (s *sessionState) addPoll(messageID string, poll *models.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[messageID] = poll
}

// castVote re-casts userID's vote on the poll behind messageID and returns
// a copy of the poll after the vote. It reports false when the poll is
// unknown (e.g. the process restarted) or the option index is out of range.
func (s *sessionState) castVote(messageID, userID string, option int) (models.Poll, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[messageID]
	if !ok || option < 0 || option >= len(poll.Options) {
		return models.Poll{}, false
	}
	poll.CastVote(userID, option)

	snapshot := models.Poll{
		Question: poll.Question,
		Options:  poll.Options,
		Votes:    make([]map[string]struct{}, len(poll.Votes)),
	}
	for i, voters := range poll.Votes {
		snapshot.Votes[i] = make(map[string]struct{}, len(voters))
		for id := range voters {
			snapshot.Votes[i][id] = struct{}{}
		}
	}
	return snapshot, true
}

// startCooldown adds the user to the cooldown set and schedules the expiry
// timer. It reports false when the user is already cooling down. The timer
// fires independently of the event stream; last action wins on membership.
func (s *sessionState) startCooldown(userID string, d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cooldowns[userID]; ok {
		return false
	}
	s.cooldowns[userID] = struct{}{}
	time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.cooldowns, userID)
		s.mu.Unlock()
	})
	return true
}
