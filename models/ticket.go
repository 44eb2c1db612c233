package models

// Ticket records an open support channel. Presence in the session store's
// ticket map is what marks a ticket as open; closing removes the entry.
type Ticket struct {
	UserID           string
	ChannelID        string
	WelcomeMessageID string
}
