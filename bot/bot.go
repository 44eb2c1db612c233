package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"supportbot/events"
	"supportbot/models"
	"supportbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds the per-session values captured by Start and cleared by Stop.
type Config struct {
	Token       string
	ChannelID   string
	AdminRoleID string
}

// Bot is the single-instance lifecycle controller. It owns the platform
// connection, the session state maps and the outbound messaging facade.
// Construct exactly one per process and inject it where it is needed; tests
// build isolated instances with a mock session factory.
type Bot struct {
	newSession  SessionFactory
	progression service.ProgressionService
	bus         *events.Bus
	state       *sessionState

	// cooldown is the mini-game exclusion window; commands from a cooling
	// user are silently ignored.
	cooldown time.Duration

	// pick draws the bot's mini-game choice, uniform by default.
	pick func() int

	mu        sync.Mutex
	running   bool
	session   Session
	cfg       Config
	startTime time.Time
}

// New creates a stopped controller and subscribes the level-up announcer to
// the bus.
func New(newSession SessionFactory, progression service.ProgressionService, bus *events.Bus) *Bot {
	b := &Bot{
		newSession:  newSession,
		progression: progression,
		bus:         bus,
		state:       newSessionState(),
		cooldown:    3 * time.Second,
		pick:        func() int { return rand.Intn(3) },
	}
	bus.Subscribe(events.EventTypeLevelUp, b.announceLevelUp)
	bus.Subscribe(events.EventTypeTicketOpened, logTicketEvent)
	bus.Subscribe(events.EventTypeTicketClosed, logTicketEvent)
	return b
}

// Start connects to the platform and moves the controller to running. The
// three values are captured for the session; an existing connection is never
// replaced.
func (b *Bot) Start(ctx context.Context, token, channelID, adminRoleID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return ErrAlreadyRunning
	}

	session, err := b.newSession(token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.onReady(r)
	})
	session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		b.handleMessageCreate(m)
	})
	session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteractionCreate(i)
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}

	b.session = session
	b.cfg = Config{Token: token, ChannelID: channelID, AdminRoleID: adminRoleID}
	b.running = true
	b.startTime = time.Now()

	log.Info("Bot started successfully")
	return nil
}

// Stop persists progression, tears down the connection and clears the
// captured configuration.
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return ErrNotRunning
	}

	if err := b.progression.Flush(ctx); err != nil {
		log.Errorf("Failed to persist progression table on stop: %v", err)
	}
	if err := b.session.Close(); err != nil {
		log.Errorf("Error closing gateway connection: %v", err)
	}

	b.session = nil
	b.cfg = Config{}
	b.running = false
	b.startTime = time.Time{}

	log.Info("Bot stopped successfully")
	return nil
}

// Status reports the lifecycle snapshot. Safe to call in any state.
func (b *Bot) Status() models.Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	status := models.Status{IsRunning: b.running}
	if !b.running {
		return status
	}
	if user := b.session.BotUser(); user != nil {
		status.BotName = user.Username
	}
	start := b.startTime
	status.StartTime = &start
	return status
}

// runningSession returns the live session and captured config, or
// ErrNotRunning. Handlers call it before every platform operation so work
// that raced a Stop bails out cleanly.
func (b *Bot) runningSession() (Session, Config, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return nil, Config{}, ErrNotRunning
	}
	return b.session, b.cfg, nil
}

// onReady loads the persisted progression table and posts the standing
// support announcement. Load failures start empty; they are never fatal.
func (b *Bot) onReady(r *discordgo.Ready) {
	if r.User != nil {
		log.Infof("Logged in as %s", r.User.Username)
	}

	ctx := context.Background()
	b.progression.Load(ctx)

	if err := b.SendMessage(ctx, supportAnnouncement); err != nil {
		log.Errorf("Failed to send support announcement: %v", err)
	}
}

func logTicketEvent(ctx context.Context, event events.Event) {
	switch e := event.(type) {
	case events.TicketOpenedEvent:
		log.Infof("Ticket opened by user %s in channel %s", e.UserID, e.ChannelID)
	case events.TicketClosedEvent:
		log.Infof("Ticket for user %s closed, channel %s removed", e.UserID, e.ChannelID)
	}
}
