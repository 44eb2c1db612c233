package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Session is the slice of the Discord session the bot uses. Keeping it
// narrow lets the lifecycle and handlers run against a mock in tests;
// discordSession adapts *discordgo.Session to it.
type Session interface {
	Open() error
	Close() error
	AddHandler(handler interface{}) func()

	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	UpdateGameStatus(idle int, name string) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)

	// BotUser returns the authenticated bot account, nil before ready.
	BotUser() *discordgo.User
}

// SessionFactory builds a Session for a token. The controller calls it once
// per Start.
type SessionFactory func(token string) (Session, error)

type discordSession struct {
	*discordgo.Session
}

func (s *discordSession) BotUser() *discordgo.User {
	return s.State.User
}

// NewDiscordSession creates a real gateway session with the intents the
// dispatcher needs (guild messages with content, members for tickets).
func NewDiscordSession(token string) (Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuildMembers
	return &discordSession{dg}, nil
}
