package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"supportbot/events"
	"supportbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorInfo    = 0x0099ff
	colorWarning = 0xFF0000
	colorLevelUp = 0xFFD700
)

const supportAnnouncement = "Open a ticket!\nClick the button below and a support representative will assist you as soon as possible!"

// maxButtonsPerRow is the platform cap on buttons in one action row.
const maxButtonsPerRow = 5

// SendMessage posts the support announcement embed with the open-ticket
// button to the target channel.
func (b *Bot) SendMessage(ctx context.Context, text string) error {
	session, cfg, err := b.runningSession()
	if err != nil {
		return err
	}
	if err := checkTextChannel(session, cfg.ChannelID); err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorInfo,
		Title:       "Community Support",
		Description: text,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Support is handled through tickets"},
	}
	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Open Ticket",
				Style:    discordgo.PrimaryButton,
				CustomID: "open_ticket",
			},
		},
	}

	if _, err := session.ChannelMessageSendComplex(cfg.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{row},
	}); err != nil {
		return fmt.Errorf("failed to send support message: %w", err)
	}

	log.Info("Support message sent")
	return nil
}

// CreatePoll announces a poll with one voting button per option and
// registers it in the session store keyed by the sent message. The entry is
// only written once the send succeeded.
func (b *Bot) CreatePoll(ctx context.Context, question string, options []string) error {
	if question == "" || len(options) < 2 {
		return ErrInvalidPoll
	}
	for _, option := range options {
		if strings.TrimSpace(option) == "" {
			return ErrInvalidPoll
		}
	}

	session, cfg, err := b.runningSession()
	if err != nil {
		return err
	}
	if err := checkTextChannel(session, cfg.ChannelID); err != nil {
		return err
	}

	poll := models.NewPoll(question, options)
	message, err := session.ChannelMessageSendComplex(cfg.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{pollEmbed(poll)},
		Components: pollButtons(len(options)),
	})
	if err != nil {
		return fmt.Errorf("failed to send poll: %w", err)
	}

	b.state.addPoll(message.ID, poll)
	log.Infof("Poll created with %d options", len(options))
	return nil
}

// UpdatePresence sets the bot's activity text.
func (b *Bot) UpdatePresence(ctx context.Context, presence string) error {
	session, _, err := b.runningSession()
	if err != nil {
		return err
	}
	if err := session.UpdateGameStatus(0, presence); err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}
	return nil
}

// SendWarning delivers a warning embed to the user's direct messages.
func (b *Bot) SendWarning(ctx context.Context, userID, title, body string) error {
	session, _, err := b.runningSession()
	if err != nil {
		return err
	}

	dm, err := session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserUnreachable, err)
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorWarning,
		Title:       "⚠️ " + title,
		Description: body,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if _, err := session.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrUserUnreachable, err)
	}

	log.Infof("Warning sent to user %s", userID)
	return nil
}

// announceLevelUp posts the level-up embed into the channel the qualifying
// message arrived in. Subscribed to the event bus in New.
func (b *Bot) announceLevelUp(ctx context.Context, event events.Event) {
	e, ok := event.(events.LevelUpEvent)
	if !ok {
		return
	}
	session, _, err := b.runningSession()
	if err != nil {
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorLevelUp,
		Title:       "🎉 Level Up! 🎉",
		Description: fmt.Sprintf("Congratulations <@%s>! You've reached level %s!", e.UserID, e.NewLevel),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Current XP", Value: fmt.Sprintf("%d", e.XP), Inline: true},
			{Name: "XP for Next Level", Value: fmt.Sprintf("%d", e.XPToNext), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if _, err := session.ChannelMessageSendComplex(e.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Errorf("Failed to announce level up for user %s: %v", e.UserID, err)
	}
}

func pollEmbed(poll *models.Poll) *discordgo.MessageEmbed {
	lines := make([]string, len(poll.Options))
	for i, option := range poll.Options {
		count := poll.VoteCount(i)
		suffix := "s"
		if count == 1 {
			suffix = ""
		}
		lines[i] = fmt.Sprintf("%d. %s (%d vote%s)", i+1, option, count, suffix)
	}
	return &discordgo.MessageEmbed{
		Color:       colorInfo,
		Title:       "📊 " + poll.Question,
		Description: strings.Join(lines, "\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Vote by clicking a button below!"},
	}
}

// pollButtons builds one voting button per option in declaration order,
// chunked into action rows of at most five.
func pollButtons(count int) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for start := 0; start < count; start += maxButtonsPerRow {
		end := start + maxButtonsPerRow
		if end > count {
			end = count
		}
		var buttons []discordgo.MessageComponent
		for i := start; i < end; i++ {
			buttons = append(buttons, discordgo.Button{
				Label:    fmt.Sprintf("Option %d", i+1),
				Style:    discordgo.PrimaryButton,
				CustomID: fmt.Sprintf("poll_option_%d", i),
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

// checkTextChannel verifies the target resolves to a text-capable channel.
func checkTextChannel(session Session, channelID string) error {
	channel, err := session.Channel(channelID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChannel, err)
	}
	switch channel.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return nil
	default:
		return ErrInvalidChannel
	}
}

// replyEphemeral answers an interaction with a message only the invoker
// sees. Failures are logged; there is nothing further to surface.
func (b *Bot) replyEphemeral(session Session, i *discordgo.InteractionCreate, content string) {
	err := session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending ephemeral response: %v", err)
	}
}
