package bot

import (
	"context"
	"fmt"
	"strings"

	"supportbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const commandPrefix = "!"

// handleMessageCreate awards message XP and dispatches prefixed commands.
// Events are delivered at least once; every branch here tolerates a rapid
// double-fire.
func (b *Bot) handleMessageCreate(m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx := context.Background()
	b.progression.AwardMessageXP(ctx, m.Author.ID, m.Author.Username, m.ChannelID)

	if !strings.HasPrefix(m.Content, commandPrefix) {
		return
	}
	command := strings.ToLower(strings.TrimPrefix(m.Content, commandPrefix))

	switch command {
	case "rock", "paper", "scissors":
		b.playRockPaperScissors(ctx, m, command)
	case "credits":
		b.showCredits(ctx, m)
	case "level":
		b.showLevel(ctx, m)
	}
	// Unrecognized tokens are ignored without a reply.
}

// handleInteractionCreate routes button clicks; other interaction kinds are
// ignored.
func (b *Bot) handleInteractionCreate(i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case customID == "open_ticket":
		b.openTicket(i)
	case customID == "close_ticket":
		b.closeTicket(i)
	case strings.HasPrefix(customID, "poll_option_"):
		b.handlePollVote(i, customID)
	}
}

func (b *Bot) showCredits(ctx context.Context, m *discordgo.MessageCreate) {
	progress := b.progression.GetProgress(ctx, m.Author.ID, m.Author.Username)
	b.replyToMessage(m, fmt.Sprintf("Your current credit balance is: %d", progress.Credits))
}

func (b *Bot) showLevel(ctx context.Context, m *discordgo.MessageCreate) {
	progress := b.progression.GetProgress(ctx, m.Author.ID, m.Author.Username)
	b.replyToMessage(m, fmt.Sprintf("Your current level is: %s\nXP: %d\nXP needed for next level: %d",
		progress.Level, progress.XP, models.XPToNext(progress.XP)))
}

func (b *Bot) replyToMessage(m *discordgo.MessageCreate, content string) {
	session, _, err := b.runningSession()
	if err != nil {
		return
	}
	if _, err := session.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		log.Errorf("Error replying in channel %s: %v", m.ChannelID, err)
	}
}
