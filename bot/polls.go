package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handlePollVote records a single-choice vote and rewrites the announcement
// with the new counts. Polls only live in memory, so after a restart every
// old poll message answers with the inactive notice.
func (b *Bot) handlePollVote(i *discordgo.InteractionCreate, customID string) {
	session, _, err := b.runningSession()
	if err != nil {
		return
	}
	user := interactionUser(i)
	if user == nil || i.Message == nil {
		return
	}

	option, err := strconv.Atoi(strings.TrimPrefix(customID, "poll_option_"))
	if err != nil {
		log.Errorf("Malformed poll option ID %q: %v", customID, err)
		return
	}

	poll, ok := b.state.castVote(i.Message.ID, user.ID, option)
	if !ok {
		b.replyEphemeral(session, i, "This poll is no longer active.")
		return
	}

	err = session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{pollEmbed(&poll)},
		},
	})
	if err != nil {
		log.Errorf("Failed to update poll message %s: %v", i.Message.ID, err)
		return
	}

	_, err = session.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("You voted for: %s", poll.Options[option]),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Failed to confirm vote to user %s: %v", user.ID, err)
	}
}
