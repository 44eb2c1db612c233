package bot

import (
	"context"
	"fmt"

	"supportbot/events"
	"supportbot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// openTicket creates a private support channel visible only to the
// requester and the admin role. One open ticket per user; the session map
// entry is written only after channel and welcome message both exist.
func (b *Bot) openTicket(i *discordgo.InteractionCreate) {
	session, cfg, err := b.runningSession()
	if err != nil {
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}

	if _, open := b.state.ticketFor(user.ID); open {
		b.replyEphemeral(session, i, "You already have an open ticket!")
		return
	}
	if cfg.AdminRoleID == "" {
		log.Error("Admin role ID is not set, cannot create ticket")
		b.replyEphemeral(session, i, "Unable to create ticket. Please contact an administrator.")
		return
	}

	channel, err := session.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name: "ticket-" + user.Username,
		Type: discordgo.ChannelTypeGuildText,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   i.GuildID, // @everyone
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    user.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel,
			},
			{
				ID:    cfg.AdminRoleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel,
			},
		},
	})
	if err != nil {
		log.Errorf("Failed to create ticket channel for user %s: %v", user.ID, err)
		b.replyEphemeral(session, i, "An error occurred while creating the ticket. Please try again later.")
		return
	}

	welcome, err := session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("Ticket opened by <@%s>. An admin will be with you shortly.", user.ID),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Close Ticket",
						Style:    discordgo.DangerButton,
						CustomID: "close_ticket",
					},
				},
			},
		},
	})
	if err != nil {
		log.Errorf("Failed to send ticket welcome message: %v", err)
		if _, err := session.ChannelDelete(channel.ID); err != nil {
			log.Errorf("Failed to remove orphaned ticket channel %s: %v", channel.ID, err)
		}
		b.replyEphemeral(session, i, "An error occurred while creating the ticket. Please try again later.")
		return
	}

	// Re-check after the platform round trips: a concurrent open may have
	// recorded a ticket while ours was being created.
	if !b.state.addTicket(models.Ticket{UserID: user.ID, ChannelID: channel.ID, WelcomeMessageID: welcome.ID}) {
		if _, err := session.ChannelDelete(channel.ID); err != nil {
			log.Errorf("Failed to remove duplicate ticket channel %s: %v", channel.ID, err)
		}
		b.replyEphemeral(session, i, "You already have an open ticket!")
		return
	}

	b.bus.Emit(context.Background(), events.TicketOpenedEvent{UserID: user.ID, ChannelID: channel.ID})
	b.replyEphemeral(session, i, fmt.Sprintf("Ticket opened! Please check <#%s>", channel.ID))
}

// closeTicket resolves the owner by reverse lookup from the welcome message
// carrying the close button, removes the entry and deletes the channel.
func (b *Bot) closeTicket(i *discordgo.InteractionCreate) {
	session, _, err := b.runningSession()
	if err != nil {
		return
	}
	if i.Message == nil {
		return
	}

	ticket, found := b.state.removeTicketByMessage(i.Message.ID)
	if !found {
		b.replyEphemeral(session, i, "This ticket cannot be found or has already been closed.")
		return
	}

	if _, err := session.ChannelDelete(ticket.ChannelID); err != nil {
		log.Errorf("Failed to delete ticket channel %s: %v", ticket.ChannelID, err)
	}
	b.bus.Emit(context.Background(), events.TicketClosedEvent{UserID: ticket.UserID, ChannelID: ticket.ChannelID})
}

// interactionUser returns the invoking user for guild or DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}
