package bot

import (
	"context"
	"fmt"

	"supportbot/models"

	"github.com/bwmarrin/discordgo"
)

var rpsChoices = []string{"rock", "paper", "scissors"}

type rpsOutcome int

const (
	outcomeTie rpsOutcome = iota
	outcomeWin
	outcomeLose
)

// resolveRPS applies standard precedence: rock beats scissors, scissors
// beats paper, paper beats rock.
func resolveRPS(playerChoice, botChoice string) rpsOutcome {
	if playerChoice == botChoice {
		return outcomeTie
	}
	wins := map[string]string{
		"rock":     "scissors",
		"scissors": "paper",
		"paper":    "rock",
	}
	if wins[playerChoice] == botChoice {
		return outcomeWin
	}
	return outcomeLose
}

// playRockPaperScissors runs one round against the bot. A win pays one
// credit. Commands from a user on cooldown are silently dropped; the 3 s
// window keeps the handler idempotent under rapid double-fires.
func (b *Bot) playRockPaperScissors(ctx context.Context, m *discordgo.MessageCreate, playerChoice string) {
	if !b.state.startCooldown(m.Author.ID, b.cooldown) {
		return
	}

	botChoice := rpsChoices[b.pick()]

	var result string
	var progress models.UserProgress
	switch resolveRPS(playerChoice, botChoice) {
	case outcomeWin:
		result = "You win!"
		progress = b.progression.AwardCredits(ctx, m.Author.ID, m.Author.Username, 1)
	case outcomeTie:
		result = "It's a tie!"
		progress = b.progression.GetProgress(ctx, m.Author.ID, m.Author.Username)
	case outcomeLose:
		result = "You lose!"
		progress = b.progression.GetProgress(ctx, m.Author.ID, m.Author.Username)
	}

	b.replyToMessage(m, fmt.Sprintf("You chose %s, I chose %s. %s\nYour current credits: %d",
		playerChoice, botChoice, result, progress.Credits))
}
