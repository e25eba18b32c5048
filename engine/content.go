package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/models"
)

// PromptButtonID is the component custom id carried by the morning prompt
// button; interaction handlers match on it to open the report flow.
const PromptButtonID = "daily_complete_btn"

const (
	colorPrompt   = 0x3498db
	colorDone     = 0x2ecc71
	colorReminder = 0xe67e22
	colorSummary  = 0xe74c3c
	colorBlockers = 0xf1c40f
)

// dateHeader is the channel banner announcing a new dailies day.
func dateHeader(now time.Time) string {
	return fmt.Sprintf("# Dailies for %s, %s", now.Weekday(), now.Format("02/01/2006"))
}

func promptMessage(now time.Time) messaging.Message {
	return messaging.Message{
		Embed: &messaging.Embed{
			Title:       "Good morning! Time for your daily",
			Description: "Press the button below to submit today's update.",
			Color:       colorPrompt,
			Footer:      now.Format("Monday 02/01/2006"),
		},
		Buttons: []messaging.Button{
			{Label: "Complete daily", CustomID: PromptButtonID},
		},
	}
}

// completedPromptMessage is the edited form of a prompt whose daily was
// submitted: same card, disabled button.
func completedPromptMessage() messaging.Message {
	return messaging.Message{
		Embed: &messaging.Embed{
			Title:       "Daily submitted",
			Description: "Thanks! Today's update is in.",
			Color:       colorDone,
		},
		Buttons: []messaging.Button{
			{Label: "Complete daily", CustomID: PromptButtonID, Disabled: true},
		},
	}
}

func reminderMessage() messaging.Message {
	return messaging.Message{
		Embed: &messaging.Embed{
			Title:       "Reminder: daily pending",
			Description: "You have not submitted today's daily yet. The morning message still works.",
			Color:       colorReminder,
		},
	}
}

// summaryMessage lists the members who never submitted, mention form.
func summaryMessage(now time.Time, missing []messaging.Member) messaging.Message {
	mentions := make([]string, 0, len(missing))
	for _, m := range missing {
		mentions = append(mentions, m.Mention())
	}
	return messaging.Message{
		Embed: &messaging.Embed{
			Title:       "End of day",
			Description: fmt.Sprintf("%d member(s) did not submit a daily today.", len(missing)),
			Color:       colorSummary,
			Fields: []messaging.EmbedField{
				{Name: "Missing", Value: strings.Join(mentions, " ")},
			},
			Footer: now.Format("Monday 02/01/2006"),
		},
	}
}

// reportMessage renders a submitted daily as a channel card. Blockers turn
// the card yellow so they stand out in the scrollback.
func reportMessage(display, userID string, rec models.SubmissionRecord) messaging.Message {
	color := colorDone
	if rec.HasBlockers() {
		color = colorBlockers
	}
	return messaging.Message{
		Embed: &messaging.Embed{
			Title: fmt.Sprintf("Daily from %s", display),
			Color: color,
			Fields: []messaging.EmbedField{
				{Name: "Feeling", Value: rec.Feeling},
				{Name: "Yesterday", Value: rec.Yesterday},
				{Name: "Today", Value: rec.Today},
				{Name: "Blockers", Value: rec.Blockers},
			},
			Footer:    (messaging.Member{ID: userID}).Mention(),
			Timestamp: rec.Timestamp.Format(time.RFC3339),
		},
	}
}
