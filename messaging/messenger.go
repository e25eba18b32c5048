// Package messaging is the boundary to the chat platform. The engine and
// controllers only depend on the Messenger interface; the Discord REST client
// below is the production implementation.
package messaging

import "context"

// Member is one human member of a recipient group. Automated accounts are
// excluded by the implementation.
type Member struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Mention renders the member as a chat mention.
func (m Member) Mention() string {
	return "<@" + m.ID + ">"
}

// EmbedField is one name/value section of a rich message.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Embed is the rich portion of an outbound message, in platform-neutral
// shape; implementations translate it to their wire format.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   string
}

// Button is an interactive affordance attached to a message. Disabled buttons
// render greyed out; reconciliation uses that as the deactivated state.
type Button struct {
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
	Disabled bool   `json:"disabled"`
}

// Message is the platform-independent outbound payload.
type Message struct {
	Content string
	Embed   *Embed
	Buttons []Button
}

// Messenger is the outbound chat boundary. All calls are best-effort: the
// caller logs failures and keeps going, it never blocks overall progress on
// one failed call.
type Messenger interface {
	// SendDirect delivers a DM, returning the channel and message handles.
	SendDirect(ctx context.Context, userID string, msg Message) (channelID, messageID string, err error)
	// SendChannel posts to a channel, returning the message handle.
	SendChannel(ctx context.Context, channelID string, msg Message) (messageID string, err error)
	// EditMessage rewrites an existing message in place.
	EditMessage(ctx context.Context, channelID, messageID string, msg Message) error
	// OpenDirectChannel resolves a fresh DM channel for a user, used when a
	// stored channel handle is no longer resolvable.
	OpenDirectChannel(ctx context.Context, userID string) (string, error)
	// GroupMembers lists the human members of a recipient group.
	GroupMembers(ctx context.Context, groupID string) ([]Member, error)
}
