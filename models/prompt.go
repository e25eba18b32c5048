package models

// PromptRecord remembers which interactive prompt was delivered to a member so
// the message can be found and deactivated after a process restart. Disabled
// only ever transitions false -> true.
type PromptRecord struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	Disabled  bool   `json:"disabled"`
}
