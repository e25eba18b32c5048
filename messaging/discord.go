package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/utils"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// Discord implements Messenger against the Discord REST API with bot-token
// auth. Group IDs are guild IDs; membership is the union of the configured
// team roles, bots excluded.
type Discord struct {
	baseURL     string
	token       string
	teamRoles   []string
	memberCache time.Duration
}

// NewDiscord builds a client from application configuration.
func NewDiscord(cfg config.AppConfig) *Discord {
	return &Discord{
		baseURL:     cfg.ChatAPIBaseURL,
		token:       cfg.BotToken,
		teamRoles:   cfg.TeamRoleIDs,
		memberCache: time.Duration(cfg.MemberCacheSec) * time.Second,
	}
}

type discordMessagePayload struct {
	Content    string             `json:"content,omitempty"`
	Embeds     []discordEmbed     `json:"embeds,omitempty"`
	Components []discordActionRow `json:"components,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []EmbedField        `json:"fields,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

func toDiscordEmbed(e Embed) discordEmbed {
	de := discordEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
		Fields:      e.Fields,
		Timestamp:   e.Timestamp,
	}
	if e.Footer != "" {
		de.Footer = &discordEmbedFooter{Text: e.Footer}
	}
	return de
}

type discordActionRow struct {
	Type       int             `json:"type"`
	Components []discordButton `json:"components"`
}

type discordButton struct {
	Type     int    `json:"type"`
	Style    int    `json:"style"`
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
	Disabled bool   `json:"disabled"`
}

func buildPayload(msg Message) discordMessagePayload {
	p := discordMessagePayload{Content: msg.Content}
	if msg.Embed != nil {
		p.Embeds = []discordEmbed{toDiscordEmbed(*msg.Embed)}
	}
	if len(msg.Buttons) > 0 {
		row := discordActionRow{Type: 1}
		for _, b := range msg.Buttons {
			row.Components = append(row.Components, discordButton{
				Type:     2,
				Style:    1, // primary
				Label:    b.Label,
				CustomID: b.CustomID,
				Disabled: b.Disabled,
			})
		}
		p.Components = []discordActionRow{row}
	}
	return p
}

func (d *Discord) do(ctx context.Context, method, path string, body, out any) error {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+d.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord api %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}

// OpenDirectChannel creates (or reuses, server-side) the DM channel for a user.
func (d *Discord) OpenDirectChannel(ctx context.Context, userID string) (string, error) {
	var ch struct {
		ID string `json:"id"`
	}
	err := d.do(ctx, http.MethodPost, "/users/@me/channels", map[string]string{"recipient_id": userID}, &ch)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

// SendDirect opens the user's DM channel and posts the message there.
func (d *Discord) SendDirect(ctx context.Context, userID string, msg Message) (string, string, error) {
	channelID, err := d.OpenDirectChannel(ctx, userID)
	if err != nil {
		return "", "", err
	}
	messageID, err := d.SendChannel(ctx, channelID, msg)
	if err != nil {
		return "", "", err
	}
	return channelID, messageID, nil
}

// SendChannel posts a message to a channel.
func (d *Discord) SendChannel(ctx context.Context, channelID string, msg Message) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	err := d.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", buildPayload(msg), &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// EditMessage rewrites a previously sent message, including its components.
func (d *Discord) EditMessage(ctx context.Context, channelID, messageID string, msg Message) error {
	return d.do(ctx, http.MethodPatch, "/channels/"+channelID+"/messages/"+messageID, buildPayload(msg), nil)
}

type discordGuildMember struct {
	Roles []string `json:"roles"`
	Nick  string   `json:"nick"`
	User  struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Bot        bool   `json:"bot"`
	} `json:"user"`
}

// GroupMembers lists the guild members holding any configured team role.
// Results are cached briefly so the minute-tick evaluators do not stampede
// the member listing endpoint.
func (d *Discord) GroupMembers(ctx context.Context, groupID string) ([]Member, error) {
	cacheKey := "members:" + groupID
	var cached []Member
	if utils.CacheGetJSON(cacheKey, &cached) {
		return cached, nil
	}

	var raw []discordGuildMember
	if err := d.do(ctx, http.MethodGet, "/guilds/"+groupID+"/members?limit=1000", nil, &raw); err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(raw))
	for _, gm := range raw {
		if gm.User.Bot || !d.hasTeamRole(gm.Roles) {
			continue
		}
		display := gm.Nick
		if display == "" {
			display = gm.User.GlobalName
		}
		if display == "" {
			display = gm.User.Username
		}
		members = append(members, Member{
			ID:          gm.User.ID,
			Username:    gm.User.Username,
			DisplayName: display,
		})
	}

	utils.CacheSetJSON(cacheKey, members, d.memberCache)
	return members, nil
}

func (d *Discord) hasTeamRole(roles []string) bool {
	if len(d.teamRoles) == 0 {
		return false
	}
	for _, have := range roles {
		for _, want := range d.teamRoles {
			if have == want {
				return true
			}
		}
	}
	return false
}
