package discord

import (
	"time"

	"pung-bot/backend/internal/dispatch"

	"github.com/bwmarrin/discordgo"
)

// tag renders "name#1234", or just the username for accounts on the new
// username system
func tag(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

func displayName(u *discordgo.User, m *discordgo.Member) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	if u != nil && u.GlobalName != "" {
		return u.GlobalName
	}
	if u != nil {
		return u.Username
	}
	return ""
}

func createdAt(id string) time.Time {
	t, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toUser(u *discordgo.User) dispatch.User {
	if u == nil {
		return dispatch.User{}
	}
	return dispatch.User{
		ID:        u.ID,
		Username:  u.Username,
		Tag:       tag(u),
		Bot:       u.Bot,
		CreatedAt: createdAt(u.ID),
	}
}

func toMember(m *discordgo.Member) dispatch.Member {
	return dispatch.Member{
		User:        toUser(m.User),
		DisplayName: displayName(m.User, m),
		RoleIDs:     append([]string(nil), m.Roles...),
		JoinedAt:    m.JoinedAt,
	}
}

func toGuild(g *discordgo.Guild) dispatch.Guild {
	count := g.MemberCount
	if count == 0 {
		count = g.ApproximateMemberCount
	}
	return dispatch.Guild{
		ID:          g.ID,
		Name:        g.Name,
		OwnerID:     g.OwnerID,
		MemberCount: count,
		PremiumTier: int(g.PremiumTier),
		Boosts:      g.PremiumSubscriptionCount,
		CreatedAt:   createdAt(g.ID),
	}
}

// toEvent converts a gateway message. The member payload on a message carries
// roles and nickname but no user.
func toEvent(m *discordgo.Message, channelName string) *dispatch.Event {
	ev := &dispatch.Event{
		MessageID:   m.ID,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		ChannelName: channelName,
		Content:     m.Content,
	}
	if m.Author != nil {
		ev.Author = dispatch.Author{
			ID:          m.Author.ID,
			Username:    m.Author.Username,
			Tag:         tag(m.Author),
			DisplayName: displayName(m.Author, m.Member),
			Bot:         m.Author.Bot,
		}
	}
	if m.Member != nil {
		ev.Author.RoleIDs = append([]string(nil), m.Member.Roles...)
	}
	for _, u := range m.Mentions {
		ev.Mentions = append(ev.Mentions, toUser(u))
	}
	return ev
}
