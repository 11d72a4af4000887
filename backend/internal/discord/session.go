package discord

import (
	"context"
	"sort"
	"time"

	"pung-bot/backend/internal/dispatch"
	apperrors "pung-bot/backend/pkg/errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	membersPageSize = 1000
	// pause between the parts of a split message
	chunkDelay = 100 * time.Millisecond
)

// Session adapts a discordgo session to the dispatcher's Platform
type Session struct {
	s      *discordgo.Session
	logger *zap.Logger
}

var _ dispatch.Platform = (*Session)(nil)

// NewSession wraps an open discordgo session
func NewSession(s *discordgo.Session, logger *zap.Logger) *Session {
	return &Session{s: s, logger: logger}
}

// BotUserID returns the logged-in bot user, empty before Ready
func (p *Session) BotUserID() string {
	if p.s == nil || p.s.State == nil || p.s.State.User == nil {
		return ""
	}
	return p.s.State.User.ID
}

func (p *Session) ready() error {
	if p.s == nil {
		return apperrors.ErrPlatformSessionUnavailable
	}
	return nil
}

// Reply answers a message, splitting long content. The first part references
// the trigger and its ID is returned.
func (p *Session) Reply(ctx context.Context, channelID, messageID, content string) (string, error) {
	if err := p.ready(); err != nil {
		return "", err
	}
	chunks := chunkMessage(content)
	ref := &discordgo.MessageReference{MessageID: messageID, ChannelID: channelID}
	first, err := p.s.ChannelMessageSendReply(channelID, chunks[0], ref, discordgo.WithContext(ctx))
	if err != nil {
		return "", apperrors.NewPlatformError("reply", err)
	}
	if err := p.sendRest(ctx, channelID, chunks[1:]); err != nil {
		return first.ID, err
	}
	return first.ID, nil
}

// Send posts content to a channel, splitting it like Reply
func (p *Session) Send(ctx context.Context, channelID, content string) (string, error) {
	if err := p.ready(); err != nil {
		return "", err
	}
	chunks := chunkMessage(content)
	first, err := p.s.ChannelMessageSend(channelID, chunks[0], discordgo.WithContext(ctx))
	if err != nil {
		return "", apperrors.NewPlatformError("send", err)
	}
	if err := p.sendRest(ctx, channelID, chunks[1:]); err != nil {
		return first.ID, err
	}
	return first.ID, nil
}

func (p *Session) sendRest(ctx context.Context, channelID string, chunks []string) error {
	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return apperrors.NewContextCancelled("send", ctx.Err())
		case <-time.After(chunkDelay):
		}
		if _, err := p.s.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			p.logger.Error("Failed to send message chunk",
				zap.Error(err),
				zap.String("channel_id", channelID),
				zap.Int("chunk", i+2),
				zap.Int("total_chunks", len(chunks)+1),
			)
			return apperrors.NewPlatformError("send", err)
		}
	}
	return nil
}

// Edit replaces a message's content
func (p *Session) Edit(ctx context.Context, channelID, messageID, content string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if _, err := p.s.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("edit", err)
	}
	return nil
}

// Delete removes a message
func (p *Session) Delete(ctx context.Context, channelID, messageID string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if err := p.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("delete", err)
	}
	return nil
}

// React adds an emoji reaction to a message
func (p *Session) React(ctx context.Context, channelID, messageID, emoji string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if err := p.s.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("react", err)
	}
	return nil
}

// DirectMessage opens a DM channel with the user and sends content
func (p *Session) DirectMessage(ctx context.Context, userID, content string) error {
	if err := p.ready(); err != nil {
		return err
	}
	ch, err := p.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return apperrors.NewPlatformError("open dm", err)
	}
	if _, err := p.s.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("dm", err)
	}
	return nil
}

func (p *Session) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if p.s.State != nil {
		if g, err := p.s.State.Guild(guildID); err == nil {
			return g, nil
		}
	}
	g, err := p.s.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, apperrors.NewPlatformError("guild", err)
	}
	return g, nil
}

// Guild returns guild info, from state when cached
func (p *Session) Guild(ctx context.Context, guildID string) (dispatch.Guild, error) {
	if err := p.ready(); err != nil {
		return dispatch.Guild{}, err
	}
	g, err := p.guild(ctx, guildID)
	if err != nil {
		return dispatch.Guild{}, err
	}
	return toGuild(g), nil
}

// Member returns one guild member, from state when cached
func (p *Session) Member(ctx context.Context, guildID, userID string) (dispatch.Member, error) {
	if err := p.ready(); err != nil {
		return dispatch.Member{}, err
	}
	m, err := p.member(ctx, guildID, userID)
	if err != nil {
		return dispatch.Member{}, err
	}
	return toMember(m), nil
}

func (p *Session) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if p.s.State != nil {
		if m, err := p.s.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}
	m, err := p.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, apperrors.NewPlatformError("member", err)
	}
	return m, nil
}

// Members pages through the whole member list
func (p *Session) Members(ctx context.Context, guildID string) ([]dispatch.Member, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	var out []dispatch.Member
	after := ""
	for {
		page, err := p.s.GuildMembers(guildID, after, membersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, apperrors.NewPlatformError("members", err)
		}
		for _, m := range page {
			out = append(out, toMember(m))
		}
		if len(page) < membersPageSize {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (p *Session) roles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	roles, err := p.s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, apperrors.NewPlatformError("roles", err)
	}
	return roles, nil
}

// Roles lists guild roles from the highest position down
func (p *Session) Roles(ctx context.Context, guildID string) ([]dispatch.Role, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	roles, err := p.roles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	out := make([]dispatch.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, dispatch.Role{ID: r.ID, Name: r.Name, Position: r.Position})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position > out[j].Position })
	return out, nil
}

// Channels lists the guild's channels
func (p *Session) Channels(ctx context.Context, guildID string) ([]dispatch.Channel, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	channels, err := p.s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, apperrors.NewPlatformError("channels", err)
	}
	out := make([]dispatch.Channel, 0, len(channels))
	for _, c := range channels {
		out = append(out, dispatch.Channel{ID: c.ID, Name: c.Name, Text: c.Type == discordgo.ChannelTypeGuildText})
	}
	return out, nil
}

// BotPermissions resolves the bot's guild-level permission bits from its roles
func (p *Session) BotPermissions(ctx context.Context, guildID string) (int64, error) {
	if err := p.ready(); err != nil {
		return 0, err
	}
	g, err := p.guild(ctx, guildID)
	if err != nil {
		return 0, err
	}
	botID := p.BotUserID()
	m, err := p.member(ctx, guildID, botID)
	if err != nil {
		return 0, err
	}
	roles, err := p.roles(ctx, guildID)
	if err != nil {
		return 0, err
	}
	return memberPermissions(guildID, g.OwnerID == botID, m.Roles, roles), nil
}

// BotHighestRolePosition returns the position of the bot's top role
func (p *Session) BotHighestRolePosition(ctx context.Context, guildID string) (int, error) {
	if err := p.ready(); err != nil {
		return 0, err
	}
	m, err := p.member(ctx, guildID, p.BotUserID())
	if err != nil {
		return 0, err
	}
	roles, err := p.roles(ctx, guildID)
	if err != nil {
		return 0, err
	}
	return highestPosition(m.Roles, roles), nil
}

// Kick removes a member from the guild
func (p *Session) Kick(ctx context.Context, guildID, userID, reason string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if err := p.s.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("kick", err)
	}
	return nil
}

// Ban bans a user and prunes their recent messages
func (p *Session) Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error {
	if err := p.ready(); err != nil {
		return err
	}
	if err := p.s.GuildBanCreateWithReason(guildID, userID, reason, deleteMessageDays, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("ban", err)
	}
	return nil
}

// Unban lifts a ban
func (p *Session) Unban(ctx context.Context, guildID, userID, reason string) error {
	if err := p.ready(); err != nil {
		return err
	}
	err := p.s.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	if err != nil {
		return apperrors.NewPlatformError("unban", err)
	}
	return nil
}

// Timeout mutes a member until the given time. A nil until lifts the timeout.
func (p *Session) Timeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	if err := p.ready(); err != nil {
		return err
	}
	err := p.s.GuildMemberTimeout(guildID, userID, until, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	if err != nil {
		return apperrors.NewPlatformError("timeout", err)
	}
	return nil
}

// AddRole grants a role to a member
func (p *Session) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if err := p.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("add role", err)
	}
	return nil
}

// RemoveRole takes a role from a member
func (p *Session) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if err := p.s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return apperrors.NewPlatformError("remove role", err)
	}
	return nil
}

// SetChannelLocked denies or restores SendMessages for @everyone, whose role
// ID equals the guild ID. Every other bit of the existing overwrite is kept.
func (p *Session) SetChannelLocked(ctx context.Context, guildID, channelID string, locked bool) error {
	if err := p.ready(); err != nil {
		return err
	}
	allow, deny, err := p.everyoneOverwrite(ctx, guildID, channelID)
	if err != nil {
		return err
	}
	allow, deny = lockOverwrite(allow, deny, locked)
	err = p.s.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole, allow, deny, discordgo.WithContext(ctx))
	if err != nil {
		return apperrors.NewPlatformError("lock channel", err)
	}
	return nil
}

// everyoneOverwrite reads the channel's current @everyone overwrite, zero when absent
func (p *Session) everyoneOverwrite(ctx context.Context, guildID, channelID string) (allow, deny int64, err error) {
	var ch *discordgo.Channel
	if p.s.State != nil {
		ch, _ = p.s.State.Channel(channelID)
	}
	if ch == nil {
		ch, err = p.s.Channel(channelID, discordgo.WithContext(ctx))
		if err != nil {
			return 0, 0, apperrors.NewPlatformError("channel", err)
		}
	}
	for _, o := range ch.PermissionOverwrites {
		if o.ID == guildID && o.Type == discordgo.PermissionOverwriteTypeRole {
			return o.Allow, o.Deny, nil
		}
	}
	return 0, 0, nil
}

func lockOverwrite(allow, deny int64, locked bool) (int64, int64) {
	if locked {
		return allow &^ discordgo.PermissionSendMessages, deny | discordgo.PermissionSendMessages
	}
	return allow, deny &^ discordgo.PermissionSendMessages
}

// memberPermissions ORs @everyone with the member's roles. Owners get everything.
func memberPermissions(guildID string, isOwner bool, memberRoles []string, roles []*discordgo.Role) int64 {
	if isOwner {
		return discordgo.PermissionAll
	}
	held := make(map[string]bool, len(memberRoles)+1)
	held[guildID] = true
	for _, id := range memberRoles {
		held[id] = true
	}
	var perms int64
	for _, r := range roles {
		if held[r.ID] {
			perms |= r.Permissions
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

func highestPosition(memberRoles []string, roles []*discordgo.Role) int {
	held := make(map[string]bool, len(memberRoles))
	for _, id := range memberRoles {
		held[id] = true
	}
	highest := 0
	for _, r := range roles {
		if held[r.ID] && r.Position > highest {
			highest = r.Position
		}
	}
	return highest
}
