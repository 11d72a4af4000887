package dispatch

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Bot permissions checked before privileged actions
const (
	PermissionAdministrator  = int64(discordgo.PermissionAdministrator)
	PermissionBanMembers     = int64(discordgo.PermissionBanMembers)
	PermissionKickMembers    = int64(discordgo.PermissionKickMembers)
	PermissionModerateMember = int64(discordgo.PermissionModerateMembers)
	PermissionManageRoles    = int64(discordgo.PermissionManageRoles)
	PermissionManageChannels = int64(discordgo.PermissionManageChannels)
)

// User is a chat platform account
type User struct {
	ID        string
	Username  string
	Tag       string
	Bot       bool
	CreatedAt time.Time
}

// Author is the sender of an incoming message
type Author struct {
	ID          string
	Username    string
	Tag         string
	DisplayName string
	Bot         bool
	RoleIDs     []string
}

// Event is an incoming guild or direct message
type Event struct {
	MessageID   string
	GuildID     string // empty for direct messages
	ChannelID   string
	ChannelName string
	Author      Author
	Mentions    []User
	Content     string
}

// Member is a user's guild membership
type Member struct {
	User        User
	DisplayName string
	RoleIDs     []string
	JoinedAt    time.Time
}

// HasRole reports whether the member holds roleID
func (m Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Role is a guild role
type Role struct {
	ID       string
	Name     string
	Position int
}

// Guild is a community server
type Guild struct {
	ID          string
	Name        string
	OwnerID     string
	MemberCount int
	PremiumTier int
	Boosts      int
	CreatedAt   time.Time
}

// Channel is a guild channel
type Channel struct {
	ID   string
	Name string
	Text bool
}

// Platform is everything the dispatcher needs from the chat service. Errors
// returned by implementations are PlatformErrors.
type Platform interface {
	BotUserID() string

	Reply(ctx context.Context, channelID, messageID, content string) (string, error)
	Send(ctx context.Context, channelID, content string) (string, error)
	Edit(ctx context.Context, channelID, messageID, content string) error
	Delete(ctx context.Context, channelID, messageID string) error
	React(ctx context.Context, channelID, messageID, emoji string) error
	DirectMessage(ctx context.Context, userID, content string) error

	Guild(ctx context.Context, guildID string) (Guild, error)
	Member(ctx context.Context, guildID, userID string) (Member, error)
	Members(ctx context.Context, guildID string) ([]Member, error)
	Roles(ctx context.Context, guildID string) ([]Role, error)
	Channels(ctx context.Context, guildID string) ([]Channel, error)
	BotPermissions(ctx context.Context, guildID string) (int64, error)
	BotHighestRolePosition(ctx context.Context, guildID string) (int, error)

	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error
	Unban(ctx context.Context, guildID, userID, reason string) error
	Timeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	SetChannelLocked(ctx context.Context, guildID, channelID string, locked bool) error
}

func hasPermission(perms, flag int64) bool {
	return perms&PermissionAdministrator != 0 || perms&flag == flag
}
