package constants

import "time"

// Discord constants
const (
	// DiscordMaxMessageLength is the maximum character limit for Discord messages
	DiscordMaxMessageLength = 2000
)

// Memory bounds
const (
	// MaxHistory is the number of conversation turns kept per user
	MaxHistory = 10
	// MaxUserMemories is the number of facts kept per user
	MaxUserMemories = 20
	// MaxServerMemories is the number of facts kept per guild
	MaxServerMemories = 50
	// RecentTipsInContext is how many learned tips are spliced into chat prompts
	RecentTipsInContext = 5
)

// Persistence
const (
	// FlushInterval is the periodic full save safety net
	FlushInterval = 5 * time.Minute
	// MessageLogRetention is how long guild messages stay searchable
	MessageLogRetention = time.Hour
	// InactiveAfter marks users as inactive in housekeeping scans
	InactiveAfter = 7 * 24 * time.Hour
)

// Classifier bounds
const (
	MaxReasonLength       = 500
	MaxMuteMinutes        = 10080 // 7 days
	DefaultMuteMinutes    = 10
	MaxErrorReplyLength   = 150
	MaxExtractedFactChars = 100
	MaxCountdown          = 10
)

// Document names
const (
	DocumentMemories  = "memories"
	DocumentAnalytics = "analytics"
	DocumentCommunity = "community"
)

// Documents lists every persisted document in load order
var Documents = []string{DocumentMemories, DocumentAnalytics, DocumentCommunity}
