package intent

import (
	"context"
	"math"

	"pung-bot/backend/internal/constants"
)

// ModerationAction is the closed set of moderation verbs
type ModerationAction string

const (
	ModerationNone       ModerationAction = "none"
	ModerationWarn       ModerationAction = "warn"
	ModerationKick       ModerationAction = "kick"
	ModerationBan        ModerationAction = "ban"
	ModerationMute       ModerationAction = "mute"
	ModerationUnban      ModerationAction = "unban"
	ModerationUnmute     ModerationAction = "unmute"
	ModerationRemoveWarn ModerationAction = "removewarn"
)

var moderationActions = map[ModerationAction]bool{
	ModerationNone: true, ModerationWarn: true, ModerationKick: true, ModerationBan: true,
	ModerationMute: true, ModerationUnban: true, ModerationUnmute: true, ModerationRemoveWarn: true,
}

// ModerationIntent is a sanitized moderation request
type ModerationIntent struct {
	Action          ModerationAction
	TargetID        string // numeric user id, empty when none was given
	Reason          string
	DurationMinutes int
}

// DefaultModerationIntent is the "no moderation" result
func DefaultModerationIntent() ModerationIntent {
	return ModerationIntent{Action: ModerationNone, DurationMinutes: constants.DefaultMuteMinutes}
}

const moderationPrompt = `You are a parser that extracts simple moderation commands into JSON.
Return only valid JSON with fields: action, target_id, reason, duration.
action is one of ["none","warn","kick","ban","mute","unban","unmute","removewarn"].
target_id should be the numeric Discord user id if available, otherwise null.
duration is only for mute action, in minutes (e.g., 10 for 10 minutes, 60 for 1 hour). Default is 10 if not specified.
If message is not a moderation command return {"action":"none","target_id":null,"reason":"","duration":10}.

Examples:
- "ban @user for spamming" -> {"action":"ban","target_id":"123","reason":"spamming","duration":10}
- "mute him for 30 minutes" -> {"action":"mute","target_id":null,"reason":"","duration":30}
- "kick that guy" -> {"action":"kick","target_id":null,"reason":"","duration":10}
- "unban @user" -> {"action":"unban","target_id":"123","reason":"","duration":10}
- "unmute @user" -> {"action":"unmute","target_id":"123","reason":"","duration":10}
- "remove warn from @user" -> {"action":"removewarn","target_id":"123","reason":"","duration":10}`

// Moderation classifies a moderation command
func (c *Classifier) Moderation(ctx context.Context, text string) ModerationIntent {
	fields, ok := c.decode(ctx, "moderation", moderationPrompt, quoted(text))
	if !ok {
		return DefaultModerationIntent()
	}
	intent := sanitizeModeration(fields)
	c.record("moderation", intent.Action != ModerationNone)
	return intent
}

func sanitizeModeration(fields map[string]any) ModerationIntent {
	intent := DefaultModerationIntent()

	action := ModerationAction(asString(fields["action"]))
	if moderationActions[action] {
		intent.Action = action
	}
	intent.TargetID = digitsOnly(asString(fields["target_id"]))
	intent.Reason = truncate(asString(fields["reason"]), constants.MaxReasonLength)

	if n, ok := asNumber(fields["duration"]); ok && n != 0 {
		n = math.Round(n)
		n = math.Max(1, math.Min(constants.MaxMuteMinutes, n))
		intent.DurationMinutes = int(n)
	}
	return intent
}
