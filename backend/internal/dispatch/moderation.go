package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pung-bot/backend/internal/constants"
	"pung-bot/backend/internal/intent"
	"pung-bot/backend/internal/metrics"

	"go.uber.org/zap"
)

// Action outcomes reported to metrics
const (
	outcomeOK      = "ok"
	outcomeDenied  = "denied"
	outcomeFailed  = "error"
	outcomeNoop    = "noop"
	outcomeMissing = "not_found"
)

const (
	replyTargetNotFound = "❌ Could not find the target user. Make sure to mention them or provide their user ID!"
	replyOwnerGuard     = "❌ Can't moderate the server owner."
	replySelfGuard      = "❌ I won't moderate myself lol"
)

// requiredPermission maps actions to the bot permission they need and the
// refusal shown when it is missing
var requiredPermission = map[intent.ModerationAction]struct {
	flag  int64
	reply string
}{
	intent.ModerationBan:    {PermissionBanMembers, "❌ I don't have permission to ban/unban members."},
	intent.ModerationUnban:  {PermissionBanMembers, "❌ I don't have permission to ban/unban members."},
	intent.ModerationKick:   {PermissionKickMembers, "❌ I don't have permission to kick members."},
	intent.ModerationMute:   {PermissionModerateMember, "❌ I don't have permission to timeout members."},
	intent.ModerationUnmute: {PermissionModerateMember, "❌ I don't have permission to timeout members."},
}

// moderate classifies text as a moderation request and executes it. It
// reports false when the text is not a moderation request.
func (d *Dispatcher) moderate(ctx context.Context, ev *Event, text string) bool {
	mi := d.classifier.Moderation(ctx, text)
	if mi.Action == intent.ModerationNone {
		return false
	}
	action := string(mi.Action)

	targetID := mi.TargetID
	var target *Member
	if targetID != "" {
		if m, err := d.platform.Member(ctx, ev.GuildID, targetID); err == nil {
			target = &m
		}
	}
	if target == nil {
		if u, ok := d.firstMention(ev); ok {
			targetID = u.ID
			if m, err := d.platform.Member(ctx, ev.GuildID, u.ID); err == nil {
				target = &m
			}
		}
	}
	if target == nil && !(mi.Action == intent.ModerationUnban && targetID != "") {
		d.reply(ctx, ev, replyTargetNotFound)
		metrics.Actions.WithLabelValues(action, outcomeMissing).Inc()
		return true
	}

	guild, err := d.platform.Guild(ctx, ev.GuildID)
	if err != nil {
		d.moderationFailed(ctx, ev, action, err)
		return true
	}
	switch targetID {
	case guild.OwnerID:
		d.reply(ctx, ev, replyOwnerGuard)
		metrics.Actions.WithLabelValues(action, outcomeDenied).Inc()
		return true
	case d.platform.BotUserID():
		d.reply(ctx, ev, replySelfGuard)
		metrics.Actions.WithLabelValues(action, outcomeDenied).Inc()
		return true
	}

	if req, ok := requiredPermission[mi.Action]; ok {
		perms, err := d.platform.BotPermissions(ctx, ev.GuildID)
		if err != nil {
			d.moderationFailed(ctx, ev, action, err)
			return true
		}
		if !hasPermission(perms, req.flag) {
			d.reply(ctx, ev, req.reply)
			metrics.Actions.WithLabelValues(action, outcomeDenied).Inc()
			return true
		}
	}

	reason := mi.Reason
	if reason == "" {
		reason = "Issued by " + ev.Author.Tag
	}

	if err := d.execute(ctx, ev, guild, mi, targetID, target, reason); err != nil {
		d.moderationFailed(ctx, ev, action, err)
		return true
	}

	display := targetID
	if target != nil {
		display = target.User.Tag
	}
	fields := []zap.Field{
		zap.String("action", action),
		zap.String("moderator", ev.Author.Tag),
		zap.String("target", display),
		zap.String("reason", reason),
	}
	if mi.Action == intent.ModerationMute {
		fields = append(fields, zap.Int("duration_minutes", mi.DurationMinutes))
	}
	d.logger.Info("Moderation action", fields...)
	metrics.Actions.WithLabelValues(action, outcomeOK).Inc()
	return true
}

// execute performs the action and posts its confirmation. target is nil only for unban.
func (d *Dispatcher) execute(ctx context.Context, ev *Event, guild Guild, mi intent.ModerationIntent, targetID string, target *Member, reason string) error {
	reasonLine := "\n**Reason:** " + reason
	switch mi.Action {
	case intent.ModerationWarn:
		total := d.warnings.Add(ev.GuildID, targetID, reason, ev.Author.Tag, d.now())
		dm := fmt.Sprintf("⚠️ You have been warned in **%s**\n**Reason:** %s\n**Total warnings:** %d", guild.Name, reason, total)
		if err := d.platform.DirectMessage(ctx, targetID, dm); err != nil {
			d.logger.Debug("Warning DM not delivered", zap.String("user_id", targetID), zap.Error(err))
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Warned **%s** (Total: %d warnings)%s", target.User.Tag, total, reasonLine))

	case intent.ModerationKick:
		if err := d.platform.Kick(ctx, ev.GuildID, targetID, reason); err != nil {
			return err
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Kicked **%s**%s", target.User.Tag, reasonLine))

	case intent.ModerationBan:
		if err := d.platform.Ban(ctx, ev.GuildID, targetID, reason, 1); err != nil {
			return err
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Banned **%s**%s", target.User.Tag, reasonLine))

	case intent.ModerationMute:
		until := d.now().Add(time.Duration(mi.DurationMinutes) * time.Minute)
		if err := d.platform.Timeout(ctx, ev.GuildID, targetID, &until, reason); err != nil {
			return err
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Muted **%s** for **%d minutes**%s", target.User.Tag, mi.DurationMinutes, reasonLine))

	case intent.ModerationUnban:
		if err := d.platform.Unban(ctx, ev.GuildID, targetID, reason); err != nil {
			return err
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Unbanned user with ID **%s**%s", targetID, reasonLine))

	case intent.ModerationUnmute:
		if err := d.platform.Timeout(ctx, ev.GuildID, targetID, nil, reason); err != nil {
			return err
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Unmuted **%s**%s", target.User.Tag, reasonLine))

	case intent.ModerationRemoveWarn:
		if !d.warnings.Clear(ev.GuildID, targetID) {
			d.reply(ctx, ev, fmt.Sprintf("ℹ️ **%s** has no warnings to remove.", target.User.Tag))
			return nil
		}
		dm := fmt.Sprintf("✅ All warnings in **%s** have been cleared.\n**Note:** %s", guild.Name, reason)
		if err := d.platform.DirectMessage(ctx, targetID, dm); err != nil {
			d.logger.Debug("Warning-cleared DM not delivered", zap.String("user_id", targetID), zap.Error(err))
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Removed all warnings from **%s**", target.User.Tag))
	}
	return nil
}

func (d *Dispatcher) moderationFailed(ctx context.Context, ev *Event, action string, err error) {
	d.logger.Error("Moderation action failed",
		zap.String("action", action),
		zap.String("moderator", ev.Author.Tag),
		zap.Error(err),
	)
	metrics.Actions.WithLabelValues(action, outcomeFailed).Inc()
	d.reply(ctx, ev, fmt.Sprintf("❌ Failed to %s: %s", action, errorSnippet(err)))
}

// errorSnippet bounds error text shown in chat
func errorSnippet(err error) string {
	return truncateRunes(strings.TrimSpace(err.Error()), constants.MaxErrorReplyLength)
}
