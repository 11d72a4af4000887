package dispatch

import (
	"context"
	"fmt"
	"strings"

	"pung-bot/backend/internal/intent"
	"pung-bot/backend/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// manageRole classifies text as a role request and executes it. It reports
// false when the text is not a complete role request.
func (d *Dispatcher) manageRole(ctx context.Context, ev *Event, text string) bool {
	ri := d.classifier.Role(ctx, text)
	if !ri.Complete() {
		return false
	}
	action := "role_" + string(ri.Action)

	roles, err := d.platform.Roles(ctx, ev.GuildID)
	if err != nil {
		d.roleFailed(ctx, ev, action, err)
		return true
	}
	role, ok := findRole(roles, ri.RoleName)
	if !ok {
		d.reply(ctx, ev, fmt.Sprintf("❌ Could not find a role named \"%s\". Make sure the role exists!", ri.RoleName))
		metrics.Actions.WithLabelValues(action, outcomeMissing).Inc()
		return true
	}

	ids := d.db.FindUsersByName(ev.GuildID, ri.UserName)
	switch {
	case len(ids) == 0:
		d.reply(ctx, ev, fmt.Sprintf("❌ Could not find a user named \"%s\". Make sure they've sent at least one message!", ri.UserName))
		metrics.Actions.WithLabelValues(action, outcomeMissing).Inc()
		return true
	case len(ids) > 1:
		d.reply(ctx, ev, d.clarification(ctx, ev.GuildID, ri.UserName, ids))
		metrics.Actions.WithLabelValues(action, outcomeNoop).Inc()
		return true
	}

	member, err := d.platform.Member(ctx, ev.GuildID, ids[0])
	if err != nil {
		d.reply(ctx, ev, "❌ Could not fetch the user. They might have left the server.")
		metrics.Actions.WithLabelValues(action, outcomeMissing).Inc()
		return true
	}

	perms, err := d.platform.BotPermissions(ctx, ev.GuildID)
	if err != nil {
		d.roleFailed(ctx, ev, action, err)
		return true
	}
	if !hasPermission(perms, PermissionManageRoles) {
		d.reply(ctx, ev, "❌ I don't have permission to manage roles.")
		metrics.Actions.WithLabelValues(action, outcomeDenied).Inc()
		return true
	}
	highest, err := d.platform.BotHighestRolePosition(ctx, ev.GuildID)
	if err != nil {
		d.roleFailed(ctx, ev, action, err)
		return true
	}
	if role.Position >= highest {
		d.reply(ctx, ev, fmt.Sprintf("❌ I cannot manage the **%s** role because it's higher than or equal to my highest role.", role.Name))
		metrics.Actions.WithLabelValues(action, outcomeDenied).Inc()
		return true
	}

	has := member.HasRole(role.ID)
	switch ri.Action {
	case intent.RoleAssign:
		if has {
			d.reply(ctx, ev, fmt.Sprintf("ℹ️ **%s** already has the **%s** role.", member.User.Tag, role.Name))
			metrics.Actions.WithLabelValues(action, outcomeNoop).Inc()
			return true
		}
		if err := d.platform.AddRole(ctx, ev.GuildID, member.User.ID, role.ID); err != nil {
			d.roleFailed(ctx, ev, action, err)
			return true
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Assigned **%s** role to **%s**", role.Name, member.User.Tag))
	case intent.RoleRemove:
		if !has {
			d.reply(ctx, ev, fmt.Sprintf("ℹ️ **%s** doesn't have the **%s** role.", member.User.Tag, role.Name))
			metrics.Actions.WithLabelValues(action, outcomeNoop).Inc()
			return true
		}
		if err := d.platform.RemoveRole(ctx, ev.GuildID, member.User.ID, role.ID); err != nil {
			d.roleFailed(ctx, ev, action, err)
			return true
		}
		d.reply(ctx, ev, fmt.Sprintf("✅ Removed **%s** role from **%s**", role.Name, member.User.Tag))
	}

	d.logger.Info("Role action",
		zap.String("action", string(ri.Action)),
		zap.String("role", role.Name),
		zap.String("target", member.User.Tag),
		zap.String("moderator", ev.Author.Tag),
	)
	metrics.Actions.WithLabelValues(action, outcomeOK).Inc()
	return true
}

// findRole returns the first role whose name equals or contains name, case-insensitively
func findRole(roles []Role, name string) (Role, bool) {
	want := strings.ToLower(name)
	for _, r := range roles {
		have := strings.ToLower(r.Name)
		if have == want || strings.Contains(have, want) {
			return r, true
		}
	}
	return Role{}, false
}

// clarification lists the candidate members for an ambiguous name. Members
// are fetched concurrently; ones that cannot be fetched are skipped.
func (d *Dispatcher) clarification(ctx context.Context, guildID, name string, ids []string) string {
	members := make([]*Member, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			m, err := d.platform.Member(gctx, guildID, id)
			if err == nil {
				members[i] = &m
			}
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	n := 0
	for _, m := range members {
		if m == nil {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. **%s** (ID: %s)\n", n, m.User.Tag, m.User.ID)
	}
	if n == 0 {
		return "❌ Found multiple users but couldn't fetch their details. Try mentioning the user instead."
	}
	return fmt.Sprintf("🤔 Found multiple users named \"%s\":\n\n%s\nPlease be more specific or mention the user directly!", name, b.String())
}

func (d *Dispatcher) roleFailed(ctx context.Context, ev *Event, action string, err error) {
	d.logger.Error("Role action failed", zap.String("action", action), zap.Error(err))
	metrics.Actions.WithLabelValues(action, outcomeFailed).Inc()
	d.reply(ctx, ev, "❌ Failed to manage role: "+errorSnippet(err))
}
