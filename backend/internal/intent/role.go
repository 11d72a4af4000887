package intent

import "context"

// RoleAction is the closed set of role verbs
type RoleAction string

const (
	RoleNone   RoleAction = "none"
	RoleAssign RoleAction = "assign"
	RoleRemove RoleAction = "remove"
)

const maxNameLength = 100

// RoleIntent is a sanitized role management request
type RoleIntent struct {
	Action   RoleAction
	UserName string
	RoleName string
}

// Complete reports whether the intent names an action, a user and a role
func (r RoleIntent) Complete() bool {
	return r.Action != RoleNone && r.UserName != "" && r.RoleName != ""
}

const rolePrompt = `You are a parser that extracts role management commands into JSON.
Return only valid JSON with fields: action, userName, roleName.
action is one of ["none","assign","remove","give","take"].
userName is the name of the user (without @ symbol).
roleName is the name of the role (without @ symbol).
If message is not a role command return {"action":"none","userName":null,"roleName":null}.

Examples:
- "assign the staff role to slime" -> {"action":"assign","userName":"slime","roleName":"staff"}
- "give john the moderator role" -> {"action":"give","userName":"john","roleName":"moderator"}
- "remove admin role from alice" -> {"action":"remove","userName":"alice","roleName":"admin"}
- "take away the vip role from bob" -> {"action":"take","userName":"bob","roleName":"vip"}
- "give slime staff" -> {"action":"give","userName":"slime","roleName":"staff"}`

// Role classifies a role assignment or removal
func (c *Classifier) Role(ctx context.Context, text string) RoleIntent {
	fields, ok := c.decode(ctx, "role", rolePrompt, quoted(text))
	if !ok {
		return RoleIntent{Action: RoleNone}
	}
	intent := sanitizeRole(fields)
	c.record("role", intent.Action != RoleNone)
	return intent
}

func sanitizeRole(fields map[string]any) RoleIntent {
	intent := RoleIntent{Action: RoleNone}
	switch asString(fields["action"]) {
	case "assign", "give":
		intent.Action = RoleAssign
	case "remove", "take":
		intent.Action = RoleRemove
	}
	intent.UserName = truncate(trimAt(asString(fields["userName"])), maxNameLength)
	intent.RoleName = truncate(trimAt(asString(fields["roleName"])), maxNameLength)
	return intent
}

func trimAt(s string) string {
	for len(s) > 0 && s[0] == '@' {
		s = s[1:]
	}
	return s
}
