package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pung-bot/backend/internal/adapter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter returns a canned reply and records the messages it was sent
type fakeCompleter struct {
	reply    string
	err      error
	received [][]adapter.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []adapter.Message) (string, error) {
	f.received = append(f.received, messages)
	return f.reply, f.err
}

var adversarialReplies = []string{
	"",
	"I can't help with that",
	"{",
	"}{",
	"{}",
	"null",
	`{"action": 42, "command": ["ban"], "isTeaching": "yes"}`,
	`{"action":"nuke","command":"rm -rf","target_id":"<script>","duration":"forever"}`,
	`{"action":"BAN","command":"JOKE "}`,
	`{"action":{"nested":"ban"},"params":"not an object"}`,
	"```json\n{\"action\": \"mute\", \"duration\": 1e308}\n```",
	`{"action":"mute","duration":-50,"reason":null}`,
	`{"unterminated": "string}`,
	strings.Repeat("{", 5000),
	`{"command":"poll","params":{"question":{"deep":true},"a":1,"b":true,"c":null}}`,
}

func TestClassifiers_AlwaysReturnClosedEnum(t *testing.T) {
	validModeration := moderationActions
	validRoles := map[RoleAction]bool{RoleNone: true, RoleAssign: true, RoleRemove: true}

	for _, reply := range adversarialReplies {
		c := NewClassifier(&fakeCompleter{reply: reply})
		ctx := context.Background()

		assert.NotPanics(t, func() {
			mod := c.Moderation(ctx, "anything")
			assert.True(t, validModeration[mod.Action], "moderation %q from %q", mod.Action, reply)
			assert.GreaterOrEqual(t, mod.DurationMinutes, 1)
			assert.LessOrEqual(t, mod.DurationMinutes, 10080)

			role := c.Role(ctx, "anything")
			assert.True(t, validRoles[role.Action], "role %q from %q", role.Action, reply)

			general := c.General(ctx, "anything")
			assert.True(t, knownCommands[general.Command], "command %q from %q", general.Command, reply)
			assert.NotNil(t, general.Params)

			teach := c.Teach(ctx, "anything")
			if teach.IsTeaching {
				assert.Contains(t, []string{TeachSkin, TeachAbility, TeachStat, TeachTip, TeachGeneral}, teach.Category)
			}
		}, reply)
	}
}

func TestClassifiers_BackendFailure(t *testing.T) {
	c := NewClassifier(&fakeCompleter{err: errors.New("503")})
	ctx := context.Background()

	assert.Equal(t, DefaultModerationIntent(), c.Moderation(ctx, "ban him"))
	assert.Equal(t, RoleNone, c.Role(ctx, "give bob vip").Action)
	assert.Equal(t, CommandNone, c.General(ctx, "joke").Command)
	assert.False(t, c.Teach(ctx, "thanos costs 5000 gold").IsTeaching)
	_, ok := c.ExtractFact(ctx, "i like pizza")
	assert.False(t, ok)
}

func TestModeration_Parse(t *testing.T) {
	llm := &fakeCompleter{reply: `Sure! {"action":"mute","target_id":null,"reason":"spam","duration":20}`}
	c := NewClassifier(llm)

	got := c.Moderation(context.Background(), "mute <@555> for 20 minutes for spam")
	assert.Equal(t, ModerationIntent{Action: ModerationMute, Reason: "spam", DurationMinutes: 20}, got)

	require.Len(t, llm.received, 1)
	assert.Equal(t, adapter.RoleSystem, llm.received[0][0].Role)
	assert.Equal(t, `Text: """mute <@555> for 20 minutes for spam"""`, llm.received[0][1].Content)
}

func TestSanitizeModeration(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   ModerationIntent
	}{
		{
			name:   "mention target unwrapped",
			fields: map[string]any{"action": "ban", "target_id": "<@!123456>"},
			want:   ModerationIntent{Action: ModerationBan, TargetID: "123456", DurationMinutes: 10},
		},
		{
			name:   "numeric target",
			fields: map[string]any{"action": "kick", "target_id": float64(987)},
			want:   ModerationIntent{Action: ModerationKick, TargetID: "987", DurationMinutes: 10},
		},
		{
			name:   "non numeric target dropped",
			fields: map[string]any{"action": "warn", "target_id": "bob"},
			want:   ModerationIntent{Action: ModerationWarn, DurationMinutes: 10},
		},
		{
			name:   "duration clamped high",
			fields: map[string]any{"action": "mute", "duration": float64(999999)},
			want:   ModerationIntent{Action: ModerationMute, DurationMinutes: 10080},
		},
		{
			name:   "negative duration clamped low",
			fields: map[string]any{"action": "mute", "duration": float64(-5)},
			want:   ModerationIntent{Action: ModerationMute, DurationMinutes: 1},
		},
		{
			name:   "zero duration defaults",
			fields: map[string]any{"action": "mute", "duration": float64(0)},
			want:   ModerationIntent{Action: ModerationMute, DurationMinutes: 10},
		},
		{
			name:   "numeric string duration",
			fields: map[string]any{"action": "mute", "duration": " 45 "},
			want:   ModerationIntent{Action: ModerationMute, DurationMinutes: 45},
		},
		{
			name:   "fractional duration rounded",
			fields: map[string]any{"action": "mute", "duration": 2.6},
			want:   ModerationIntent{Action: ModerationMute, DurationMinutes: 3},
		},
		{
			name:   "unknown action",
			fields: map[string]any{"action": "Ban"},
			want:   DefaultModerationIntent(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeModeration(tt.fields))
		})
	}
}

func TestSanitizeModeration_ReasonCapped(t *testing.T) {
	got := sanitizeModeration(map[string]any{"action": "warn", "reason": strings.Repeat("é", 800)})
	assert.Equal(t, 500, len([]rune(got.Reason)))
}

func TestRole_Normalizes(t *testing.T) {
	tests := []struct {
		reply string
		want  RoleIntent
	}{
		{`{"action":"give","userName":"slime","roleName":"staff"}`, RoleIntent{RoleAssign, "slime", "staff"}},
		{`{"action":"take","userName":"@bob","roleName":" vip "}`, RoleIntent{RoleRemove, "bob", "vip"}},
		{`{"action":"remove","userName":null,"roleName":"admin"}`, RoleIntent{RoleRemove, "", "admin"}},
		{`{"action":"promote","userName":"a","roleName":"b"}`, RoleIntent{RoleNone, "a", "b"}},
	}
	for _, tt := range tests {
		got := NewClassifier(&fakeCompleter{reply: tt.reply}).Role(context.Background(), "x")
		assert.Equal(t, tt.want, got, tt.reply)
	}

	assert.False(t, RoleIntent{Action: RoleRemove, RoleName: "admin"}.Complete())
	assert.True(t, RoleIntent{Action: RoleAssign, UserName: "a", RoleName: "b"}.Complete())
}

func TestGeneral_Params(t *testing.T) {
	reply := `{"command":"poll","params":{"question":"favorite color?","count":3,"flag":true,"nested":{"x":1},"list":[1,2],"empty":""}}`
	got := NewClassifier(&fakeCompleter{reply: reply}).General(context.Background(), "x")

	assert.Equal(t, CommandPoll, got.Command)
	assert.Equal(t, map[string]string{"question": "favorite color?", "count": "3", "flag": "true"}, got.Params)
	assert.Equal(t, "favorite color?", got.Param("question"))
	assert.Equal(t, "", got.Param("missing"))
}

func TestTeach(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  TeachIntent
	}{
		{
			name:  "skin",
			reply: `{"isTeaching":true,"category":"skin","name":"thanos","data":{"price":"5000 gold","description":"thanos skin"}}`,
			want:  TeachIntent{IsTeaching: true, Category: TeachSkin, Name: "thanos", Data: TeachData{Price: "5000 gold", Description: "thanos skin"}},
		},
		{
			name:  "tip without name",
			reply: `{"isTeaching":true,"category":"tip","name":null,"data":{"info":"always upgrade CRI first"}}`,
			want:  TeachIntent{IsTeaching: true, Category: TeachTip, Data: TeachData{Info: "always upgrade CRI first"}},
		},
		{
			name:  "unknown category",
			reply: `{"isTeaching":true,"category":"weapon","name":"sword","data":{}}`,
			want:  TeachIntent{},
		},
		{
			name:  "keyed category without name",
			reply: `{"isTeaching":true,"category":"ability","name":"","data":{"description":"x"}}`,
			want:  TeachIntent{},
		},
		{
			name:  "empty tip",
			reply: `{"isTeaching":true,"category":"tip","data":{}}`,
			want:  TeachIntent{},
		},
		{
			name:  "not teaching",
			reply: `{"isTeaching":false,"category":null,"name":null,"data":{}}`,
			want:  TeachIntent{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewClassifier(&fakeCompleter{reply: tt.reply}).Teach(context.Background(), "x")
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "thanos", TeachIntent{Category: TeachSkin, Name: "thanos"}.Label())
	assert.Equal(t, TeachTip, TeachIntent{Category: TeachTip}.Label())
}

func TestMightBeTeaching(t *testing.T) {
	assert.True(t, MightBeTeaching("The Thanos SKIN costs 5000"))
	assert.True(t, MightBeTeaching("pro TIP: block more"))
	assert.False(t, MightBeTeaching("hello there"))
}

func TestExtractFact(t *testing.T) {
	tests := []struct {
		reply  string
		want   string
		wantOK bool
	}{
		{"likes pizza", "likes pizza", true},
		{`"name is John"`, "name is John", true},
		{"none", "", false},
		{"None.", "", false},
		{"  ", "", false},
		{strings.Repeat("a", 100), "", false},
		{strings.Repeat("a", 99), strings.Repeat("a", 99), true},
	}
	for _, tt := range tests {
		got, ok := NewClassifier(&fakeCompleter{reply: tt.reply}).ExtractFact(context.Background(), "i like pizza")
		assert.Equal(t, tt.wantOK, ok, tt.reply)
		assert.Equal(t, tt.want, got, tt.reply)
	}
}

func TestHasSelfDisclosure(t *testing.T) {
	for _, text := range []string{"My name is Jo", "im tired", "I'm a pro", "i like thanos", "I LOVE this", "i hate lag"} {
		assert.True(t, HasSelfDisclosure(text), text)
	}
	assert.False(t, HasSelfDisclosure("what's the best skin"))
}
