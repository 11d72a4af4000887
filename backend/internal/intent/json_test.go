package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"surrounded by prose", `Here you go: {"a":1} hope it helps`, `{"a":1}`, true},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"first of two", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"brace inside string", `{"reason":"he said }{ lol"}`, `{"reason":"he said }{ lol"}`, true},
		{"escaped quote", `{"reason":"say \"hi}\""}`, `{"reason":"say \"hi}\""}`, true},
		{"stray closing first", `} {"a":1}`, `{"a":1}`, true},
		{"unbalanced then balanced", `{ oops {"a":1}`, `{"a":1}`, true},
		{"no object", `no json here`, "", false},
		{"unbalanced", `{"a":1`, "", false},
		{"empty", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "123", digitsOnly("<@123>"))
	assert.Equal(t, "123", digitsOnly("<@!123>"))
	assert.Equal(t, "123", digitsOnly(" 123 "))
	assert.Equal(t, "", digitsOnly("12a"))
	assert.Equal(t, "", digitsOnly(""))
	assert.Equal(t, "", digitsOnly("12345678901234567890123456"))
}
