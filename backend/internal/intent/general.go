package intent

import (
	"context"
	"strings"
)

// Command is a general command tag
type Command string

const (
	CommandNone       Command = "none"
	CommandPung       Command = "pung"
	CommandStats      Command = "stats"
	CommandSkins      Command = "skins"
	CommandAbilities  Command = "abilities"
	CommandTips       Command = "tips"
	CommandUpdate     Command = "update"
	CommandJoke       Command = "joke"
	CommandRoast      Command = "roast"
	Command8Ball      Command = "8ball"
	CommandVibe       Command = "vibe"
	CommandWisdom     Command = "wisdom"
	CommandStory      Command = "story"
	CommandRate       Command = "rate"
	CommandSummary    Command = "summary"
	CommandReport     Command = "report"
	CommandSearch     Command = "search"
	CommandPoll       Command = "poll"
	CommandAnnounce   Command = "announce"
	CommandUserInfo   Command = "userinfo"
	CommandPick       Command = "pick"
	CommandLock       Command = "lock"
	CommandUnlock     Command = "unlock"
	CommandHelp       Command = "help"
	CommandCoinflip   Command = "coinflip"
	CommandDice       Command = "dice"
	CommandServerInfo Command = "serverinfo"
)

// Commands is the closed command set, "none" included
var Commands = []Command{
	CommandNone, CommandPung, CommandStats, CommandSkins, CommandAbilities, CommandTips,
	CommandUpdate, CommandJoke, CommandRoast, Command8Ball, CommandVibe, CommandWisdom,
	CommandStory, CommandRate, CommandSummary, CommandReport, CommandSearch, CommandPoll,
	CommandAnnounce, CommandUserInfo, CommandPick, CommandLock, CommandUnlock, CommandHelp,
	CommandCoinflip, CommandDice, CommandServerInfo,
}

var knownCommands = func() map[Command]bool {
	m := make(map[Command]bool, len(Commands))
	for _, c := range Commands {
		m[c] = true
	}
	return m
}()

const (
	maxParams      = 8
	maxParamKey    = 32
	maxParamLength = 300
)

// GeneralIntent is a sanitized general command
type GeneralIntent struct {
	Command Command
	Params  map[string]string
}

// Param returns a parameter value or ""
func (g GeneralIntent) Param(key string) string {
	return g.Params[key]
}

const generalPrompt = `You are a parser that identifies command intent from natural language.
Return only valid JSON with fields: command, params.
command is one of: ["none","pung","stats","skins","abilities","tips","update","joke","roast","8ball","vibe","wisdom","story","rate","summary","report","search","poll","announce","userinfo","pick","lock","unlock","help","coinflip","dice","serverinfo"].
params is an object with relevant parameters (can be empty {}).

Examples:
- "tell me about pung.io" -> {"command":"pung","params":{}}
- "show me the stats" -> {"command":"stats","params":{}}
- "tell me a joke" -> {"command":"joke","params":{}}
- "roast john" -> {"command":"roast","params":{"target":"john"}}
- "rate pizza" -> {"command":"rate","params":{"thing":"pizza"}}
- "is it going to rain tomorrow 8ball" -> {"command":"8ball","params":{"question":"is it going to rain tomorrow"}}
- "create a poll: favorite color?" -> {"command":"poll","params":{"question":"favorite color?"}}
- "search for spam" -> {"command":"search","params":{"keyword":"spam"}}
- "what can you do" -> {"command":"help","params":{}}
- "who is user alex" -> {"command":"userinfo","params":{"userName":"alex"}}
- "lock this channel" -> {"command":"lock","params":{}}
- "pick a random person" -> {"command":"pick","params":{}}
- "flip a coin" -> {"command":"coinflip","params":{}}
- "roll dice" -> {"command":"dice","params":{}}
- "server info" -> {"command":"serverinfo","params":{}}
- "announce that pung.io is getting an update in announcements channel" -> {"command":"announce","params":{"message":"pung.io is getting an update","channel":"announcements"}}
- "make an announcement about maintenance" -> {"command":"announce","params":{"message":"maintenance"}}

If not a command, return {"command":"none","params":{}}`

// General classifies a general command
func (c *Classifier) General(ctx context.Context, text string) GeneralIntent {
	fields, ok := c.decode(ctx, "general", generalPrompt, quoted(text))
	if !ok {
		return GeneralIntent{Command: CommandNone, Params: map[string]string{}}
	}
	intent := sanitizeGeneral(fields)
	c.record("general", intent.Command != CommandNone)
	return intent
}

func sanitizeGeneral(fields map[string]any) GeneralIntent {
	intent := GeneralIntent{Command: CommandNone, Params: map[string]string{}}

	cmd := Command(strings.ToLower(asString(fields["command"])))
	if knownCommands[cmd] {
		intent.Command = cmd
	}

	params, _ := fields["params"].(map[string]any)
	for key, value := range params {
		if len(intent.Params) >= maxParams {
			break
		}
		key = strings.TrimSpace(key)
		if key == "" || len(key) > maxParamKey {
			continue
		}
		if s := asString(value); s != "" {
			intent.Params[key] = truncate(s, maxParamLength)
		}
	}
	return intent
}
