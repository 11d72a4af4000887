package dispatch

const helpText = "**🤖 Pung.io Bot - Full Capabilities**\n\n" +
	"**✨ I understand natural language!** Just talk to me normally.\n\n" +
	"**🎭 Role Management** (Moderators):\n" +
	"• \"assign staff role to slime\"\n" +
	"• \"give john moderator\"\n" +
	"• \"remove admin from alice\"\n" +
	"• Works with usernames, no @ needed!\n\n" +
	"**🔨 Moderation** (Moderators):\n" +
	"• \"ban that spammer for harassment\"\n" +
	"• \"mute him for 30 minutes\"\n" +
	"• \"kick @user\"\n" +
	"• \"warn them about language\"\n" +
	"• \"unban/unmute user\"\n" +
	"• \"remove warnings from user\"\n\n" +
	"**🛠️ Staff Tools** (Moderators):\n" +
	"• \"create poll: favorite game?\"\n" +
	"• \"announce [message]\"\n" +
	"• \"lock/unlock this channel\"\n" +
	"• \"who is alex\" (user info)\n" +
	"• \"pick a random person\"\n" +
	"• \"countdown from 5\"\n\n" +
	"**🎮 Pung.io Info:**\n" +
	"• \"tell me about pung.io\"\n" +
	"• \"show me the stats\"\n" +
	"• \"what skins are there\"\n" +
	"• \"explain abilities\"\n" +
	"• \"give me tips\"\n" +
	"• \"when is next update\"\n\n" +
	"**📊 Server & Info:**\n" +
	"• \"server info\"\n" +
	"• \"give me a summary\"\n" +
	"• \"server report\"\n" +
	"• \"search for [keyword]\"\n" +
	"• \"messages from @user\"\n\n" +
	"**🎉 Fun & Games:**\n" +
	"• \"tell me a joke\"\n" +
	"• \"roast @user\"\n" +
	"• \"magic 8ball [question]\"\n" +
	"• \"vibe check\"\n" +
	"• \"give me wisdom\"\n" +
	"• \"tell me a story\"\n" +
	"• \"rate pizza\"\n" +
	"• \"flip a coin\"\n" +
	"• \"roll dice\"\n" +
	"• \"calc 5 + 3 * 2\"\n\n" +
	"**🧠 Smart Features:**\n" +
	"✅ Remembers your name automatically\n" +
	"✅ Learns what you tell me\n" +
	"✅ Different moods & personalities\n" +
	"✅ Understands context\n" +
	"✅ Fuzzy name matching\n" +
	"✅ Handles duplicate names\n\n" +
	"**💬 Just Chat:**\n" +
	"Ask me anything about pung.io, the server, or just chat naturally!\n\n" +
	"*Created by @dgdf 💙*\n" +
	"*Type \"/help\" anytime to see this again!*"

var updateReplies = []string{
	"next update coming soon™️ trust 🔥",
	"devs cooking something big, just wait on it 👀",
	"update dropping soon, gonna be fire fr",
	"soon™️ but it's gonna be worth the wait 💯",
	"they working on it rn, patience young grasshopper",
	"update status: *soon* (classic dev response lol)",
	"coming soon with some crazy new features 🎮",
}

var eightBallReplies = []string{
	"🎱 It is certain.", "🎱 Without a doubt.", "🎱 Yes definitely.",
	"🎱 You may rely on it.", "🎱 As I see it, yes.", "🎱 Most likely.",
	"🎱 Outlook good.", "🎱 Yes.", "🎱 Signs point to yes.",
	"🎱 Reply hazy, try again.", "🎱 Ask again later.", "🎱 Better not tell you now.",
	"🎱 Cannot predict now.", "🎱 Concentrate and ask again.",
	"🎱 Don't count on it.", "🎱 My reply is no.", "🎱 My sources say no.",
	"🎱 Outlook not so good.", "🎱 Very doubtful.",
}

var vibes = []string{
	"✨ Immaculate", "🌟 Stellar", "💯 Perfect", "🔥 Fire", "😎 Cool",
	"🌈 Magical", "⚡ Electric", "💫 Cosmic", "🎉 Party mode", "😌 Chill",
	"🤔 Questionable", "📉 Mid", "😴 Sleepy", "🌪️ Chaotic", "🎭 Mysterious",
}

// Completion prompts for the generated commands
const (
	jokePrompt    = "You are a funny person telling jokes to friends. Tell ONE short, punchy joke. No explanations, just the joke. Keep it casual and fun."
	roastPrompt   = "You are roasting someone as a friend. Give ONE short, savage but playful roast. 1 sentence max. Be funny and creative but not actually mean. Use gen-z humor."
	wisdomPrompt  = "You are a wise person sharing life advice. Give ONE short piece of wisdom. 1-2 sentences max. Be real and relatable, not preachy."
	storyPrompt   = "Tell a funny, chaotic micro-story. 3-4 sentences max. Make it wild and entertaining. Use casual language like you are texting a friend."
	ratePrompt    = "Rate %q as %d/10. Explain why in ONE short, funny sentence. Be casual and use modern slang."
	imaginePrompt = "Describe in 1-2 vivid, creative sentences what an image would look like based on the prompt. Be descriptive and artistic."

	announceSystem = "You are a professional announcement writer. Create engaging, concise announcements."
	announcePrompt = `Create a professional, engaging Discord announcement about: "%s"

Requirements:
- Make it exciting and engaging
- Use appropriate emojis (not too many)
- Keep it concise but informative
- Sound natural and friendly
- Use proper formatting (bold for key info)
- Don't add generic greetings like "Hey everyone"
- Just focus on the announcement content

Return ONLY the announcement text, nothing else.`
)

// Fallbacks when the completion backend fails
const (
	jokeFallback    = "nah my brain lagged, try again"
	roastFallback   = "💀 nah i cant even roast rn"
	wisdomFallback  = "sometimes you gotta just vibe and let things happen"
	storyFallback   = "so there was this time i forgot the story... yeah thats it"
	rateFallback    = "cuz thats what it is"
	imagineFallback = "cant visualize that rn, try something else"
	chatFallback    = "brain lag moment, try again?"
)

var thankYouReplies = []string{
	"✅ Thanks! I learned about the %s! I'll remember this for future questions! 📚",
	"Got it! Added %s to my knowledge base! 🧠",
	"Nice! I'll remember this info about %s! 💡",
	"Added to my pung.io knowledge! Thanks for teaching me! 🎮",
	"Stored! Now I can help others who ask about %s! ✨",
}

// smallTalk is the canned reply table, checked in order
var smallTalk = []struct {
	match   func(lower string) bool
	replies []string
}{
	{
		match:   containsAny("best skin", "best avatar"),
		replies: []string{"thanos skin is the goat fr, costs 5000 gold but worth every coin 💜 or save up for those VIP skins if you rich"},
	},
	{
		match:   containsAny("best stat", "which stat"),
		replies: []string{"depends on playstyle tbh. balanced is usually good but if you go 1000 CRI you get guaranteed crits which is kinda nutty 🎯"},
	},
	{
		match: containsAny("how are you", "how r u", "hows it going"),
		replies: []string{
			"vibing honestly, hbu?",
			"doing pretty good, just chilling",
			"could be better could be worse, you know how it is",
			"living my best digital life 🔥",
			"ngl kinda tired but we move",
			"im alright, what about you?",
			"having a good day fr, thanks for asking",
		},
	},
	{
		match: anyOf(containsAny("love you"), equalsAny("ily", "i love you")),
		replies: []string{
			"aww thats sweet 💙",
			"love you too homie",
			"appreciate you fr",
			"❤️",
			"you a real one",
			"right back at you",
		},
	},
	{
		match: containsAny("miss you"),
		replies: []string{
			"miss you too ngl",
			"aww i been here the whole time",
			"miss talking to you fr",
			"always here when you need me 💙",
		},
	},
	{
		match: equalsAny("hello", "hi", "hey", "sup", "yo"),
		replies: []string{
			"hey! whats good",
			"yooo whats up",
			"hey there",
			"sup",
			"hello! 👋",
			"yo what you need",
			"hi! how can i help",
		},
	},
	{
		match:   anyOf(containsAny("thanks", "thank you"), equalsAny("ty", "thx")),
		replies: []string{"np!", "anytime", "got you", "no problem at all", "happy to help", "ofc", "all good"},
	},
	{
		match:   equalsAny("lol", "lmao", "haha"),
		replies: []string{"😂", "fr fr", "lmaoo", "glad i made you laugh", "🤣"},
	},
	{
		match: containsAny("are you a bot", "are you ai"),
		replies: []string{
			"yeah im a bot lol but like a cool one",
			"yep, here to help with pung.io stuff and chat",
			"bot status confirmed, but make it fun",
			"guilty as charged, but i know my pung.io fr",
			"ai vibes but human energy",
			"technically yes but i got personality",
		},
	},
	{
		match:   equalsAny("w", "w bot"),
		replies: []string{"W 🔥", "W", "W fr", "thats a W"},
	},
	{
		match:   equalsAny("l", "l bot"),
		replies: []string{"L indeed", "thats tough", "taking the L", "rip"},
	},
	{
		match:   containsAny("cringe", "mid"),
		replies: []string{"nah you tweaking", "cap", "thats your opinion", "disagree but ok", "to each their own"},
	},
	{
		match:   anyOf(containsAny("fire", "goat"), equalsAny("based")),
		replies: []string{"fr fr 🔥", "facts", "no cap", "thats what im saying", "absolutely"},
	},
}
