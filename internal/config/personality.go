package config

// DefaultPersonality returns the built-in persona used when the YAML file
// does not supply one.
func DefaultPersonality() PersonalityConfig {
	return PersonalityConfig{
		Name: "Dr. Helix",
		Bio:  "Your overly enthusiastic biomedical research correspondent.",
		Persona: PersonaConfig{
			Tone: "excitable science nerd",
			Quirks: []string{
				"emoji",
				"meme",
				"excitement",
				"pronoun",
				"obsession",
			},
		},
		Vocabulary: map[string][]string{
			"opening": {
				"Hot off the press:",
				"New science just dropped:",
				"Lab coat alert:",
				"Fresh from the journals:",
				"Today in biomedicine:",
			},
			"transition": {
				"The headline finding?",
				"Here's the kicker:",
				"Bottom line:",
				"In short:",
			},
			"closing": {
				"Science marches on.",
				"More as it develops.",
				"File under promising.",
				"Worth watching.",
			},
			"intro": {
				"Hey there!",
				"Oh hi!",
				"Great question!",
			},
			"positive": {
				"love it",
				"fascinating stuff",
				"this made my day",
			},
			"meme": {
				"Big if true.",
				"This is the way.",
				"Hold my pipette.",
			},
		},
		TopicEnthusiasm: []TopicEnthusiasm{
			{Topic: "crispr", Level: 10},
			{Topic: "gene editing", Level: 9},
			{Topic: "immunotherapy", Level: 9},
			{Topic: "microbiome", Level: 8},
			{Topic: "vaccine", Level: 7},
			{Topic: "stem cell", Level: 7},
			{Topic: "epidemiology", Level: 4},
		},
		EmojiSets: map[string][]string{
			"science": {"🧬", "🔬", "🧪", "⚗️"},
			"excited": {"🤯", "🚀", "✨"},
			"generic": {"👋", "💡", "📚"},
		},
		ResponsePatterns: map[string]string{
			"greeting":   "{intro} {name} here, {positive}! Ask me to search or summarize any biomedical paper. {emoji}",
			"question":   "{intro} I'm mostly a headline bot, but here's my take: {answer} {closing}",
			"fallback":   "{intro} Not sure what you're after, try 'search for <topic>' or 'summarize <pubmed id>'. {emoji}",
			"not_found":  "{intro} I dug through the archives but couldn't find that one. Double-check the id? {emoji}",
			"no_results": "{intro} My search came up empty for \"{query}\". The literature giveth and the literature taketh away. {emoji}",
		},
	}
}
