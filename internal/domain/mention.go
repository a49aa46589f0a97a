package domain

// MentionAuthor identifies who wrote an inbound mention.
type MentionAuthor struct {
	ID       string
	Username string
}

// Mention is one inbound event from the messaging platform, with platform
// @-handles already stripped from Text. Created per event; not persisted.
type Mention struct {
	ID     string
	Text   string
	Author MentionAuthor
}
