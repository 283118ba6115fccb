package discord

import "context"

type SlashCommandOptionType int

const (
	OptionTypeString SlashCommandOptionType = iota
	OptionTypeInteger
)

type SlashCommandOption struct {
	Name        string
	Description string
	Type        SlashCommandOptionType
	Required    bool
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

type SlashCommandEvent struct {
	GuildID         string
	ChannelID       string
	CommandName     string
	UserID          string
	UserDisplayName string
	StringOptions   map[string]string
	IntegerOptions  map[string]int64
	Respond         func(content string) error
}

// MessageEvent is a plain (non-command) chat message. ChannelID is empty
// only when the platform cannot attribute the message to a channel.
type MessageEvent struct {
	GuildID         string
	ChannelID       string
	UserID          string
	UserDisplayName string
	Content         string
	MentionsBot     bool
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	SendChannelMessage(channelID, content string) error
	RegisterMessageHandler(handler func(MessageEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	GetBotUserID() (string, error)
	Run() error
}
