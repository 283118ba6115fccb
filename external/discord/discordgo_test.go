package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	discordpkg "github.com/auberginewly/feihualing/internal/discord"
)

func TestPreferredDiscordName(t *testing.T) {
	if got := preferredDiscordName("Global", "username", "id"); got != "Global" {
		t.Fatalf("expected global name, got %q", got)
	}
	if got := preferredDiscordName("", "username", "id"); got != "username" {
		t.Fatalf("expected username, got %q", got)
	}
	if got := preferredDiscordName("", "", "id"); got != "id" {
		t.Fatalf("expected fallback id, got %q", got)
	}
}

func TestResolveDisplayName(t *testing.T) {
	c := &Client{}
	member := &discordgo.Member{Nick: "Nick"}
	user := &discordgo.User{ID: "u1", Username: "username", GlobalName: "Global"}

	if got := c.resolveDisplayName(member, user); got != "Nick" {
		t.Fatalf("expected nick to win, got %q", got)
	}
	if got := c.resolveDisplayName(nil, user); got != "Global" {
		t.Fatalf("expected global name without member, got %q", got)
	}
	if got := c.resolveDisplayName(nil, nil); got != "" {
		t.Fatalf("expected empty name without user, got %q", got)
	}
}

func TestMentionsBot(t *testing.T) {
	c := &Client{botUserID: "bot-1"}
	if !c.mentionsBot([]*discordgo.User{{ID: "u1"}, {ID: "bot-1"}}) {
		t.Fatal("expected bot mention to be detected")
	}
	if c.mentionsBot([]*discordgo.User{{ID: "u1"}, nil}) {
		t.Fatal("expected no mention")
	}
}

func TestCommandOptions(t *testing.T) {
	opts := commandOptions([]discordpkg.SlashCommandOption{
		{Name: "minutes", Description: "d", Type: discordpkg.OptionTypeInteger, Required: true},
		{Name: "char", Description: "d", Type: discordpkg.OptionTypeString, Required: true},
	})
	if len(opts) != 2 {
		t.Fatalf("expected two options, got %d", len(opts))
	}
	if opts[0].Type != discordgo.ApplicationCommandOptionInteger {
		t.Fatalf("expected integer option, got %v", opts[0].Type)
	}
	if opts[1].Type != discordgo.ApplicationCommandOptionString {
		t.Fatalf("expected string option, got %v", opts[1].Type)
	}
}

func TestGetBotUserID_RequiresSession(t *testing.T) {
	c := &Client{}
	if _, err := c.GetBotUserID(); err == nil {
		t.Fatal("expected error before Connect")
	}
	c.botUserID = "bot-1"
	id, err := c.GetBotUserID()
	if err != nil || id != "bot-1" {
		t.Fatalf("expected cached id, got %q err=%v", id, err)
	}
}
