package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/auberginewly/feihualing/internal/discord"
)

// SlashCommandDefinitions lists the commands the bot registers per guild.
func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        commandStart,
			Description: "开始一局飞花令",
			Options: []discord.SlashCommandOption{
				{Name: optionMinutes, Description: "游戏时长（1-60分钟）", Type: discord.OptionTypeInteger, Required: true},
				{Name: optionChar, Description: "令字（单个汉字）", Type: discord.OptionTypeString, Required: true},
			},
		},
		{Name: commandScore, Description: "查看总积分榜"},
		{Name: commandLast, Description: "查看最近一局排名"},
		{Name: commandStop, Description: "强制结束当前游戏"},
		{Name: commandHelp, Description: "显示飞花令帮助"},
	}
}

// sessionKey distinguishes one chat context from another: guild channels
// share one session, direct messages are per user.
func sessionKey(guildID, channelID, userID string) string {
	if guildID != "" {
		return "group_" + channelID
	}
	return "user_" + userID
}

func (m *Manager) HandleSlashCommand(ev discord.SlashCommandEvent) {
	if ev.GuildID != "" && ev.GuildID != m.cfg.DiscordGuildID {
		slog.Info("ignoring slash command for different guild", "event_guild_id", ev.GuildID, "configured_guild_id", m.cfg.DiscordGuildID)
		return
	}
	sessionID := sessionKey(ev.GuildID, ev.ChannelID, ev.UserID)
	ctx := context.Background()

	var reply string
	switch ev.CommandName {
	case commandStart:
		reply = m.handleStartCommand(sessionID, ev)
	case commandScore:
		reply = m.CumulativeScores(ctx, sessionID)
	case commandLast:
		reply = m.LastRoundSummary(ctx, sessionID)
	case commandStop:
		var err error
		reply, err = m.ForceStop(sessionID)
		if errors.Is(err, ErrNoActiveRound) {
			reply = messageNoActiveRound
		}
	case commandHelp:
		reply = m.Help(sessionID)
	default:
		slog.Warn("unknown slash command", "command", ev.CommandName)
		return
	}
	if reply == "" {
		return
	}
	if err := ev.Respond(reply); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", ev.CommandName, "session_id", sessionID)
	}
}

func (m *Manager) handleStartCommand(sessionID string, ev discord.SlashCommandEvent) string {
	minutes := int(ev.IntegerOptions[optionMinutes])
	targetChar := strings.TrimSpace(ev.StringOptions[optionChar])

	reply, err := m.Start(sessionID, minutes, targetChar)
	switch {
	case err == nil:
		return reply
	case errors.Is(err, ErrInvalidDuration):
		return messageInvalidDuration
	case errors.Is(err, ErrInvalidTargetChar):
		return messageInvalidTargetChar
	case errors.Is(err, ErrRoundActive):
		return messageAlreadyActive
	default:
		slog.Error("failed to start round", "error", err, "session_id", sessionID)
		return messageAlreadyActive
	}
}

// HandleMessage feeds plain chat traffic into the active round, if any.
// Command-style messages are never treated as submissions.
func (m *Manager) HandleMessage(ev discord.MessageEvent) {
	if ev.GuildID != "" && ev.GuildID != m.cfg.DiscordGuildID {
		return
	}
	text := strings.TrimSpace(ev.Content)
	if text == "" || isCommandMessage(text) {
		return
	}
	sessionID := sessionKey(ev.GuildID, ev.ChannelID, ev.UserID)
	reply := m.Submit(context.Background(), sessionID, ev.UserID, ev.UserDisplayName, text, ev.MentionsBot)
	if reply == "" {
		return
	}
	if err := m.discord.SendChannelMessage(ev.ChannelID, reply); err != nil {
		slog.Error("failed to send reply", "error", err, "channel_id", ev.ChannelID, "session_id", sessionID)
	}
}

func isCommandMessage(text string) bool {
	return strings.HasPrefix(text, "/") || strings.HasPrefix(text, "!") || strings.HasPrefix(text, "#")
}
