// Package discord delivers messages from one Discord channel to the alert
// handler. Only the configured guild+channel pair is watched; everything
// else, including the bot's own messages, is dropped at the gateway.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
)

type Params struct {
	Token     string
	GuildID   string
	ChannelID string
}

type Source struct {
	params  Params
	session *discordgo.Session
}

func New(p Params) (*Source, error) {
	if p.Token == "" {
		return nil, fmt.Errorf("discord token missing")
	}
	session, err := discordgo.New("Bot " + p.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return &Source{params: p, session: session}, nil
}

// Run opens the gateway connection and blocks until ctx is done. Each
// matching message is handed to handle on the session's event goroutine;
// handler panics or slowness must be managed by the caller.
func (s *Source) Run(ctx context.Context, handle func(ctx context.Context, text string)) error {
	selfID := ""
	s.session.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		if m.GuildID != s.params.GuildID || m.ChannelID != s.params.ChannelID {
			return
		}
		if selfID == "" && sess.State != nil && sess.State.User != nil {
			selfID = sess.State.User.ID
		}
		if m.Author != nil && m.Author.ID == selfID {
			return
		}
		handle(ctx, m.Content)
	})

	if err := s.session.Open(); err != nil {
		return fmt.Errorf("discord gateway: %w", err)
	}
	logger.Info(ctx, "Discord source connected",
		"guild_id", s.params.GuildID,
		"channel_id", s.params.ChannelID,
	)

	<-ctx.Done()
	return ctx.Err()
}

func (s *Source) Stop(ctx context.Context) {
	if err := s.session.Close(); err != nil {
		logger.Warn(ctx, "Discord session close failed", "error", err)
	}
}
