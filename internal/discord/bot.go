// Package discord bridges Discord messages into the mind's single
// conversation entry point. It never touches the internal stores
// directly.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mira-mind/internal/mind"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot is the Discord front end for one engine instance.
type Bot struct {
	dg     *discordgo.Session
	engine *mind.Engine
	log    zerolog.Logger
}

// StartBot opens the session and blocks until ctx is done.
func StartBot(ctx context.Context, token string, engine *mind.Engine, log zerolog.Logger) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b := &Bot{dg: dg, engine: engine, log: log}

	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing Discord session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Msg("discord session ready")
}

// onMessageCreate forwards direct messages and mentions into the engine
// and sends the reply back to the channel.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	if m.GuildID != "" && !mentionsUser(m.Mentions, s.State.User.ID) {
		return
	}

	text := stripMention(m.Content, s.State.User.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := b.engine.ProcessMessage(ctx, m.Author.Username, text)
	if err != nil {
		b.log.Error().Err(err).Str("user", m.Author.Username).Msg("conversation failed")
		return
	}

	for _, chunk := range splitMessage(result.Reply, 2000) {
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			b.log.Error().Err(err).Str("channel", m.ChannelID).Msg("send failed")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func mentionsUser(mentions []*discordgo.User, id string) bool {
	for _, u := range mentions {
		if u.ID == id {
			return true
		}
	}
	return false
}

func stripMention(content, id string) string {
	content = strings.ReplaceAll(content, "<@"+id+">", "")
	content = strings.ReplaceAll(content, "<@!"+id+">", "")
	return strings.TrimSpace(content)
}

func splitMessage(msg string, limit int) []string {
	var result []string
	for len(msg) > limit {
		cut := strings.LastIndex(msg[:limit], "\n")
		if cut == -1 {
			cut = limit
		}
		result = append(result, strings.TrimSpace(msg[:cut]))
		msg = strings.TrimSpace(msg[cut:])
	}
	if msg != "" {
		result = append(result, msg)
	}
	return result
}
