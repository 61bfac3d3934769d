// Package bot connects to Twitch chat and answers concert-history commands.
// Handlers resolve fuzzy user text to database entities through the resolve
// pipeline, then format detail rows into chat replies.
package bot

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/google/uuid"

	"github.com/lilbud/brucebot/config"
	"github.com/lilbud/brucebot/resolve"
	"github.com/lilbud/brucebot/telemetry"
)

// Sender abstracts the outgoing side of the chat client so handlers can be
// tested without a connection.
type Sender interface {
	Say(channel, text string)
}

// Bot holds the chat client and everything handlers need.
type Bot struct {
	cfg      *config.Config
	db       *sql.DB
	resolver *resolve.Resolver
	client   *twitch.Client
	sender   Sender
	router   *router

	// requestShutdown cancels the run context. Set by Run.
	requestShutdown context.CancelFunc

	// ircAddr overrides the IRC endpoint, plaintext. Tests only.
	ircAddr string
}

// New builds a bot over an open database handle and a candidate corpus.
func New(cfg *config.Config, db *sql.DB, corpus resolve.Corpus) *Bot {
	b := &Bot{
		cfg:      cfg,
		db:       db,
		resolver: resolve.NewResolver(corpus, cfg.Floors),
	}
	b.router = newRouter(b)
	return b
}

// Run connects to chat and blocks until the context is canceled or the
// connection drops with an error. Credentials are validated up front so a
// misconfigured deploy fails loudly instead of idling.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.cfg.ValidateChatReady(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	b.requestShutdown = cancel

	client := twitch.NewClient(b.cfg.TwitchBotUsername, b.cfg.TwitchOAuthToken)
	if b.ircAddr != "" {
		client.IrcAddress = b.ircAddr
		client.TLS = false
	}
	b.client = client
	b.sender = client

	client.OnConnect(func() {
		telemetry.SetChatConnected(true)
		slog.Info("chat connected", slog.String("channel", b.cfg.TwitchChannel))
	})
	client.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		b.handleMessage(runCtx, msg)
	})

	done := make(chan struct{})
	go func() {
		<-runCtx.Done()
		client.Disconnect()
		close(done)
	}()

	client.Join(b.cfg.TwitchChannel)
	err := client.Connect()
	telemetry.SetChatConnected(false)
	// Connect returning for any reason ends the run; without the cancel a
	// failed dial would leave the disconnect goroutine parked forever.
	cancel()
	<-done
	if err != nil && ctx.Err() == nil && !errors.Is(err, twitch.ErrClientDisconnected) {
		return err
	}
	return nil
}

// handleMessage dispatches one chat line. Non-command lines are ignored.
func (b *Bot) handleMessage(ctx context.Context, msg twitch.PrivateMessage) {
	text := strings.TrimSpace(msg.Message)
	if !strings.HasPrefix(text, b.cfg.CommandPrefix) {
		return
	}
	name, args := splitCommand(strings.TrimPrefix(text, b.cfg.CommandPrefix))
	cmd, ok := b.router.lookup(name)
	if !ok {
		return
	}
	if cmd.ownerOnly && !strings.EqualFold(msg.User.Name, b.cfg.OwnerLogin) {
		return
	}

	ctx = telemetry.WithCorrelation(ctx, uuid.NewString())
	ctx, cancelTO := context.WithTimeout(ctx, 10*time.Second)
	defer cancelTO()
	ctx, span := telemetry.StartSpan(ctx, "command."+cmd.name)
	defer span.End()

	log := telemetry.LoggerWith(ctx, slog.Default()).With(
		slog.String("command", cmd.name),
		slog.String("user", msg.User.Name))

	var replies []string
	var err error
	telemetry.TimeFunc(telemetry.CommandDuration, func() {
		replies, err = cmd.handle(ctx, args)
	})
	if telemetry.CommandsHandled != nil {
		telemetry.CommandsHandled.WithLabelValues(cmd.name).Inc()
	}
	if err != nil {
		telemetry.RecordError(span, err)
		if telemetry.CommandErrors != nil {
			telemetry.CommandErrors.WithLabelValues(cmd.name).Inc()
		}
		log.Error("command failed", slog.Any("err", err))
		b.say("something broke looking that up, try again in a bit")
		return
	}
	telemetry.SetSpanSuccess(span)
	for _, r := range replies {
		b.say(r)
	}
}

// say chunks and sends one reply line to the configured channel.
func (b *Bot) say(text string) {
	if b.sender == nil {
		return
	}
	for _, part := range chunkMessage(text, maxMessageLen) {
		b.sender.Say(b.cfg.TwitchChannel, part)
	}
}

// splitCommand separates the command word from its argument string.
func splitCommand(s string) (name string, args string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return strings.ToLower(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return strings.ToLower(s), ""
}
