package bot

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	twitch "github.com/gempir/go-twitch-irc/v4"

	"github.com/lilbud/brucebot/config"
	"github.com/lilbud/brucebot/resolve"
	"github.com/lilbud/brucebot/testutil"
)

type recordingSender struct {
	messages []string
}

func (r *recordingSender) Say(_ string, text string) {
	r.messages = append(r.messages, text)
}

func testBot(corpus resolve.Corpus) (*Bot, *recordingSender) {
	cfg := &config.Config{
		TwitchChannel: "testchannel",
		CommandPrefix: "!",
		OwnerLogin:    "lilbud",
		Floors:        resolve.DefaultFloors(),
	}
	b := New(cfg, nil, corpus)
	sender := &recordingSender{}
	b.sender = sender
	return b, sender
}

func privMsg(user, text string) twitch.PrivateMessage {
	return twitch.PrivateMessage{
		User:    twitch.User{Name: user},
		Message: text,
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		args     string
	}{
		{"song thunder road", "song", "thunder road"},
		{"SONG Thunder Road", "song", "Thunder Road"},
		{"info", "info", ""},
		{"  setlist  1978-07-07 ", "setlist", "1978-07-07"},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, args := splitCommand(tt.in)
		if name != tt.name || args != tt.args {
			t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)", tt.in, name, args, tt.name, tt.args)
		}
	}
}

func TestRouterAliases(t *testing.T) {
	b, _ := testBot(&testutil.FakeCorpus{})
	for alias, canonical := range map[string]string{
		"s":    "song",
		"snip": "snippet",
		"a":    "album",
		"v":    "venue",
		"t":    "tour",
		"rel":  "relation",
		"sl":   "setlist",
		"boot": "bootleg",
		"ar":   "archive",
	} {
		cmd, ok := b.router.lookup(alias)
		if !ok {
			t.Fatalf("alias %q not registered", alias)
		}
		if cmd.name != canonical {
			t.Errorf("alias %q resolved to %q, want %q", alias, cmd.name, canonical)
		}
	}
	if _, ok := b.router.lookup("nosuch"); ok {
		t.Error("unknown command should not resolve")
	}
}

func TestHandleMessageIgnoresNonCommands(t *testing.T) {
	b, sender := testBot(&testutil.FakeCorpus{})
	b.handleMessage(context.Background(), privMsg("viewer", "just chatting about the show"))
	b.handleMessage(context.Background(), privMsg("viewer", "!unknowncommand stuff"))
	if len(sender.messages) != 0 {
		t.Errorf("expected no replies, got %v", sender.messages)
	}
}

func TestHandleMessageNotFoundEchoesInput(t *testing.T) {
	b, sender := testBot(&testutil.FakeCorpus{})
	b.handleMessage(context.Background(), privMsg("viewer", "!song Thunder's Road"))
	if len(sender.messages) != 1 {
		t.Fatalf("expected one reply, got %v", sender.messages)
	}
	if !strings.Contains(sender.messages[0], "Thunder's Road") {
		t.Errorf("reply %q should echo the user's input", sender.messages[0])
	}
}

func TestShutdownOwnerOnly(t *testing.T) {
	b, sender := testBot(&testutil.FakeCorpus{})

	b.handleMessage(context.Background(), privMsg("randomviewer", "!shutdown"))
	if len(sender.messages) != 0 {
		t.Fatalf("non-owner shutdown should be ignored, got %v", sender.messages)
	}

	b.handleMessage(context.Background(), privMsg("LilBud", "!shutdown"))
	if len(sender.messages) != 1 {
		t.Fatalf("owner shutdown should reply, got %v", sender.messages)
	}
}

func TestRunReturnsOnConnectFailure(t *testing.T) {
	b, _ := testBot(&testutil.FakeCorpus{})
	b.cfg.TwitchBotUsername = "brucebot"
	b.cfg.TwitchOAuthToken = "oauth:test"
	// Point at a port nothing listens on so Connect fails immediately.
	b.ircAddr = "127.0.0.1:1"

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(context.Background())
	}()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected a connection error")
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after connection failure")
	}
}

func TestResolveOnePassesFloorsAndKind(t *testing.T) {
	corpus := &testutil.FakeCorpus{
		Candidates: map[resolve.EntityKind][]resolve.Candidate{
			resolve.KindSong: {{ID: "42", DisplayName: "Thunder Road", Similarity: 0.9, Rank: 0.5}},
		},
	}
	b, _ := testBot(corpus)

	ent, miss, err := b.resolveOne(context.Background(), resolve.KindSong, "thndr rd")
	if err != nil {
		t.Fatalf("resolveOne: %v", err)
	}
	if miss != "" {
		t.Fatalf("unexpected miss reply %q", miss)
	}
	if ent.ID != "42" || ent.DisplayName != "Thunder Road" {
		t.Errorf("got entity %+v", ent)
	}
	if len(corpus.Requests) != 1 {
		t.Fatalf("expected one corpus request, got %d", len(corpus.Requests))
	}
	req := corpus.Requests[0]
	if req.Kind != resolve.KindSong {
		t.Errorf("kind = %v", req.Kind)
	}
	if req.Floor != resolve.DefaultFloors()[resolve.KindSong] {
		t.Errorf("floor = %v", req.Floor)
	}
}

func TestFindListsMatchesInRankOrder(t *testing.T) {
	corpus := &testutil.FakeCorpus{
		Candidates: map[resolve.EntityKind][]resolve.Candidate{
			resolve.KindVenue: {
				{ID: "1", DisplayName: "Madison Square Garden", Similarity: 0.8, Rank: 0.4},
				{ID: "2", DisplayName: "The Garden State Arts Center", Similarity: 0.5, Rank: 0.2},
			},
		},
	}
	b, sender := testBot(corpus)

	b.handleMessage(context.Background(), privMsg("viewer", "!find venue garden"))
	if len(sender.messages) != 1 {
		t.Fatalf("expected one reply, got %v", sender.messages)
	}
	msg := sender.messages[0]
	msg1 := strings.Index(msg, "Madison Square Garden")
	msg2 := strings.Index(msg, "The Garden State Arts Center")
	if msg1 < 0 || msg2 < 0 {
		t.Fatalf("reply %q missing candidates", msg)
	}
	if msg1 > msg2 {
		t.Error("candidates out of rank order")
	}
}

func TestChunkMessage(t *testing.T) {
	short := "a short reply"
	if parts := chunkMessage(short, maxMessageLen); len(parts) != 1 || parts[0] != short {
		t.Errorf("short message should pass through, got %v", parts)
	}

	long := strings.TrimSuffix(strings.Repeat("Badlands: 1978-07-07 | ", 40), " | ")
	parts := chunkMessage(long, maxMessageLen)
	if len(parts) < 2 {
		t.Fatalf("expected long message to split, got %d parts", len(parts))
	}
	for i, p := range parts {
		if len(p) > maxMessageLen {
			t.Errorf("part %d is %d chars, over limit", i, len(p))
		}
		if p == "" {
			t.Errorf("part %d is empty", i)
		}
	}
	joined := strings.Join(parts, " ")
	if !strings.Contains(joined, "Badlands: 1978-07-07") {
		t.Error("content lost in chunking")
	}
}

func TestChunkMessageMultibyteSafe(t *testing.T) {
	withSpaces := strings.TrimSpace(strings.Repeat("Café Olé Señor | ", 80))
	noSpaces := strings.Repeat("é", 1200)
	for _, text := range []string{withSpaces, noSpaces} {
		parts := chunkMessage(text, maxMessageLen)
		if len(parts) < 2 {
			t.Fatalf("expected multibyte text to split, got %d parts", len(parts))
		}
		for i, p := range parts {
			if !utf8.ValidString(p) {
				t.Errorf("part %d contains invalid UTF-8", i)
			}
			if utf8.RuneCountInString(p) > maxMessageLen {
				t.Errorf("part %d is %d runes, over limit", i, utf8.RuneCountInString(p))
			}
		}
	}
}

func TestUsageReplies(t *testing.T) {
	b, sender := testBot(&testutil.FakeCorpus{})
	for _, cmd := range []string{"!song", "!venue", "!tour", "!relation", "!album", "!snippet", "!city", "!state", "!country", "!opener", "!closer"} {
		sender.messages = nil
		b.handleMessage(context.Background(), privMsg("viewer", cmd))
		if len(sender.messages) != 1 || !strings.Contains(sender.messages[0], "usage:") {
			t.Errorf("%s: expected usage reply, got %v", cmd, sender.messages)
		}
	}
}
