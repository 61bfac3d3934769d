package bot

import "context"

// handlerFunc produces zero or more reply lines for a command invocation.
// args is the raw text after the command word.
type handlerFunc func(ctx context.Context, args string) ([]string, error)

type command struct {
	name      string
	aliases   []string
	ownerOnly bool
	handle    handlerFunc
}

// router maps command words (and aliases) to handlers. Lookup is
// case-insensitive; callers lowercase before calling lookup.
type router struct {
	byName map[string]*command
	order  []*command
}

func newRouter(b *Bot) *router {
	r := &router{byName: make(map[string]*command)}
	for _, c := range []*command{
		{name: "song", aliases: []string{"s"}, handle: b.cmdSong},
		{name: "find", handle: b.cmdFind},
		{name: "snippet", aliases: []string{"snip"}, handle: b.cmdSnippet},
		{name: "album", aliases: []string{"a"}, handle: b.cmdAlbum},
		{name: "venue", aliases: []string{"v"}, handle: b.cmdVenue},
		{name: "city", handle: b.locationHandler("city")},
		{name: "state", handle: b.locationHandler("state")},
		{name: "country", handle: b.locationHandler("country")},
		{name: "tour", aliases: []string{"t"}, handle: b.cmdTour},
		{name: "relation", aliases: []string{"rel"}, handle: b.cmdRelation},
		{name: "setlist", aliases: []string{"sl"}, handle: b.cmdSetlist},
		{name: "otd", handle: b.cmdOnThisDay},
		{name: "bootleg", aliases: []string{"boot"}, handle: b.cmdBootleg},
		{name: "archive", aliases: []string{"ar"}, handle: b.cmdArchive},
		{name: "opener", handle: b.positionHandler("Opener")},
		{name: "closer", handle: b.positionHandler("Closer")},
		{name: "info", handle: b.cmdInfo},
		{name: "shutdown", ownerOnly: true, handle: b.cmdShutdown},
	} {
		r.register(c)
	}
	return r
}

func (r *router) register(c *command) {
	r.order = append(r.order, c)
	r.byName[c.name] = c
	for _, a := range c.aliases {
		r.byName[a] = c
	}
}

func (r *router) lookup(name string) (*command, bool) {
	c, ok := r.byName[name]
	return c, ok
}
