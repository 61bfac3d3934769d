package testutil

import (
	"context"

	"github.com/lilbud/brucebot/resolve"
)

// FakeCorpus is an in-memory resolve.Corpus for handler tests. Candidates
// are returned per kind regardless of query text; Err, when set, is
// returned instead.
type FakeCorpus struct {
	Candidates map[resolve.EntityKind][]resolve.Candidate
	Err        error
	Requests   []resolve.SearchRequest
}

// Search records the request and replays the configured candidates.
func (f *FakeCorpus) Search(_ context.Context, req resolve.SearchRequest) ([]resolve.Candidate, error) {
	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Candidates[req.Kind], nil
}
