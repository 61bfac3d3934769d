// Package resolve implements the fuzzy entity resolution pipeline used by
// every search command: raw user text is normalized, turned into a
// parameterized search request, matched against an external corpus, and the
// surviving candidates are ranked and disambiguated into a single uniform
// result.
//
// The pipeline is stateless and reentrant: a Resolver holds only its corpus
// handle and floor configuration, retains nothing across calls, and may be
// shared by any number of concurrent commands. The corpus (a full-text +
// trigram capable store, in practice Postgres) is injected rather than read
// from process-wide state, and its errors are surfaced to the caller
// untouched so the command layer decides user-facing messaging.
package resolve
