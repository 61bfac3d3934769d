package resolve

// Outcome tags a Result.
type Outcome int

const (
	// Found carries exactly one entity.
	Found Outcome = iota
	// FoundMany carries a non-empty ordered list.
	FoundMany
	// NotFound carries only the original query text.
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case FoundMany:
		return "found_many"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ResolvedEntity is the winner handed back to the caller. It is created once
// ranking and disambiguation complete and is not retained by the resolver.
// Name is the candidate's bare name; DisplayName adds the locality qualifier
// and exists only for user-facing text.
type ResolvedEntity struct {
	ID          string
	Name        string
	DisplayName string
	Row         any
}

// Result is the only state that crosses the resolver boundary. Entity is
// meaningful for Found, Entities (never empty) for FoundMany; Query always
// holds the caller's original raw text.
type Result struct {
	Outcome  Outcome
	Entity   ResolvedEntity
	Entities []ResolvedEntity
	Query    string
}

// ambiguousCountries are countries with enough same-named cities that a bare
// city name is ambiguous (Portland, Springfield, ...). Cities there are
// qualified with their state; cities elsewhere with their country.
var ambiguousCountries = map[string]bool{
	"USA":       true,
	"Canada":    true,
	"Australia": true,
	"England":   true,
}

// QualifiedName returns the candidate's display name with a locality
// qualifier when one is needed to tell same-named entities apart. This is a
// display concern only: the corpus fills State/Country for city candidates
// and leaves them empty for every other kind, and the qualifier never
// influences ranking.
func QualifiedName(c Candidate) string {
	switch {
	case c.Country == "":
		return c.DisplayName
	case ambiguousCountries[c.Country] && c.State != "":
		return c.DisplayName + ", " + c.State
	default:
		return c.DisplayName + ", " + c.Country
	}
}
