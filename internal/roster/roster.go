// Package roster resolves a division's teams for one generation run.
//
// Old seasons stored "FUN WEEK", "BYE" and "TST" as real team rows; those
// are stripped from the playing roster and replaced with virtual teams
// carrying negative IDs. The virtual teams exist only for the duration of
// one run and are never persisted.
package roster

type Team struct {
	ID   int
	Name string
}

// The three legacy placeholder names.
const (
	PlaceholderFunWeek = "FUN WEEK"
	PlaceholderBye     = "BYE"
	PlaceholderTst     = "TST"
)

// virtualIDStart is the first synthetic ID; subsequent placeholders count
// down from here so they can never collide with store-assigned IDs.
const virtualIDStart = -1000

var placeholderNames = []string{PlaceholderFunWeek, PlaceholderBye, PlaceholderTst}

// Resolver holds the playing roster and the placeholder set for one run.
type Resolver struct {
	teams        []Team
	placeholders map[string]Team
	byID         map[int]Team
}

// NewResolver splits a division's team list into real teams and
// placeholders. A legacy real row with a placeholder name is kept as that
// placeholder; otherwise a virtual team is synthesized with the next
// negative ID starting at -1000.
func NewResolver(divisionTeams []Team) *Resolver {
	r := &Resolver{
		placeholders: make(map[string]Team),
		byID:         make(map[int]Team),
	}

	legacy := make(map[string]Team)
	for _, t := range divisionTeams {
		if isPlaceholderName(t.Name) {
			legacy[t.Name] = t
			continue
		}
		r.teams = append(r.teams, t)
		r.byID[t.ID] = t
	}

	nextID := virtualIDStart
	for _, name := range placeholderNames {
		if t, ok := legacy[name]; ok {
			r.placeholders[name] = t
			continue
		}
		r.placeholders[name] = Team{ID: nextID, Name: name}
		nextID--
	}

	return r
}

func isPlaceholderName(name string) bool {
	for _, p := range placeholderNames {
		if name == p {
			return true
		}
	}
	return false
}

// Teams returns the playing roster with placeholders stripped.
func (r *Resolver) Teams() []Team {
	return r.teams
}

// TeamIDs returns the playing roster's IDs in input order.
func (r *Resolver) TeamIDs() []int {
	ids := make([]int, len(r.teams))
	for i, t := range r.teams {
		ids[i] = t.ID
	}
	return ids
}

// Placeholder returns the placeholder team for one of the three known
// names.
func (r *Resolver) Placeholder(name string) (Team, bool) {
	t, ok := r.placeholders[name]
	return t, ok
}

// Lookup resolves a team by ID. Negative IDs are checked against the
// virtual placeholder set first; positive IDs fall back to the division
// roster.
func (r *Resolver) Lookup(id int) (Team, bool) {
	if id < 0 {
		for _, t := range r.placeholders {
			if t.ID == id {
				return t, true
			}
		}
		return Team{}, false
	}
	if t, ok := r.byID[id]; ok {
		return t, true
	}
	// Legacy placeholder rows keep their positive store IDs.
	for _, t := range r.placeholders {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}
