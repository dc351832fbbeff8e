package sat

// Watcher represents a clause attached to the watch list of a literal.
type Watcher struct {
	// Clause is the watching clause to be propagated when the watched
	// literal becomes true.
	Clause ClauseRef

	// Blocker is one of the clause's literals. If it is already true there
	// is no need to load and propagate the clause; the blocker must be
	// different from the watched literal itself.
	Blocker Literal
}

// Watch registers clause c to be awoken when watch becomes true, using
// guard as the blocking literal.
func (s *Solver) Watch(c ClauseRef, watch Literal, guard Literal) {
	s.watchers[watch] = append(s.watchers[watch], Watcher{Clause: c, Blocker: guard})
}

// Unwatch removes clause c from the watch list of watch, eagerly.
// removeClause calls it for both watches of every clause it frees, so watch
// lists hold no entries for freed clauses and propagate does not check for
// them.
func (s *Solver) Unwatch(c ClauseRef, watch Literal) {
	ws := s.watchers[watch]
	j := 0
	for i := range ws {
		if ws[i].Clause != c {
			ws[j] = ws[i]
			j++
		}
	}
	s.watchers[watch] = ws[:j]
}
