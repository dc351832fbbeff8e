package sat

// propagate runs unit propagation to fixpoint using the watched-literal
// scheme of spec.md section 4.2, returning the first conflicting clause
// encountered, or RefUndef if the queue drains cleanly.
func (s *Solver) propagate() ClauseRef {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()
		s.stats.Propagations++

		ws := s.watchers[l]
		s.tmpWatchers = append(s.tmpWatchers[:0], ws...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			// A true blocker means the clause is already satisfied without
			// loading it at all — this reorders which clause a given
			// conflict is detected through compared to always loading the
			// clause, which is why conflict analysis and learnt clauses
			// can differ run to run even on the same instance.
			if s.LitValue(w.Blocker) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}

			if s.propagateClause(w.Clause, l) {
				continue
			}

			// w.Clause is conflicting: restore the watchers we have not
			// looked at yet, drop the rest of the queue, and report it.
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.propQueue.Clear()
			return w.Clause
		}
	}
	return RefUndef
}
