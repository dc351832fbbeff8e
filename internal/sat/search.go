package sat

import "github.com/sirupsen/logrus"

// search runs one CDCL search, deciding the registered assumptions first
// (levels 1..len(s.assumptions), via nextDecisionLiteral), returning True,
// False (UNSAT, or UNSAT under the assumptions when one of them is
// contradicted) or Unknown (terminated/resource limit hit). It sequences spec.md section 2's
// decide -> propagate -> analyze -> learn -> backtrack -> restart ->
// reduce -> inprocess loop.
func (s *Solver) search() LBool {
	for {
		if s.shouldTerminate() {
			return Unknown
		}

		confl := s.propagate()
		if confl != RefUndef {
			s.stats.Conflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learnt, backtrackLevel, lbd := s.analyze(confl)
			s.recordLearnt(learnt, lbd)
			if s.proofWriter != nil {
				dimacs := s.toDimacs(learnt)
				_ = s.proofWriter.Add(dimacs)
				if s.proofChecker != nil {
					if err := s.proofChecker.Verify(dimacs); err != nil {
						s.lastErr = wrapf(ErrProofCheckFailed, "%s", err)
						s.log().WithError(err).Error("proof check failed")
						return Unknown
					}
				}
			}

			target := backtrackLevel
			if s.opts.ChronoBacktracking && len(learnt) > 1 && s.decisionLevel()-(backtrackLevel+1) > s.opts.ChronoThreshold {
				target = s.decisionLevel() - 1 // chronological: back off one level at a time instead
			}
			s.cancelUntil(target)
			s.replaySaved()

			ref, ok, err := s.newClause(learnt, true)
			if err != nil {
				s.lastErr = err
				return Unknown
			}
			if !ok {
				s.unsat = true
				return False
			}
			if ref != RefUndef {
				s.learnts = append(s.learnts, ref)
				s.assignTier(ref, lbd)
				if s.arena.tier(ref) == TierCore {
					s.lastCoreLearnt = s.stats.Conflicts
				}
				s.enqueue(learnt[0], ref)
			}
			// A size-1 learnt clause was already enqueued as a root-level
			// fact by newClause itself; nothing further to attach.

			s.order.Decay()
			s.decayClauseActivity()
			s.restart.OnConflict(lbd, s.trail.Len())

			if s.restart.ShouldRestart(s.stats.Conflicts, s.trail.Len()) && s.decisionLevel() > len(s.assumptions) {
				s.stats.Restarts++
				s.restart.Reset()
				s.cancelUntil(len(s.assumptions))
				s.replaySaved()
				s.log().WithFields(logrus.Fields{
					"restarts":  s.stats.Restarts,
					"conflicts": s.stats.Conflicts,
				}).Info("restart")
			}

			s.maybeReduce()
			continue
		}

		// No conflict: either we're done, or it's time to make a decision.
		if s.decisionLevel() == 0 && s.opts.InprocessingEnabled {
			before := s.liveConstraints()
			if err := s.elim.Run(); err != nil {
				s.lastErr = err
				return Unknown
			}
			if s.unsat {
				return False
			}
			s.log().WithFields(logrus.Fields{
				"before": before,
				"after":  s.liveConstraints(),
			}).Info("inprocessing pass")
		}

		if s.opts.SLSEnabled && s.decisionLevel() == 0 &&
			s.stats.Conflicts-s.lastCoreLearnt > s.opts.SLSStallWindow {
			s.seedPhasesFromSLS()
			s.lastCoreLearnt = s.stats.Conflicts
		}

		lit, ok := s.nextDecisionLiteral()
		if !ok {
			if s.decisionLevel() < len(s.assumptions) {
				return False // an assumption is contradicted: UNSAT under assumptions
			}
			return True // every variable assigned, no conflict: satisfiable
		}

		s.stats.Decisions++
		s.assume(lit)
	}
}

// recordLearnt reports a freshly minimized learnt clause to the caller's
// LearnFunc hook, if any and if it is short enough to report.
func (s *Solver) recordLearnt(learnt []Literal, lbd int) {
	if s.learnCB == nil || len(learnt) > s.learnMaxLen {
		return
	}
	cb := append([]Literal(nil), learnt...)
	s.learnCB(cb)
}

// nextDecisionLiteral returns the next literal to branch on, honoring any
// assumptions still pending at the current decision level (spec.md
// section 6, "assumptions"): an assumption literal already contradicted by
// the trail is recorded via recordFailedAssumption and reported as
// (LitUndef, false) below len(s.assumptions), which search returns as False.
func (s *Solver) nextDecisionLiteral() (Literal, bool) {
	if s.decisionLevel() < len(s.assumptions) {
		a := s.assumptions[s.decisionLevel()]
		switch s.LitValue(a) {
		case True:
			s.trail.NewDecisionLevel() // trivially satisfied assumption still opens a level, matching backtrackLevel bookkeeping
			return s.nextDecisionLiteral()
		case False:
			s.recordFailedAssumption(a)
			return LitUndef, false
		default:
			return a, true
		}
	}
	return s.order.NextDecision(s.VarValue)
}

// recordFailedAssumption walks the implication graph for the contradicted
// assumption, marking every assumption literal implicated in its falsity so
// Solver.Failed can report the unsatisfiable core spec.md section 6 asks
// for.
func (s *Solver) recordFailedAssumption(a Literal) {
	s.failedLiteral[a] = true
	s.seenVar.Clear()
	s.seenVar.Add(a.VarID())
	for i := s.trail.Len() - 1; i >= 0; i-- {
		l := s.trail.At(i)
		v := l.VarID()
		if !s.seenVar.Contains(v) {
			continue
		}
		reason := s.varReason[v]
		if reason == RefUndef {
			if containsAssumption(s.assumptions, l) {
				s.failedLiteral[l] = true
			}
			continue
		}
		for _, q := range s.explainAssign(reason, l) {
			s.seenVar.Add(q.VarID())
		}
	}
}

func containsAssumption(assumptions []Literal, l Literal) bool {
	for _, a := range assumptions {
		if a == l {
			return true
		}
	}
	return false
}
