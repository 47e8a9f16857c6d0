package main

// The session is modelled as a single immutable State value. The three
// transition functions below (addPlayer, submitGuess, advance) are pure and
// total: an event arriving in the wrong phase is ordinary concurrent-input
// noise and returns the input state unchanged rather than an error.

// Question is one image-based location prompt, created once at startup and
// never mutated.
type Question struct {
	ImageRef  string
	Latitude  float64
	Longitude float64
}

// Guess is a player-submitted coordinate pair. One per player per round;
// resubmitting overwrites.
type Guess struct {
	Latitude  float64
	Longitude float64
}

// Phase is the current stage of a session. Exactly three variants exist:
// Lobby, QuestionRound, and End.
type Phase interface {
	isPhase()
}

// Lobby is the initial phase, collecting player names before the first round.
type Lobby struct {
	Joined map[string]struct{}
}

// QuestionRound is one active question, spanning unrevealed (guesses open)
// to revealed (guesses locked, scores settled).
type QuestionRound struct {
	Question Question
	Guesses  map[string]Guess
	Revealed bool

	// Cumulative across rounds; carried forwards unchanged for players who
	// sit a round out.
	Scores map[string]float64
}

// End is the terminal phase. Scores are frozen from the final reveal.
type End struct {
	Scores map[string]float64
}

func (Lobby) isPhase()         {}
func (QuestionRound) isPhase() {}
func (End) isPhase()           {}

// State is the single authoritative session value: the current phase plus
// the questions not yet drawn. Transitions copy rather than mutate, so a
// State handed out for serialization is never written to again.
type State struct {
	Phase             Phase
	UpcomingQuestions []Question
}

func newState(questions []Question) State {
	return State{
		Phase:             Lobby{Joined: map[string]struct{}{}},
		UpcomingQuestions: questions,
	}
}

// addPlayer admits a name into the lobby. Idempotent; a no-op once the game
// has started.
func addPlayer(state State, name string) State {
	lobby, ok := state.Phase.(Lobby)
	if !ok {
		return state
	}
	if _, already := lobby.Joined[name]; already {
		return state
	}

	joined := make(map[string]struct{}, len(lobby.Joined)+1)
	for n := range lobby.Joined {
		joined[n] = struct{}{}
	}
	joined[name] = struct{}{}

	state.Phase = Lobby{Joined: joined}
	return state
}

// submitGuess records a guess for the active round, overwriting any earlier
// guess from the same player. Guesses lock at reveal; outside an unrevealed
// round this is a no-op.
func submitGuess(state State, name string, lat, lon float64) State {
	round, ok := state.Phase.(QuestionRound)
	if !ok || round.Revealed {
		return state
	}

	guesses := make(map[string]Guess, len(round.Guesses)+1)
	for n, g := range round.Guesses {
		guesses[n] = g
	}
	guesses[name] = Guess{Latitude: lat, Longitude: lon}

	round.Guesses = guesses
	state.Phase = round
	return state
}

// advance is the sole phase-transition driver, stepping
// lobby → round → reveal → next round → ... → end.
func advance(state State) State {
	switch phase := state.Phase.(type) {
	case Lobby:
		if len(state.UpcomingQuestions) == 0 {
			return state
		}

		// Scores are seeded exactly once, at lobby exit. Anyone not in the
		// lobby at this point is never scored.
		scores := make(map[string]float64, len(phase.Joined))
		for name := range phase.Joined {
			scores[name] = 0.0
		}

		return State{
			Phase: QuestionRound{
				Question: state.UpcomingQuestions[0],
				Guesses:  map[string]Guess{},
				Revealed: false,
				Scores:   scores,
			},
			UpcomingQuestions: state.UpcomingQuestions[1:],
		}

	case QuestionRound:
		// Guessing → reveal: settle this round's score contributions.
		// Guesses stay in place for client display.
		if !phase.Revealed {
			scores := make(map[string]float64, len(phase.Scores))
			for name, total := range phase.Scores {
				scores[name] = total
			}
			for name, guess := range phase.Guesses {
				if _, scored := scores[name]; !scored {
					// Not seeded at lobby exit; never enters the scoreboard.
					continue
				}
				d := haversineKm(guess.Latitude, guess.Longitude, phase.Question.Latitude, phase.Question.Longitude)
				scores[name] += scoreFromDistanceKm(d)
			}

			phase.Revealed = true
			phase.Scores = scores
			state.Phase = phase
			return state
		}

		// Revealed → next round, or end once the queue is exhausted.
		if len(state.UpcomingQuestions) > 0 {
			return State{
				Phase: QuestionRound{
					Question: state.UpcomingQuestions[0],
					Guesses:  map[string]Guess{},
					Revealed: false,
					Scores:   phase.Scores,
				},
				UpcomingQuestions: state.UpcomingQuestions[1:],
			}
		}

		state.Phase = End{Scores: phase.Scores}
		return state

	default:
		// End is terminal.
		return state
	}
}
