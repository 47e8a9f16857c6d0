package main

import (
	"encoding/json"
	"sort"
)

// Snapshot shapes: the broadcast form of a State, identical for every
// client. Concealment is structural (the true longitude is simply absent
// until reveal), not per-recipient.

type stateSnapshot struct {
	Phase             any `json:"phase"`
	UpcomingQuestions int `json:"upcoming_questions"`
}

type lobbySnapshot struct {
	Type   string   `json:"type"`
	Joined []string `json:"joined"`
}

type questionSnapshot struct {
	ImageRef  string   `json:"image_ref"`
	Latitude  float64  `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type guessSnapshot struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type roundSnapshot struct {
	Type     string                   `json:"type"`
	Question questionSnapshot         `json:"question"`
	Guesses  map[string]guessSnapshot `json:"guesses"`
	Revealed bool                     `json:"revealed"`
	Scores   map[string]float64       `json:"scores"`
}

type endSnapshot struct {
	Type   string             `json:"type"`
	Scores map[string]float64 `json:"scores"`
}

func serializeState(state State) stateSnapshot {
	return stateSnapshot{
		Phase:             serializePhase(state.Phase),
		UpcomingQuestions: len(state.UpcomingQuestions),
	}
}

func serializePhase(phase Phase) any {
	switch p := phase.(type) {
	case Lobby:
		joined := make([]string, 0, len(p.Joined))
		for name := range p.Joined {
			joined = append(joined, name)
		}
		sort.Strings(joined)
		return lobbySnapshot{
			Type:   "lobby",
			Joined: joined,
		}

	case QuestionRound:
		q := questionSnapshot{
			ImageRef: p.Question.ImageRef,
			Latitude: p.Question.Latitude,
		}
		if p.Revealed {
			lon := p.Question.Longitude
			q.Longitude = &lon
		}

		guesses := make(map[string]guessSnapshot, len(p.Guesses))
		for name, g := range p.Guesses {
			guesses[name] = guessSnapshot{Lat: g.Latitude, Lon: g.Longitude}
		}

		return roundSnapshot{
			Type:     "question",
			Question: q,
			Guesses:  guesses,
			Revealed: p.Revealed,
			Scores:   copyScores(p.Scores),
		}

	case End:
		return endSnapshot{
			Type:   "end",
			Scores: copyScores(p.Scores),
		}
	}

	return nil
}

func copyScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for name, total := range scores {
		out[name] = total
	}
	return out
}

func marshalState(state State) ([]byte, error) {
	return json.Marshal(serializeState(state))
}
