package main

import (
	"encoding/json"
	"reflect"
	"testing"
)

func unmarshalSnapshot(t *testing.T, state State) map[string]any {
	t.Helper()

	data, err := marshalState(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestLobbySnapshot(t *testing.T) {
	s := newState(testQuestions(3))
	for _, name := range []string{"zoe", "alice", "bob"} {
		s = addPlayer(s, name)
	}

	out := unmarshalSnapshot(t, s)

	if got := out["upcoming_questions"]; got != float64(3) {
		t.Fatalf("upcoming_questions = %v, want 3", got)
	}

	phase := out["phase"].(map[string]any)
	if phase["type"] != "lobby" {
		t.Fatalf("type = %v, want lobby", phase["type"])
	}

	want := []any{"alice", "bob", "zoe"}
	if got := phase["joined"].([]any); !reflect.DeepEqual(got, want) {
		t.Fatalf("joined = %v, want sorted %v", got, want)
	}
}

func TestEmptyLobbySnapshotHasJoinedList(t *testing.T) {
	out := unmarshalSnapshot(t, newState(testQuestions(1)))

	phase := out["phase"].(map[string]any)
	joined, ok := phase["joined"].([]any)
	if !ok {
		t.Fatalf("joined missing or not a list: %v", phase["joined"])
	}
	if len(joined) != 0 {
		t.Fatalf("joined = %v, want empty list", joined)
	}
}

func TestQuestionSnapshotConcealsLongitudeUntilReveal(t *testing.T) {
	questions := []Question{{ImageRef: "/images/paris.jpg", Latitude: 48.8566, Longitude: 2.3522}}
	s := advance(addPlayer(newState(questions), "alice"))
	s = submitGuess(s, "alice", 50, 1)

	out := unmarshalSnapshot(t, s)
	phase := out["phase"].(map[string]any)

	if phase["type"] != "question" {
		t.Fatalf("type = %v, want question", phase["type"])
	}
	if phase["revealed"] != false {
		t.Fatal("expected unrevealed round")
	}

	q := phase["question"].(map[string]any)
	if q["image_ref"] != "/images/paris.jpg" {
		t.Fatalf("image_ref = %v", q["image_ref"])
	}
	if q["latitude"] != 48.8566 {
		t.Fatalf("latitude = %v", q["latitude"])
	}
	if q["longitude"] != nil {
		t.Fatalf("longitude before reveal = %v, want null", q["longitude"])
	}

	guesses := phase["guesses"].(map[string]any)
	g := guesses["alice"].(map[string]any)
	if g["lat"] != float64(50) || g["lon"] != float64(1) {
		t.Fatalf("guess = %v", g)
	}

	// After reveal the true longitude is disclosed.
	out = unmarshalSnapshot(t, advance(s))
	phase = out["phase"].(map[string]any)
	q = phase["question"].(map[string]any)

	if phase["revealed"] != true {
		t.Fatal("expected revealed round")
	}
	if q["longitude"] != 2.3522 {
		t.Fatalf("longitude after reveal = %v, want 2.3522", q["longitude"])
	}
}

func TestEndSnapshot(t *testing.T) {
	s := advance(addPlayer(newState(testQuestions(1)), "alice"))
	s = advance(s) // reveal
	s = advance(s) // end

	out := unmarshalSnapshot(t, s)

	phase := out["phase"].(map[string]any)
	if phase["type"] != "end" {
		t.Fatalf("type = %v, want end", phase["type"])
	}

	scores := phase["scores"].(map[string]any)
	if _, ok := scores["alice"]; !ok {
		t.Fatalf("scores = %v, want alice present", scores)
	}

	if got := out["upcoming_questions"]; got != float64(0) {
		t.Fatalf("upcoming_questions = %v, want 0", got)
	}
}
