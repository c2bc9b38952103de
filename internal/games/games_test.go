package games

import (
	"testing"
	"time"
)

func fixedStore(pick int) *Store {
	s := NewStore(time.Hour)
	s.Intn = func(n int) int { return pick % n }
	return s
}

func TestQuizScoresUntilWrongAnswer(t *testing.T) {
	s := fixedStore(0) // always "What is 15 + 27?"
	q, score := s.NextQuestion(1)
	if q.Answer != "42" || score != 0 {
		t.Fatalf("unexpected first question %+v score %d", q, score)
	}
	res, err := s.AnswerQuiz(1, " 42 ")
	if err != nil || !res.Correct || res.Score != 10 {
		t.Fatalf("first answer = %+v, %v", res, err)
	}
	if _, err := s.AnswerQuiz(1, "42"); err != ErrNoSession {
		t.Fatalf("answering twice without a new question: got %v", err)
	}
	s.NextQuestion(1)
	res, _ = s.AnswerQuiz(1, "42")
	if res.Score != 20 {
		t.Fatalf("score after two correct = %d, want 20", res.Score)
	}
	s.NextQuestion(1)
	res, _ = s.AnswerQuiz(1, "41")
	if res.Correct || !res.Finished || res.Score != 20 || res.Answer != "42" {
		t.Fatalf("wrong answer result = %+v", res)
	}
	if _, err := s.AnswerQuiz(1, "42"); err != ErrNoSession {
		t.Fatalf("session should be gone, got %v", err)
	}
}

func TestGuessScore(t *testing.T) {
	tests := []struct{ attempts, want int }{
		{1, 95}, {5, 75}, {10, 50}, {18, 10}, {25, 10},
	}
	for _, tt := range tests {
		if got := GuessScore(tt.attempts); got != tt.want {
			t.Errorf("GuessScore(%d) = %d, want %d", tt.attempts, got, tt.want)
		}
	}
}

func TestGuessHintsAndWin(t *testing.T) {
	s := fixedStore(49) // target 50
	s.StartGuess(7)
	if res, _ := s.Guess(7, 10); res.Outcome != GuessTooLow {
		t.Fatalf("guess 10: %+v", res)
	}
	if res, _ := s.Guess(7, 90); res.Outcome != GuessTooHigh {
		t.Fatalf("guess 90: %+v", res)
	}
	res, err := s.Guess(7, 50)
	if err != nil || res.Outcome != GuessCorrect || res.Attempts != 3 || res.Score != 85 {
		t.Fatalf("winning guess = %+v, %v", res, err)
	}
	if _, err := s.Guess(7, 50); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after win, got %v", err)
	}
}

func TestGuessGameOver(t *testing.T) {
	s := fixedStore(49)
	s.StartGuess(3)
	var res GuessResult
	for i := 0; i < GuessMaxAttempts; i++ {
		res, _ = s.Guess(3, 1)
	}
	if res.Outcome != GuessGameOver || res.Number != 50 {
		t.Fatalf("last guess = %+v", res)
	}
	if _, err := s.Guess(3, 1); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after game over, got %v", err)
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := fixedStore(0)
	s.Now = func() time.Time { return now }
	s.ttl = 10 * time.Minute
	s.NextQuestion(1)
	s.StartGuess(1)
	now = now.Add(11 * time.Minute)
	s.Sweep()
	if _, err := s.AnswerQuiz(1, "42"); err != ErrNoSession {
		t.Fatalf("quiz session survived sweep: %v", err)
	}
	if _, err := s.Guess(1, 1); err != ErrNoSession {
		t.Fatalf("guess session survived sweep: %v", err)
	}
}
