// Package games holds per-user quiz and guess-the-number sessions. Sessions
// live in memory only; an idle session is dropped after the store's TTL.
package games

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

var ErrNoSession = errors.New("no game in progress")

type Question struct {
	Prompt string `json:"question"`
	Answer string `json:"-"`
}

var QuizQuestions = []Question{
	{Prompt: "What is 15 + 27?", Answer: "42"},
	{Prompt: "What is 8 × 7?", Answer: "56"},
	{Prompt: "What is 144 ÷ 12?", Answer: "12"},
	{Prompt: "What is 25²?", Answer: "625"},
	{Prompt: "What is the square root of 81?", Answer: "9"},
}

const (
	QuizPointsPerAnswer = 10

	GuessMin         = 1
	GuessMax         = 100
	GuessMaxAttempts = 10
	guessMinScore    = 10
	guessStepPenalty = 5
)

// GuessScore is the score for finding the number on the given attempt.
func GuessScore(attempts int) int {
	return max(100-attempts*guessStepPenalty, guessMinScore)
}

type quizSession struct {
	answer   string
	score    int
	lastSeen time.Time
}

type guessSession struct {
	target   int
	attempts int
	lastSeen time.Time
}

type Store struct {
	mu    sync.Mutex
	quiz  map[uint]*quizSession
	guess map[uint]*guessSession
	ttl   time.Duration

	// Intn returns a value in [0, n); replaceable in tests.
	Intn func(n int) int
	Now  func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		quiz:  make(map[uint]*quizSession),
		guess: make(map[uint]*guessSession),
		ttl:   ttl,
		Intn:  rand.IntN,
		Now:   time.Now,
	}
}

// Run drops idle sessions every minute until stop is closed.
func (s *Store) Run(stop <-chan struct{}) {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			s.Sweep()
		case <-stop:
			return
		}
	}
}

func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.Now().Add(-s.ttl)
	for id, q := range s.quiz {
		if q.lastSeen.Before(cutoff) {
			delete(s.quiz, id)
		}
	}
	for id, g := range s.guess {
		if g.lastSeen.Before(cutoff) {
			delete(s.guess, id)
		}
	}
}

// NextQuestion draws a question for the user, keeping any running score.
func (s *Store) NextQuestion(userID uint) (Question, int) {
	q := QuizQuestions[s.Intn(len(QuizQuestions))]
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.quiz[userID]
	if sess == nil {
		sess = &quizSession{}
		s.quiz[userID] = sess
	}
	sess.answer = q.Answer
	sess.lastSeen = s.Now()
	return q, sess.score
}

type QuizResult struct {
	Correct  bool   `json:"correct"`
	Answer   string `json:"correct_answer,omitempty"`
	Score    int    `json:"score"`
	Finished bool   `json:"finished"`
}

// AnswerQuiz checks an answer. A correct answer adds to the score; a wrong
// one ends the session and returns the final score.
func (s *Store) AnswerQuiz(userID uint, answer string) (QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.quiz[userID]
	if sess == nil || sess.answer == "" {
		return QuizResult{}, ErrNoSession
	}
	if strings.EqualFold(strings.TrimSpace(answer), sess.answer) {
		sess.score += QuizPointsPerAnswer
		sess.answer = ""
		sess.lastSeen = s.Now()
		return QuizResult{Correct: true, Score: sess.score}, nil
	}
	delete(s.quiz, userID)
	return QuizResult{Answer: sess.answer, Score: sess.score, Finished: true}, nil
}

// StartGuess begins a game unless one is running and returns the attempts used so far.
func (s *Store) StartGuess(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.guess[userID]
	if sess == nil {
		sess = &guessSession{target: GuessMin + s.Intn(GuessMax-GuessMin+1)}
		s.guess[userID] = sess
	}
	sess.lastSeen = s.Now()
	return sess.attempts
}

const (
	GuessCorrect  = "correct"
	GuessTooLow   = "too_low"
	GuessTooHigh  = "too_high"
	GuessGameOver = "game_over"
)

type GuessResult struct {
	Outcome  string `json:"outcome"`
	Attempts int    `json:"attempts"`
	Score    int    `json:"score,omitempty"`
	Number   int    `json:"number,omitempty"`
}

func (s *Store) Guess(userID uint, n int) (GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.guess[userID]
	if sess == nil {
		return GuessResult{}, ErrNoSession
	}
	sess.attempts++
	sess.lastSeen = s.Now()
	res := GuessResult{Attempts: sess.attempts}
	switch {
	case n == sess.target:
		res.Outcome = GuessCorrect
		res.Score = GuessScore(sess.attempts)
		res.Number = sess.target
		delete(s.guess, userID)
		return res, nil
	case n < sess.target:
		res.Outcome = GuessTooLow
	default:
		res.Outcome = GuessTooHigh
	}
	if sess.attempts >= GuessMaxAttempts {
		res.Outcome = GuessGameOver
		res.Number = sess.target
		delete(s.guess, userID)
	}
	return res, nil
}
