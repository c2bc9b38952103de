package service

import (
	"context"
	"errors"

	"plaza/internal/domain"
	"plaza/internal/games"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"
)

var ErrInvalidScore = errors.New("score must be positive")

const leaderboardSize = 5

type GameService struct {
	scores     *repository.GameRepository
	sessions   *games.Store
	dispatcher *ActivityDispatcher
	log        *logger.Logger
}

func NewGameService(scores *repository.GameRepository, sessions *games.Store, dispatcher *ActivityDispatcher, log *logger.Logger) *GameService {
	return &GameService{scores: scores, sessions: sessions, dispatcher: dispatcher, log: log}
}

// SaveScore stores a finished game and awards score/10 points.
func (s *GameService) SaveScore(ctx context.Context, userID uint, gameType string, score int) (*models.GameScore, *ActionOutcome, error) {
	if score <= 0 {
		return nil, nil, ErrInvalidScore
	}
	gs := &models.GameScore{UserID: userID, GameType: gameType, Score: score}
	if err := s.scores.Create(ctx, gs); err != nil {
		return nil, nil, err
	}
	out := s.dispatcher.Reward(ctx, ActivityAction{
		UserID: userID,
		Kind:   domain.ActionGame,
		Points: domain.GamePoints(score),
		Reason: gameType + " game",
	})
	return gs, out, nil
}

func (s *GameService) SubmitSnake(ctx context.Context, userID uint, score int) (*models.GameScore, *ActionOutcome, error) {
	return s.SaveScore(ctx, userID, domain.GameSnake, score)
}

func (s *GameService) QuizQuestion(userID uint) (games.Question, int) {
	return s.sessions.NextQuestion(userID)
}

// QuizAnswer checks an answer; a wrong answer ends the round and saves any score earned.
func (s *GameService) QuizAnswer(ctx context.Context, userID uint, answer string) (games.QuizResult, *ActionOutcome, error) {
	res, err := s.sessions.AnswerQuiz(userID, answer)
	if err != nil {
		return res, nil, err
	}
	if !res.Finished || res.Score <= 0 {
		return res, nil, nil
	}
	_, out, err := s.SaveScore(ctx, userID, domain.GameQuiz, res.Score)
	return res, out, err
}

func (s *GameService) GuessStart(userID uint) int {
	return s.sessions.StartGuess(userID)
}

func (s *GameService) Guess(ctx context.Context, userID uint, n int) (games.GuessResult, *ActionOutcome, error) {
	res, err := s.sessions.Guess(userID, n)
	if err != nil || res.Outcome != games.GuessCorrect {
		return res, nil, err
	}
	_, out, err := s.SaveScore(ctx, userID, domain.GameGuessNumber, res.Score)
	return res, out, err
}

func (s *GameService) BestScores(ctx context.Context, userID uint) (map[string]int, error) {
	best, err := s.scores.BestScores(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, g := range domain.GameTypes {
		if _, ok := best[g]; !ok {
			best[g] = 0
		}
	}
	return best, nil
}

type LeaderboardEntry struct {
	User  models.UserCompact `json:"user"`
	Score int                `json:"score"`
}

// Leaderboards returns the top scores of every game type.
func (s *GameService) Leaderboards(ctx context.Context) (map[string][]LeaderboardEntry, error) {
	out := make(map[string][]LeaderboardEntry, len(domain.GameTypes))
	for _, g := range domain.GameTypes {
		list, err := s.scores.Leaderboard(ctx, g, leaderboardSize)
		if err != nil {
			return nil, err
		}
		entries := make([]LeaderboardEntry, 0, len(list))
		for i := range list {
			entries = append(entries, LeaderboardEntry{User: list[i].User.ToCompact(), Score: list[i].Score})
		}
		out[g] = entries
	}
	return out, nil
}
