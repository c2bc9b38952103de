package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

var ErrPollOptions = errors.New("a poll needs between 2 and 4 options")

const (
	minPollOptions = 2
	maxPollOptions = 4
)

type PollOptionResult struct {
	ID         uint    `json:"id"`
	Text       string  `json:"text"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type PollResults struct {
	ID         uint               `json:"id"`
	Question   string             `json:"question"`
	IsActive   bool               `json:"is_active"`
	EndsAt     *time.Time         `json:"ends_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Options    []PollOptionResult `json:"options"`
	TotalVotes int64              `json:"total_votes"`
	MyOptionID *uint              `json:"my_option_id"`
}

type PollService struct {
	polls      *repository.PollRepository
	dispatcher *ActivityDispatcher
	log        *logger.Logger

	Now func() time.Time
}

func NewPollService(polls *repository.PollRepository, dispatcher *ActivityDispatcher, log *logger.Logger) *PollService {
	return &PollService{polls: polls, dispatcher: dispatcher, log: log, Now: time.Now}
}

// Create stores a poll. Blank options are dropped; durationHours 0 means open-ended.
func (s *PollService) Create(ctx context.Context, userID uint, question string, options []string, durationHours int) (*models.Poll, *ActionOutcome, error) {
	p := &models.Poll{UserID: userID, Question: strings.TrimSpace(question), IsActive: true}
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			p.Options = append(p.Options, models.PollOption{Text: o})
		}
	}
	if len(p.Options) < minPollOptions || len(p.Options) > maxPollOptions {
		return nil, nil, ErrPollOptions
	}
	if durationHours > 0 {
		ends := s.Now().Add(time.Duration(durationHours) * time.Hour)
		p.EndsAt = &ends
	}
	if err := s.polls.Create(ctx, p); err != nil {
		return nil, nil, err
	}
	out := s.dispatcher.Reward(ctx, NewAction(userID, domain.ActionPollCreate, "created poll"))
	return p, out, nil
}

func (s *PollService) ListActive(ctx context.Context, limit int) ([]models.Poll, error) {
	return s.polls.ListActive(ctx, limit)
}

// Results returns vote counts and percentages. An expired poll is
// deactivated here, on first view after its end time.
func (s *PollService) Results(ctx context.Context, pollID, viewerID uint) (*PollResults, error) {
	p, err := s.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if p.IsActive && p.Expired(s.Now()) {
		if err := s.polls.Deactivate(ctx, p.ID); err != nil {
			return nil, err
		}
		p.IsActive = false
	}
	counts, err := s.polls.VoteCounts(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	res := &PollResults{ID: p.ID, Question: p.Question, IsActive: p.IsActive, EndsAt: p.EndsAt, CreatedAt: p.CreatedAt}
	for _, o := range p.Options {
		res.TotalVotes += counts[o.ID]
	}
	for _, o := range p.Options {
		r := PollOptionResult{ID: o.ID, Text: o.Text, Votes: counts[o.ID]}
		if res.TotalVotes > 0 {
			r.Percentage = float64(r.Votes) / float64(res.TotalVotes) * 100
		}
		res.Options = append(res.Options, r)
	}
	if viewerID != 0 {
		v, err := s.polls.GetVote(ctx, viewerID, p.ID)
		if err != nil {
			return nil, err
		}
		if v != nil {
			res.MyOptionID = &v.OptionID
		}
	}
	return res, nil
}

// Vote casts or changes the user's vote.
func (s *PollService) Vote(ctx context.Context, userID, pollID, optionID uint) (*ActionOutcome, error) {
	p, err := s.getPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive || p.Expired(s.Now()) {
		return nil, domain.ErrPollClosed
	}
	valid := false
	for _, o := range p.Options {
		if o.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, domain.ErrInvalidPollOption
	}
	existing, err := s.polls.GetVote(ctx, userID, pollID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		err = s.polls.ChangeVote(ctx, existing.ID, optionID)
	} else {
		err = s.polls.CreateVote(ctx, &models.Vote{UserID: userID, PollID: pollID, OptionID: optionID})
	}
	if err != nil {
		return nil, err
	}
	return s.dispatcher.Reward(ctx, NewAction(userID, domain.ActionPollVote, "poll participation")), nil
}

func (s *PollService) getPoll(ctx context.Context, id uint) (*models.Poll, error) {
	p, err := s.polls.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return p, err
}
