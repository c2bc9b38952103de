package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"plaza/internal/domain"
	"plaza/internal/models"
	"plaza/internal/repository"
	"plaza/pkg/cloudinary"
	"plaza/pkg/logger"

	"gorm.io/gorm"
)

type PostView struct {
	models.Post
	Author   models.UserCompact `json:"author"`
	Likes    int64              `json:"likes"`
	Dislikes int64              `json:"dislikes"`
}

type PostDetail struct {
	PostView
	Comments []models.Comment `json:"comments"`
	MyLike   *bool            `json:"my_reaction"`
}

// ReactionState is the viewer's reaction after a toggle; nil when removed.
type ReactionState struct {
	IsLike   *bool `json:"is_like"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

type PostService struct {
	posts         *repository.PostRepository
	comments      *repository.CommentRepository
	reactions     *repository.ReactionRepository
	users         *repository.UserRepository
	media         cloudinary.Client
	dispatcher    *ActivityDispatcher
	notifications *NotificationService
	log           *logger.Logger
}

func NewPostService(posts *repository.PostRepository, comments *repository.CommentRepository, reactions *repository.ReactionRepository, users *repository.UserRepository, media cloudinary.Client, dispatcher *ActivityDispatcher, notifications *NotificationService, log *logger.Logger) *PostService {
	return &PostService{
		posts:         posts,
		comments:      comments,
		reactions:     reactions,
		users:         users,
		media:         media,
		dispatcher:    dispatcher,
		notifications: notifications,
		log:           log,
	}
}

// Create stores a post, uploading image first when given.
func (s *PostService) Create(ctx context.Context, userID uint, title, content string, image io.Reader) (*models.Post, *ActionOutcome, error) {
	p := &models.Post{UserID: userID, Title: title, Content: content}
	if image != nil {
		up, err := s.media.UploadImage(ctx, image, cloudinary.FolderPosts)
		if err != nil {
			return nil, nil, fmt.Errorf("upload post image: %w", err)
		}
		p.ImageURL = up.URL
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, nil, err
	}
	out := s.dispatcher.Reward(ctx, NewAction(userID, domain.ActionPost, "created post"))
	return p, out, nil
}

func (s *PostService) List(ctx context.Context, limit, offset int) ([]PostView, int64, error) {
	list, total, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	views := make([]PostView, 0, len(list))
	for i := range list {
		v, err := s.view(ctx, &list[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, total, nil
}

// Get returns a post with comments; viewerID 0 means anonymous.
func (s *PostService) Get(ctx context.Context, id, viewerID uint) (*PostDetail, error) {
	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, p)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &PostDetail{PostView: v, Comments: comments}
	if viewerID != 0 {
		r, err := s.reactions.Get(ctx, viewerID, repository.PostTarget(id))
		if err != nil {
			return nil, err
		}
		if r != nil {
			d.MyLike = &r.IsLike
		}
	}
	return d, nil
}

// Comment adds a comment and notifies the post author unless they wrote it.
func (s *PostService) Comment(ctx context.Context, userID, postID uint, content string) (*models.Comment, *ActionOutcome, error) {
	p, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	c := &models.Comment{UserID: userID, PostID: &p.ID, Content: content}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, nil, err
	}
	if p.UserID != userID {
		s.notifyAuthor(ctx, p, userID, domain.NotificationComment, "%s commented on your post")
	}
	out := s.dispatcher.Reward(ctx, NewAction(userID, domain.ActionComment, "added comment"))
	return c, out, nil
}

// React toggles a like or dislike. Repeating the same reaction removes it,
// the opposite one flips it. Only a new reaction notifies the author; every
// call earns the interaction point.
func (s *PostService) React(ctx context.Context, userID, postID uint, isLike bool) (*ReactionState, *ActionOutcome, error) {
	p, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	target := repository.PostTarget(postID)
	state, created, err := toggleReaction(ctx, s.reactions, userID, target, isLike)
	if err != nil {
		return nil, nil, err
	}
	if created && p.UserID != userID {
		format := "%s liked your post"
		if !isLike {
			format = "%s disliked your post"
		}
		s.notifyAuthor(ctx, p, userID, domain.NotificationLike, format)
	}
	kind := domain.ActionLike
	if !isLike {
		kind = domain.ActionDislike
	}
	out := s.dispatcher.Reward(ctx, NewAction(userID, kind, "post interaction"))
	return state, out, nil
}

func (s *PostService) notifyAuthor(ctx context.Context, p *models.Post, actorID uint, kind, format string) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		s.log.Warn("notify author: actor lookup failed", "user_id", actorID, "error", err)
		return
	}
	postID, uid := p.ID, actorID
	err = s.notifications.Notify(ctx, NotifyInput{
		UserID:        p.UserID,
		Kind:          kind,
		Text:          fmt.Sprintf(format, actor.Username),
		RelatedPostID: &postID,
		RelatedUserID: &uid,
	})
	if err != nil {
		s.log.Warn("notify author failed", "post_id", p.ID, "error", err)
	}
}

func (s *PostService) getPost(ctx context.Context, id uint) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func (s *PostService) view(ctx context.Context, p *models.Post) (PostView, error) {
	likes, dislikes, err := s.reactions.Counts(ctx, repository.PostTarget(p.ID))
	if err != nil {
		return PostView{}, err
	}
	return PostView{Post: *p, Author: p.Author.ToCompact(), Likes: likes, Dislikes: dislikes}, nil
}

// toggleReaction applies the like/dislike toggle and reports whether a new reaction row was created.
func toggleReaction(ctx context.Context, reactions *repository.ReactionRepository, userID uint, target repository.ReactionTarget, isLike bool) (*ReactionState, bool, error) {
	existing, err := reactions.Get(ctx, userID, target)
	if err != nil {
		return nil, false, err
	}
	state := &ReactionState{}
	created := false
	switch {
	case existing == nil:
		if err := reactions.Create(ctx, userID, target, isLike); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, false, err
			}
		} else {
			created = true
		}
		state.IsLike = &isLike
	case existing.IsLike == isLike:
		if err := reactions.Delete(ctx, existing.ID); err != nil {
			return nil, false, err
		}
	default:
		if err := reactions.SetIsLike(ctx, existing.ID, isLike); err != nil {
			return nil, false, err
		}
		state.IsLike = &isLike
	}
	state.Likes, state.Dislikes, err = reactions.Counts(ctx, target)
	if err != nil {
		return nil, false, err
	}
	return state, created, nil
}
