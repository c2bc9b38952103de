package domain

// Activity kinds accepted by the dispatcher.
const (
	ActionComment      = "comment"
	ActionVideoComment = "video_comment"
	ActionPost         = "post"
	ActionLike         = "like"
	ActionDislike      = "dislike"
	ActionChat         = "chat"
	ActionPollCreate   = "poll_create"
	ActionPollVote     = "poll_vote"
	ActionVideoUpload  = "video_upload"
	ActionLogin        = "login"
	ActionGame         = "game"
)

// ActionPoints is the fixed reward per activity kind. Game rewards are
// derived from the score, see GamePoints.
var ActionPoints = map[string]int{
	ActionComment:      3,
	ActionVideoComment: 3,
	ActionPost:         10,
	ActionLike:         1,
	ActionDislike:      1,
	ActionChat:         2,
	ActionPollCreate:   5,
	ActionPollVote:     1,
	ActionVideoUpload:  15,
	ActionLogin:        5,
	ActionGame:         0,
}

// GamePoints converts a game score into points.
func GamePoints(score int) int {
	if score <= 0 {
		return 0
	}
	return score / 10
}

// PointsPerLevel is the width of one level.
const PointsPerLevel = 100

// LevelFor returns the level for a point total: every 100 points is one level, starting at 1.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// Notification kinds.
const (
	NotificationComment     = "comment"
	NotificationLike        = "like"
	NotificationMessage     = "message"
	NotificationAchievement = "achievement"
	NotificationBadge       = "badge"
)

func IsNotificationKind(kind string) bool {
	switch kind {
	case NotificationComment, NotificationLike, NotificationMessage, NotificationAchievement, NotificationBadge:
		return true
	}
	return false
}

// Badge catalog names.
const (
	BadgeFirstComment = "First Comment"
	BadgeHundredLikes = "100 Likes"
	BadgeDailyLogin7  = "Daily Login 7"
	BadgeVideoPioneer = "Video Pioneer"
	BadgePollMaster   = "Poll Master"
)

const (
	GameSnake       = "snake"
	GameQuiz        = "quiz"
	GameGuessNumber = "guess_number"
)

var GameTypes = []string{GameSnake, GameQuiz, GameGuessNumber}

const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
)
