package tableinfo

const (
	ContentsTableName = "contents"

	ContentIDColumn              = "id"
	ContentTitleColumn           = "title"
	ContentBodyColumn            = "body"
	ContentUserIDColumn          = "user_id"
	ContentCommentsEnabledColumn = "comments_enabled"
	ContentCreatedAtColumn       = "created_at"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn        = "id"
	CommentContentIDColumn = "content_id"
	CommentParentIDColumn  = "parent_id"
	CommentUserIDColumn    = "user_id"
	CommentBodyColumn      = "body"
	CommentScoreColumn     = "score"
	CommentCreatedAtColumn = "created_at"
)

const (
	VotesTableName = "comment_votes"

	VoteCommentIDColumn = "comment_id"
	VoteUserIDColumn    = "user_id"
	VoteDeltaColumn     = "delta"
	VoteCreatedAtColumn = "created_at"
)
