package remote

import (
	"context"
	"strconv"

	"bookthreads/internal/discussion"
	"bookthreads/internal/thread"

	"github.com/samber/lo"
	"resty.dev/v3"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// List fetches every comment of contentID, following pages until the server
// reports there are no more.
func (c *Client) List(ctx context.Context, p discussion.Principal, contentID int64) ([]thread.Comment, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var (
		out   []thread.Comment
		after *string
	)
	for {
		req := c.r(ctx, p.Token).
			SetPathParam("bookId", formatID(contentID)).
			SetQueryParam("limit", strconv.Itoa(pageSize)).
			SetResult(&commentPage{})
		if after != nil {
			req.SetQueryParam("after", *after)
		}

		res, err := req.Get(commentsPath)
		if err := checkResponse(res, err); err != nil {
			return nil, err
		}

		page := res.Result().(*commentPage)
		out = append(out, lo.Map(page.Items, func(item comment, _ int) thread.Comment {
			return item.toThread()
		})...)

		if !page.HasNextPage || page.EndCursor == nil {
			return out, nil
		}
		after = page.EndCursor
	}
}

func (c *Client) Create(ctx context.Context, p discussion.Principal, contentID int64, parentID *int64, text string) (thread.Comment, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.r(ctx, p.Token).
		SetPathParam("bookId", formatID(contentID)).
		SetBody(createCommentBody{UserID: p.UserID, Content: text, ParentID: parentID}).
		SetResult(&comment{}).
		Post(commentsPath)
	if err := checkResponse(res, err); err != nil {
		return thread.Comment{}, err
	}

	created := res.Result().(*comment)
	if created.ID == 0 {
		return thread.Comment{}, transportError(errMalformedResponse)
	}
	return created.toThread(), nil
}

// Vote returns the comment's score as recorded by the server.
func (c *Client) Vote(ctx context.Context, p discussion.Principal, contentID, commentID, delta int64) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.r(ctx, p.Token).
		SetPathParams(map[string]string{
			"bookId":    formatID(contentID),
			"commentId": formatID(commentID),
		}).
		SetBody(voteBody{UserID: p.UserID, Delta: delta}).
		SetResult(&voteResult{}).
		Post(likePath)
	if err := checkResponse(res, err); err != nil {
		return 0, err
	}

	voted := res.Result().(*voteResult)
	if voted.CommentID != commentID || voted.Recommend == nil {
		return 0, transportError(errMalformedResponse)
	}
	return *voted.Recommend, nil
}

func (c *Client) Delete(ctx context.Context, p discussion.Principal, contentID, commentID int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.r(ctx, p.Token).
		SetPathParams(map[string]string{
			"bookId":    formatID(contentID),
			"commentId": formatID(commentID),
		}).
		SetQueryParam("userId", formatID(p.UserID)).
		Delete(commentPath)
	return checkResponse(res, err)
}

func checkResponse(res *resty.Response, err error) error {
	if err != nil {
		return transportError(err)
	}
	if !res.IsSuccess() {
		return statusError(res)
	}
	return nil
}
