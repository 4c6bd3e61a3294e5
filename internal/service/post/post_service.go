// Package post implements the feed, comments and like toggles.
package post

import (
	"fmt"

	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/dto/respond"
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/constants"
	"kiu_social_server/pkg/errorx"
	"kiu_social_server/pkg/util/random"
)

type service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) *service {
	return &service{repos: repos}
}

func (s *service) CreatePost(userId string, req *request.CreatePostRequest) (*respond.PostRespond, error) {
	author, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return nil, err
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	post := &model.Post{
		Uuid:     fmt.Sprintf("P%s", random.GetNowAndLenRandomString(11)),
		AuthorId: userId,
		Content:  req.Content,
		Images:   req.Images,
		IsPublic: isPublic,
	}
	if err := s.repos.Post.Create(post); err != nil {
		return nil, err
	}
	result := respond.NewPostRespond(post, author, 0, false)
	return &result, nil
}

func (s *service) Feed(userId string, page, limit int) ([]respond.PostRespond, error) {
	if limit <= 0 {
		limit = constants.FEED_PAGE_SIZE
	}
	posts, err := s.repos.Post.FindPublic(page, limit)
	if err != nil {
		return nil, err
	}
	return s.assemble(userId, posts)
}

func (s *service) UserPosts(viewerId, authorId string, page, limit int) ([]respond.PostRespond, error) {
	if limit <= 0 {
		limit = constants.FEED_PAGE_SIZE
	}
	if _, err := s.repos.User.FindByUuid(authorId); err != nil {
		return nil, err
	}
	posts, err := s.repos.Post.FindPublicByAuthor(authorId, page, limit)
	if err != nil {
		return nil, err
	}
	return s.assemble(viewerId, posts)
}

// assemble denormalizes authors, like counts and comment previews onto one
// page of posts. Author lookups are batched across posts and previews.
func (s *service) assemble(viewerId string, posts []model.Post) ([]respond.PostRespond, error) {
	if len(posts) == 0 {
		return []respond.PostRespond{}, nil
	}

	postIds := make([]string, 0, len(posts))
	for i := range posts {
		postIds = append(postIds, posts[i].Uuid)
	}
	likeCounts, err := s.repos.Like.PostLikeCounts(postIds)
	if err != nil {
		return nil, err
	}

	previews := make(map[string][]model.Comment, len(posts))
	authorIds := make(map[string]struct{})
	for i := range posts {
		authorIds[posts[i].AuthorId] = struct{}{}
		comments, err := s.repos.Comment.FindRecentByPost(posts[i].Uuid, constants.FEED_PREVIEW_COMMENTS)
		if err != nil {
			return nil, err
		}
		previews[posts[i].Uuid] = comments
		for j := range comments {
			authorIds[comments[j].AuthorId] = struct{}{}
		}
	}
	authors, err := s.userMap(authorIds)
	if err != nil {
		return nil, err
	}

	results := make([]respond.PostRespond, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		liked, err := s.repos.Like.IsPostLiked(viewerId, p.Uuid)
		if err != nil {
			return nil, err
		}
		item := respond.NewPostRespond(p, authors[p.AuthorId], likeCounts[p.Uuid], liked)
		for j := range previews[p.Uuid] {
			c := &previews[p.Uuid][j]
			likes, err := s.repos.Like.CountCommentLikes(c.Uuid)
			if err != nil {
				return nil, err
			}
			item.Comments = append(item.Comments, respond.NewCommentRespond(c, authors[c.AuthorId], likes))
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *service) userMap(ids map[string]struct{}) (map[string]*model.User, error) {
	uuids := make([]string, 0, len(ids))
	for id := range ids {
		uuids = append(uuids, id)
	}
	users, err := s.repos.User.FindByUuids(uuids)
	if err != nil {
		return nil, err
	}
	byId := make(map[string]*model.User, len(users))
	for i := range users {
		byId[users[i].Uuid] = &users[i]
	}
	return byId, nil
}

func (s *service) TogglePostLike(userId, postId string) (*respond.LikeRespond, error) {
	if _, err := s.repos.Post.FindByUuid(postId); err != nil {
		return nil, err
	}
	liked, count, err := s.repos.Like.TogglePostLike(userId, postId)
	if err != nil {
		return nil, err
	}
	return &respond.LikeRespond{Liked: liked, Count: count}, nil
}

func (s *service) AddComment(userId, postId string, req *request.CreateCommentRequest) (*respond.CommentRespond, error) {
	author, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Post.FindByUuid(postId); err != nil {
		return nil, err
	}
	if req.ParentCommentId != "" {
		parent, err := s.repos.Comment.FindByUuid(req.ParentCommentId)
		if err != nil {
			return nil, err
		}
		if parent.PostId != postId {
			return nil, errorx.New(errorx.CodeInvalidParam, "parent comment belongs to another post")
		}
		// One level of nesting only; replying to a reply attaches to its parent.
		if parent.ParentCommentId != "" {
			req.ParentCommentId = parent.ParentCommentId
		}
	}
	comment := &model.Comment{
		Uuid:            fmt.Sprintf("C%s", random.GetNowAndLenRandomString(11)),
		PostId:          postId,
		AuthorId:        userId,
		Content:         req.Content,
		ParentCommentId: req.ParentCommentId,
	}
	if err := s.repos.Comment.Create(comment); err != nil {
		return nil, err
	}
	result := respond.NewCommentRespond(comment, author, 0)
	return &result, nil
}

func (s *service) GetComments(postId string, page, limit int) ([]respond.CommentRespond, error) {
	if limit <= 0 {
		limit = constants.COMMENT_PAGE_SIZE
	}
	if _, err := s.repos.Post.FindByUuid(postId); err != nil {
		return nil, err
	}
	topLevel, err := s.repos.Comment.FindTopLevelByPost(postId, page, limit)
	if err != nil {
		return nil, err
	}
	if len(topLevel) == 0 {
		return []respond.CommentRespond{}, nil
	}

	parentIds := make([]string, 0, len(topLevel))
	authorIds := make(map[string]struct{})
	for i := range topLevel {
		parentIds = append(parentIds, topLevel[i].Uuid)
		authorIds[topLevel[i].AuthorId] = struct{}{}
	}
	replies, err := s.repos.Comment.FindRepliesByParents(parentIds)
	if err != nil {
		return nil, err
	}
	repliesByParent := make(map[string][]model.Comment)
	for i := range replies {
		authorIds[replies[i].AuthorId] = struct{}{}
		repliesByParent[replies[i].ParentCommentId] = append(repliesByParent[replies[i].ParentCommentId], replies[i])
	}
	authors, err := s.userMap(authorIds)
	if err != nil {
		return nil, err
	}

	results := make([]respond.CommentRespond, 0, len(topLevel))
	for i := range topLevel {
		c := &topLevel[i]
		likes, err := s.repos.Like.CountCommentLikes(c.Uuid)
		if err != nil {
			return nil, err
		}
		item := respond.NewCommentRespond(c, authors[c.AuthorId], likes)
		for j := range repliesByParent[c.Uuid] {
			r := &repliesByParent[c.Uuid][j]
			replyLikes, err := s.repos.Like.CountCommentLikes(r.Uuid)
			if err != nil {
				return nil, err
			}
			item.Replies = append(item.Replies, respond.NewCommentRespond(r, authors[r.AuthorId], replyLikes))
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *service) ToggleCommentLike(userId, commentId string) (*respond.LikeRespond, error) {
	if _, err := s.repos.Comment.FindByUuid(commentId); err != nil {
		return nil, err
	}
	liked, count, err := s.repos.Like.ToggleCommentLike(userId, commentId)
	if err != nil {
		return nil, err
	}
	return &respond.LikeRespond{Liked: liked, Count: count}, nil
}
