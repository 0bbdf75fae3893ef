package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/event"
	"Blips/internal/model"
	"Blips/internal/pkg/mongo"
	"Blips/internal/pkg/storage"
	"Blips/internal/pkg/util"
	"Blips/internal/repository"
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService interface {
	ListByContent(ctx context.Context, viewerID primitive.ObjectID, contentID string) ([]*dto.CommentDTO, error)
	Create(ctx context.Context, userID primitive.ObjectID, contentID string, req *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	Update(ctx context.Context, userID primitive.ObjectID, commentID string, req *dto.UpdateCommentDTO) (*dto.CommentDTO, error)
	Delete(ctx context.Context, userID primitive.ObjectID, isAdmin bool, commentID string) error
	Like(ctx context.Context, userID primitive.ObjectID, commentID string) (*dto.CommentLikeDTO, error)
	Unlike(ctx context.Context, userID primitive.ObjectID, commentID string) (*dto.CommentLikeDTO, error)
}

type CommentServiceImpl struct {
	commentRepo repository.CommentRepo
	contentRepo repository.ContentRepo
	userRepo    repository.UserRepo
	tx          mongo.Transactor
	store       storage.Storage
	publisher   event.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepo,
	contentRepo repository.ContentRepo,
	userRepo repository.UserRepo,
	tx mongo.Transactor,
	store storage.Storage,
	publisher event.Publisher,
) CommentService {
	return &CommentServiceImpl{
		commentRepo: commentRepo,
		contentRepo: contentRepo,
		userRepo:    userRepo,
		tx:          tx,
		store:       store,
		publisher:   publisher,
	}
}

// ListByContent top-level comments newest first, each with its replies oldest first
func (s *CommentServiceImpl) ListByContent(ctx context.Context, viewerID primitive.ObjectID, contentID string) ([]*dto.CommentDTO, error) {
	cid, ok := util.ParseObjectID(contentID)
	if !ok {
		return nil, ErrInvalidContentID
	}
	content, err := s.contentRepo.GetByID(ctx, cid)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if !content.VisibleTo(viewerID) {
		return nil, ErrContentNotFound
	}
	return commentTree(ctx, s.commentRepo, s.userRepo, s.store, cid, viewerID)
}

func (s *CommentServiceImpl) Create(ctx context.Context, userID primitive.ObjectID, contentID string, req *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	cid, ok := util.ParseObjectID(contentID)
	if !ok {
		return nil, ErrInvalidContentID
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrParamInvalid
	}

	content, err := s.contentRepo.GetByID(ctx, cid)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if !content.VisibleTo(userID) {
		return nil, ErrContentNotFound
	}

	comment := &model.Comment{Content: cid, User: userID, Text: text}
	var parent *model.Comment
	if req.ParentComment != "" {
		pid, ok := util.ParseObjectID(req.ParentComment)
		if !ok {
			return nil, ErrInvalidCommentID
		}
		parent, err = s.commentRepo.GetByID(ctx, pid)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrParentCommentNotFound
			}
			return nil, err
		}
		if parent.Content != cid {
			return nil, ErrParamInvalid
		}
		root := parent.RootID()
		comment.ParentComment = &root
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return err
		}
		return s.contentRepo.IncrementComments(ctx, cid, 1)
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	e := event.New(event.CommentCreated, userID.Hex(), content.Creator.Hex())
	e.ContentID = cid.Hex()
	e.CommentID = comment.ID.Hex()
	e.Payload[event.PayloadTitle] = content.Title
	if parent != nil {
		e.Payload[event.PayloadParentAuthor] = parent.User.Hex()
	}
	event.Publish(ctx, s.publisher, e)

	users, err := loadUsers(ctx, s.userRepo, []primitive.ObjectID{userID})
	if err != nil {
		return nil, err
	}
	return toCommentDTO(s.store, comment, users, userID), nil
}

// Update author only
func (s *CommentServiceImpl) Update(ctx context.Context, userID primitive.ObjectID, commentID string, req *dto.UpdateCommentDTO) (*dto.CommentDTO, error) {
	id, ok := util.ParseObjectID(commentID)
	if !ok {
		return nil, ErrInvalidCommentID
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrParamInvalid
	}

	comment, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.User != userID {
		return nil, ForbiddenError
	}

	comment, err = s.commentRepo.UpdateText(ctx, id, text)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	users, err := loadUsers(ctx, s.userRepo, []primitive.ObjectID{comment.User})
	if err != nil {
		return nil, err
	}
	return toCommentDTO(s.store, comment, users, userID), nil
}

// Delete allowed for the author, the content creator and admins. Replies of a top-level
// comment go with it and the content counter is recounted in the same transaction.
func (s *CommentServiceImpl) Delete(ctx context.Context, userID primitive.ObjectID, isAdmin bool, commentID string) error {
	id, ok := util.ParseObjectID(commentID)
	if !ok {
		return ErrInvalidCommentID
	}
	comment, err := s.getComment(ctx, id)
	if err != nil {
		return err
	}

	allowed := isAdmin || comment.User == userID
	if !allowed {
		content, err := s.contentRepo.GetByID(ctx, comment.Content)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}
		allowed = content != nil && content.Creator == userID
	}
	if !allowed {
		return ForbiddenError
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Delete(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrCommentNotFound
			}
			return err
		}
		if !comment.IsReply() {
			if _, err := s.commentRepo.DeleteReplies(ctx, id); err != nil {
				return err
			}
		}
		n, err := s.commentRepo.CountByContent(ctx, comment.Content)
		if err != nil {
			return err
		}
		return s.contentRepo.SetCommentCount(ctx, comment.Content, n)
	})
}

func (s *CommentServiceImpl) Like(ctx context.Context, userID primitive.ObjectID, commentID string) (*dto.CommentLikeDTO, error) {
	id, ok := util.ParseObjectID(commentID)
	if !ok {
		return nil, ErrInvalidCommentID
	}
	comment, err := s.commentRepo.AddLike(ctx, id, userID)
	if err != nil {
		return nil, s.likeError(ctx, id, err, ErrCommentAlreadyLiked)
	}
	return &dto.CommentLikeDTO{Likes: comment.Likes, IsLiked: true}, nil
}

func (s *CommentServiceImpl) Unlike(ctx context.Context, userID primitive.ObjectID, commentID string) (*dto.CommentLikeDTO, error) {
	id, ok := util.ParseObjectID(commentID)
	if !ok {
		return nil, ErrInvalidCommentID
	}
	comment, err := s.commentRepo.RemoveLike(ctx, id, userID)
	if err != nil {
		return nil, s.likeError(ctx, id, err, ErrCommentNotLiked)
	}
	return &dto.CommentLikeDTO{Likes: comment.Likes, IsLiked: false}, nil
}

// likeError tells a missing comment apart from a guard miss
func (s *CommentServiceImpl) likeError(ctx context.Context, id primitive.ObjectID, err, guardErr error) error {
	if !repository.IsNotFound(err) {
		return err
	}
	if _, err = s.getComment(ctx, id); err != nil {
		return err
	}
	return guardErr
}

func (s *CommentServiceImpl) getComment(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func commentTree(
	ctx context.Context,
	commentRepo repository.CommentRepo,
	userRepo repository.UserRepo,
	store storage.Storage,
	contentID primitive.ObjectID,
	viewerID primitive.ObjectID,
) ([]*dto.CommentDTO, error) {
	comments, err := commentRepo.ListByContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.User)
	}
	users, err := loadUsers(ctx, userRepo, ids)
	if err != nil {
		return nil, err
	}
	return buildCommentTree(store, comments, users, viewerID), nil
}

// buildCommentTree expects comments oldest first. Replies whose parent is gone are dropped.
func buildCommentTree(store storage.Storage, comments []*model.Comment, users map[primitive.ObjectID]*model.User, viewerID primitive.ObjectID) []*dto.CommentDTO {
	roots := make([]*dto.CommentDTO, 0)
	byID := make(map[primitive.ObjectID]*dto.CommentDTO)
	for _, c := range comments {
		if c.IsReply() {
			continue
		}
		d := toCommentDTO(store, c, users, viewerID)
		d.Replies = make([]*dto.CommentDTO, 0)
		byID[c.ID] = d
		roots = append(roots, d)
	}
	for _, c := range comments {
		if !c.IsReply() {
			continue
		}
		if parent, ok := byID[*c.ParentComment]; ok {
			parent.Replies = append(parent.Replies, toCommentDTO(store, c, users, viewerID))
		}
	}

	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return roots
}

func toCommentDTO(store storage.Storage, c *model.Comment, users map[primitive.ObjectID]*model.User, viewerID primitive.ObjectID) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:            c.ID.Hex(),
		Content:       c.Content.Hex(),
		User:          summaryOf(store, users, c.User),
		ParentComment: hexPtr(c.ParentComment),
		Text:          c.Text,
		Likes:         c.Likes,
		IsLiked:       c.LikedByUser(viewerID),
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
}
