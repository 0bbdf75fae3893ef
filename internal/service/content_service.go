package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/event"
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/mongo"
	"Blips/internal/pkg/storage"
	"Blips/internal/pkg/thumbnail"
	"Blips/internal/pkg/util"
	"Blips/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type ContentService interface {
	Upload(ctx context.Context, userID primitive.ObjectID, file *UploadedFile, req *dto.UploadContentDTO) (*dto.ContentDTO, error)
	Discard(ctx context.Context, file *UploadedFile)
	Explore(ctx context.Context, viewerID primitive.ObjectID, q *dto.ExploreQuery) (*dto.ContentListDTO, error)
	ListByType(ctx context.Context, viewerID primitive.ObjectID, t model.ContentType, page, limit int) (*dto.ContentListDTO, error)
	ListByCreator(ctx context.Context, viewerID primitive.ObjectID, username string, page, limit int) (*dto.ContentListDTO, error)
	ListMine(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.ContentListDTO, error)
	ListSaved(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.ContentListDTO, error)
	GetByID(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.ContentDetailDTO, error)
	Update(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string, req *dto.UpdateContentDTO) (*dto.ContentDTO, error)
	Delete(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string) error
	Like(ctx context.Context, userID primitive.ObjectID, id string) (*dto.LikeResultDTO, error)
	Unlike(ctx context.Context, userID primitive.ObjectID, id string) (*dto.LikeResultDTO, error)
	Save(ctx context.Context, userID primitive.ObjectID, id string) (*dto.SaveResultDTO, error)
	Unsave(ctx context.Context, userID primitive.ObjectID, id string) (*dto.SaveResultDTO, error)
	Share(ctx context.Context, id string) (*dto.ShareResultDTO, error)
	Stream(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.MediaLocationDTO, error)
	Download(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.MediaLocationDTO, error)
}

type ContentOptions struct {
	ClientURL  string
	PresignTTL time.Duration
}

type ContentServiceImpl struct {
	contentRepo repository.ContentRepo
	commentRepo repository.CommentRepo
	userRepo    repository.UserRepo
	tx          mongo.Transactor
	store       storage.Storage
	uploads     UploadRegistry
	publisher   event.Publisher
	opts        ContentOptions
}

func NewContentService(
	contentRepo repository.ContentRepo,
	commentRepo repository.CommentRepo,
	userRepo repository.UserRepo,
	tx mongo.Transactor,
	store storage.Storage,
	uploads UploadRegistry,
	publisher event.Publisher,
	opts ContentOptions,
) ContentService {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = time.Hour
	}
	return &ContentServiceImpl{
		contentRepo: contentRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		tx:          tx,
		store:       store,
		uploads:     uploads,
		publisher:   publisher,
		opts:        opts,
	}
}

// Upload persists a Content for an already stored file. Every validation failure removes
// the stored file (and generated thumbnail) before returning.
func (s *ContentServiceImpl) Upload(ctx context.Context, userID primitive.ObjectID, file *UploadedFile, req *dto.UploadContentDTO) (*dto.ContentDTO, error) {
	if file == nil || file.Key == "" {
		return nil, ErrFileRequired
	}
	orphans := []string{file.Key}
	fail := func(err error) (*dto.ContentDTO, error) {
		s.discard(ctx, orphans...)
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fail(ErrTitleRequired)
	}
	contentType := file.ContentType
	if req.ContentType != "" {
		contentType = model.ContentType(strings.ToLower(strings.TrimSpace(req.ContentType)))
	}
	if !contentType.Valid() {
		return fail(ErrContentTypeInvalid)
	}
	if file.MimeType != "" && !strings.HasPrefix(file.MimeType, mimePrefix(contentType)) {
		return fail(ErrFileTypeMismatch)
	}

	content := &model.Content{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		ContentType:  contentType,
		FileURL:      file.Key,
		ThumbnailURL: file.Key,
		Creator:      userID,
		Tags:         util.ParseTags(req.Tags),
		Category:     strings.TrimSpace(req.Category),
		IsPublic:     req.IsPublic == nil || *req.IsPublic,
	}

	if contentType.IsVideo() {
		content.Duration = req.Duration
		card, err := thumbnail.TitleCard(title, strings.ToUpper(string(contentType)))
		if err != nil {
			return fail(fmt.Errorf("render thumbnail: %w", err))
		}
		thumbKey := strings.TrimSuffix(file.Key, path.Ext(file.Key)) + "-thumb.jpg"
		if err = s.store.Put(ctx, thumbKey, bytes.NewReader(card), int64(len(card)), "image/jpeg"); err != nil {
			return fail(fmt.Errorf("store thumbnail: %w", err))
		}
		orphans = append(orphans, thumbKey)
		content.ThumbnailURL = thumbKey
	}

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return fail(err)
	}
	if s.uploads != nil {
		if err := s.uploads.Release(ctx, file.Key); err != nil {
			log.WarnContext(ctx, "release upload failed", "key", file.Key, "err", err)
		}
	}

	e := event.New(event.ContentUploaded, userID.Hex(), userID.Hex())
	e.ContentID = content.ID.Hex()
	e.Payload[event.PayloadTitle] = content.Title
	if content.IsPublic {
		event.Publish(ctx, s.publisher, e)
	}

	users, err := loadUsers(ctx, s.userRepo, []primitive.ObjectID{userID})
	if err != nil {
		return nil, err
	}
	return toContentDTO(s.store, content, users, userID), nil
}

// Discard removes an upload that will not become content
func (s *ContentServiceImpl) Discard(ctx context.Context, file *UploadedFile) {
	if file == nil || file.Key == "" {
		return
	}
	s.discard(ctx, file.Key)
}

func (s *ContentServiceImpl) discard(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	if err := storage.DeleteQuietly(ctx, s.store, keys...); err != nil {
		log.WarnContext(ctx, "orphan upload cleanup failed", "keys", keys, "err", err)
		return
	}
	if s.uploads != nil {
		_ = s.uploads.Release(ctx, keys...)
	}
}

func (s *ContentServiceImpl) Explore(ctx context.Context, viewerID primitive.ObjectID, q *dto.ExploreQuery) (*dto.ContentListDTO, error) {
	page, limit, skip := util.Pagination(q.Page, q.Limit, consts.DefaultPageSize, consts.MaxPageSize)
	empty := &dto.ContentListDTO{Contents: []*dto.ContentDTO{}, Pagination: pageDTO(page, limit, 0)}

	filter := repository.ContentFilter{
		Category: q.Category,
		Tags:     util.ParseTags(q.Tags),
		Search:   q.Search,
	}
	if q.ContentType != "" {
		filter.ContentType = model.ContentType(strings.ToLower(q.ContentType))
		if !filter.ContentType.Valid() {
			return nil, ErrContentTypeInvalid
		}
	}

	if username := strings.TrimSpace(q.Creator); username != "" {
		creator, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			if repository.IsNotFound(err) {
				return empty, nil
			}
			return nil, err
		}
		filter.Creators = []primitive.ObjectID{creator.ID}
	}

	if q.Following {
		if viewerID.IsZero() {
			return empty, nil
		}
		viewer, err := s.userRepo.GetByID(ctx, viewerID)
		if err != nil {
			if repository.IsNotFound(err) {
				return empty, nil
			}
			return nil, err
		}
		filter.Creators = intersectCreators(filter.Creators, viewer.Following)
		if len(filter.Creators) == 0 {
			return empty, nil
		}
	}

	sortMode := q.Sort
	if sortMode == "" {
		sortMode = repository.SortNewest
	}
	return s.list(ctx, viewerID, filter, sortMode, page, limit, skip)
}

func (s *ContentServiceImpl) ListByType(ctx context.Context, viewerID primitive.ObjectID, t model.ContentType, page, limit int) (*dto.ContentListDTO, error) {
	page, limit, skip := util.Pagination(page, limit, consts.DefaultPageSize, consts.MaxPageSize)
	return s.list(ctx, viewerID, repository.ContentFilter{ContentType: t}, repository.SortNewest, page, limit, skip)
}

// ListByCreator public content of username
func (s *ContentServiceImpl) ListByCreator(ctx context.Context, viewerID primitive.ObjectID, username string, page, limit int) (*dto.ContentListDTO, error) {
	creator, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	page, limit, skip := util.Pagination(page, limit, consts.DefaultPageSize, consts.MaxPageSize)
	filter := repository.ContentFilter{Creators: []primitive.ObjectID{creator.ID}}
	return s.list(ctx, viewerID, filter, repository.SortNewest, page, limit, skip)
}

// ListMine includes private content
func (s *ContentServiceImpl) ListMine(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.ContentListDTO, error) {
	page, limit, skip := util.Pagination(page, limit, consts.DefaultPageSize, consts.MaxPageSize)
	filter := repository.ContentFilter{Creators: []primitive.ObjectID{userID}, IncludePrivate: true}
	return s.list(ctx, userID, filter, repository.SortNewest, page, limit, skip)
}

func (s *ContentServiceImpl) ListSaved(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.ContentListDTO, error) {
	page, limit, skip := util.Pagination(page, limit, consts.DefaultPageSize, consts.MaxPageSize)
	return s.list(ctx, userID, repository.ContentFilter{SavedBy: userID}, repository.SortNewest, page, limit, skip)
}

// GetByID counts a view and returns the content with similar items and its comment tree
func (s *ContentServiceImpl) GetByID(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.ContentDetailDTO, error) {
	content, err := s.getVisible(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	if updated, err := s.contentRepo.IncrementStat(ctx, content.ID, repository.StatViews); err == nil {
		content = updated
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	var (
		similar  []*model.Content
		comments []*dto.CommentDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		similar, err = s.contentRepo.FindSimilar(gctx, content, consts.SimilarLimit)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = commentTree(gctx, s.commentRepo, s.userRepo, s.store, content.ID, viewerID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	items, err := s.toContentDTOs(ctx, append([]*model.Content{content}, similar...), viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.ContentDetailDTO{
		Content:        items[0],
		SimilarContent: items[1:],
		Comments:       comments,
	}, nil
}

func (s *ContentServiceImpl) Update(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string, req *dto.UpdateContentDTO) (*dto.ContentDTO, error) {
	content, err := s.getOwned(ctx, userID, isAdmin, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		set["title"] = title
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Tags != nil {
		set["tags"] = util.ParseTags(*req.Tags)
	}
	if req.Category != nil {
		set["category"] = strings.TrimSpace(*req.Category)
	}
	if req.IsPublic != nil {
		set["isPublic"] = *req.IsPublic
	}
	if len(set) > 0 {
		content, err = s.contentRepo.Update(ctx, content.ID, set)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrContentNotFound
			}
			return nil, err
		}
	}

	items, err := s.toContentDTOs(ctx, []*model.Content{content}, userID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// Delete removes the content and its comments in one transaction, then the stored files
// best effort
func (s *ContentServiceImpl) Delete(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string) error {
	content, err := s.getOwned(ctx, userID, isAdmin, id)
	if err != nil {
		return err
	}

	var removed int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.contentRepo.Delete(ctx, content.ID); err != nil {
			return err
		}
		var err error
		removed, err = s.commentRepo.DeleteByContent(ctx, content.ID)
		return err
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrContentNotFound
		}
		return err
	}
	log.InfoContext(ctx, "content deleted", "content_id", content.ID.Hex(), "comments", removed)

	keys := []string{content.FileURL}
	if content.ThumbnailURL != content.FileURL {
		keys = append(keys, content.ThumbnailURL)
	}
	if err = storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, keys...); err != nil {
		log.WarnContext(ctx, "content files not removed", "content_id", content.ID.Hex(), "err", err)
	}
	return nil
}

func (s *ContentServiceImpl) Like(ctx context.Context, userID primitive.ObjectID, id string) (*dto.LikeResultDTO, error) {
	content, err := s.addMember(ctx, userID, id, repository.LikeMembership, ErrAlreadyLiked)
	if err != nil {
		return nil, err
	}
	s.publishMembership(ctx, event.ContentLiked, userID, content)
	return &dto.LikeResultDTO{Likes: content.Stats.Likes, IsLiked: true}, nil
}

func (s *ContentServiceImpl) Unlike(ctx context.Context, userID primitive.ObjectID, id string) (*dto.LikeResultDTO, error) {
	content, err := s.removeMember(ctx, userID, id, repository.LikeMembership, ErrNotLiked)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResultDTO{Likes: content.Stats.Likes, IsLiked: false}, nil
}

func (s *ContentServiceImpl) Save(ctx context.Context, userID primitive.ObjectID, id string) (*dto.SaveResultDTO, error) {
	content, err := s.addMember(ctx, userID, id, repository.SaveMembership, ErrAlreadySaved)
	if err != nil {
		return nil, err
	}
	s.publishMembership(ctx, event.ContentSaved, userID, content)
	return &dto.SaveResultDTO{Saves: content.Stats.Saves, IsSaved: true}, nil
}

func (s *ContentServiceImpl) Unsave(ctx context.Context, userID primitive.ObjectID, id string) (*dto.SaveResultDTO, error) {
	content, err := s.removeMember(ctx, userID, id, repository.SaveMembership, ErrNotSaved)
	if err != nil {
		return nil, err
	}
	return &dto.SaveResultDTO{Saves: content.Stats.Saves, IsSaved: false}, nil
}

func (s *ContentServiceImpl) Share(ctx context.Context, id string) (*dto.ShareResultDTO, error) {
	cid, ok := util.ParseObjectID(id)
	if !ok {
		return nil, ErrInvalidContentID
	}
	content, err := s.contentRepo.IncrementStat(ctx, cid, repository.StatShares)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &dto.ShareResultDTO{
		Shares:   content.Stats.Shares,
		ShareURL: shareURL(s.opts.ClientURL, content.ID.Hex()),
	}, nil
}

func (s *ContentServiceImpl) Stream(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.MediaLocationDTO, error) {
	content, err := s.getVisible(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	return s.locate(ctx, content)
}

// Download counts the download before handing out the file location
func (s *ContentServiceImpl) Download(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.MediaLocationDTO, error) {
	content, err := s.getVisible(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	if _, err = s.contentRepo.IncrementStat(ctx, content.ID, repository.StatDownloads); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return s.locate(ctx, content)
}

func (s *ContentServiceImpl) locate(ctx context.Context, content *model.Content) (*dto.MediaLocationDTO, error) {
	key := storage.NormalizeKey(content.FileURL)
	loc, err := s.store.Locate(ctx, key, s.opts.PresignTTL)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	res := &dto.MediaLocationDTO{
		URL:      loc.URL,
		Path:     loc.Path,
		FileName: downloadName(content.Title, key),
	}
	if loc.URL != "" {
		res.ExpiresIn = int(s.opts.PresignTTL.Seconds())
	}
	return res, nil
}

func (s *ContentServiceImpl) addMember(ctx context.Context, userID primitive.ObjectID, id string, m repository.Membership, guardErr error) (*model.Content, error) {
	cid, ok := util.ParseObjectID(id)
	if !ok {
		return nil, ErrInvalidContentID
	}
	content, err := s.contentRepo.AddMember(ctx, cid, userID, m)
	if err != nil {
		return nil, s.membershipError(ctx, cid, err, guardErr)
	}
	return content, nil
}

func (s *ContentServiceImpl) removeMember(ctx context.Context, userID primitive.ObjectID, id string, m repository.Membership, guardErr error) (*model.Content, error) {
	cid, ok := util.ParseObjectID(id)
	if !ok {
		return nil, ErrInvalidContentID
	}
	content, err := s.contentRepo.RemoveMember(ctx, cid, userID, m)
	if err != nil {
		return nil, s.membershipError(ctx, cid, err, guardErr)
	}
	return content, nil
}

// membershipError splits a zero-match guarded update into not found vs duplicate action
func (s *ContentServiceImpl) membershipError(ctx context.Context, id primitive.ObjectID, err, guardErr error) error {
	if !repository.IsNotFound(err) {
		return err
	}
	exists, err := s.contentRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrContentNotFound
	}
	return guardErr
}

func (s *ContentServiceImpl) publishMembership(ctx context.Context, t event.Type, userID primitive.ObjectID, content *model.Content) {
	e := event.New(t, userID.Hex(), content.Creator.Hex())
	e.ContentID = content.ID.Hex()
	e.Payload[event.PayloadTitle] = content.Title
	event.Publish(ctx, s.publisher, e)
}

func (s *ContentServiceImpl) getVisible(ctx context.Context, viewerID primitive.ObjectID, id string) (*model.Content, error) {
	cid, ok := util.ParseObjectID(id)
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
	return content, nil
}

func (s *ContentServiceImpl) getOwned(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string) (*model.Content, error) {
	cid, ok := util.ParseObjectID(id)
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
	if content.Creator != userID && !isAdmin {
		return nil, ForbiddenError
	}
	return content, nil
}

func (s *ContentServiceImpl) list(
	ctx context.Context,
	viewerID primitive.ObjectID,
	filter repository.ContentFilter,
	sortMode string,
	page, limit int,
	skip int64,
) (*dto.ContentListDTO, error) {
	items, total, err := s.contentRepo.Find(ctx, filter, sortMode, skip, limit)
	if err != nil {
		return nil, err
	}
	contents, err := s.toContentDTOs(ctx, items, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.ContentListDTO{Contents: contents, Pagination: pageDTO(page, limit, total)}, nil
}

func (s *ContentServiceImpl) toContentDTOs(ctx context.Context, items []*model.Content, viewerID primitive.ObjectID) ([]*dto.ContentDTO, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.Creator)
	}
	users, err := loadUsers(ctx, s.userRepo, ids)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ContentDTO, 0, len(items))
	for _, c := range items {
		res = append(res, toContentDTO(s.store, c, users, viewerID))
	}
	return res, nil
}

func toContentDTO(store storage.Storage, c *model.Content, users map[primitive.ObjectID]*model.User, viewerID primitive.ObjectID) *dto.ContentDTO {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	d := &dto.ContentDTO{
		ID:           c.ID.Hex(),
		Title:        c.Title,
		Description:  c.Description,
		ContentType:  string(c.ContentType),
		FileURL:      storage.PublicURL(store, c.FileURL),
		ThumbnailURL: storage.PublicURL(store, c.ThumbnailURL),
		Creator:      summaryOf(store, users, c.Creator),
		Duration:     c.Duration,
		Tags:         tags,
		Category:     c.Category,
		IsPublic:     c.IsPublic,
		IsLiked:      c.LikedByUser(viewerID),
		IsSaved:      c.SavedByUser(viewerID),
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
	_ = copier.Copy(&d.Stats, &c.Stats)
	return d
}

// intersectCreators nil requested means "anyone"
func intersectCreators(requested, following []primitive.ObjectID) []primitive.ObjectID {
	res := make([]primitive.ObjectID, 0, len(following))
	if requested == nil {
		return append(res, following...)
	}
	for _, id := range requested {
		for _, f := range following {
			if id == f {
				res = append(res, id)
				break
			}
		}
	}
	return res
}

func mimePrefix(t model.ContentType) string {
	if t.IsVideo() {
		return consts.MimePrefixVideo
	}
	return consts.MimePrefixImage
}

func shareURL(clientURL, id string) string {
	return strings.TrimRight(clientURL, "/") + "/content/" + url.PathEscape(id)
}

// downloadName title based file name keeping the stored extension
func downloadName(title, key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, strings.TrimSpace(title))
	if name == "" {
		name = "blips"
	}
	return name + path.Ext(key)
}
