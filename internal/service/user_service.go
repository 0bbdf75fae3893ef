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
	"fmt"
	"io"
	log "log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const AvatarPrefix = "images/avatars/"

// Avatar an uploaded profile image
type Avatar struct {
	Reader   io.Reader
	MimeType string
}

type UserService interface {
	GetProfile(ctx context.Context, viewerID primitive.ObjectID, username string) (*dto.UserDTO, error)
	GetCurrent(ctx context.Context, userID primitive.ObjectID) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *dto.UpdateProfileDTO, avatar *Avatar) (*dto.UserDTO, error)
	Follow(ctx context.Context, userID primitive.ObjectID, targetID string) (*dto.FollowResultDTO, error)
	Unfollow(ctx context.Context, userID primitive.ObjectID, targetID string) (*dto.FollowResultDTO, error)
	Followers(ctx context.Context, username string, page, limit int) (*dto.UserListDTO, error)
	Following(ctx context.Context, username string, page, limit int) (*dto.UserListDTO, error)
}

type UserServiceImpl struct {
	userRepo    repository.UserRepo
	contentRepo repository.ContentRepo
	tx          mongo.Transactor
	store       storage.Storage
	publisher   event.Publisher
}

func NewUserService(
	userRepo repository.UserRepo,
	contentRepo repository.ContentRepo,
	tx mongo.Transactor,
	store storage.Storage,
	publisher event.Publisher,
) UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		contentRepo: contentRepo,
		tx:          tx,
		store:       store,
		publisher:   publisher,
	}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, viewerID primitive.ObjectID, username string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	filter := repository.ContentFilter{Creators: []primitive.ObjectID{user.ID}, IncludePrivate: viewerID == user.ID}
	_, total, err := s.contentRepo.Find(ctx, filter, repository.SortNewest, 0, 1)
	if err != nil {
		return nil, err
	}

	res := toUserDTO(s.store, user, viewerID == user.ID)
	res.ContentCount = total
	res.IsFollowing = !viewerID.IsZero() && containsObjectID(user.Followers, viewerID)
	return res, nil
}

func (s *UserServiceImpl) GetCurrent(ctx context.Context, userID primitive.ObjectID) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserDTO(s.store, user, true), nil
}

// UpdateProfile stores a new avatar when given and removes the previous one best effort
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *dto.UpdateProfileDTO, avatar *Avatar) (*dto.UserDTO, error) {
	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	set := bson.M{}
	if req.DisplayName != nil {
		set["displayName"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		set["bio"] = strings.TrimSpace(*req.Bio)
	}

	var newKey string
	if avatar != nil {
		if !strings.HasPrefix(avatar.MimeType, consts.MimePrefixImage) {
			return nil, ErrFileTypeUnsupported
		}
		img, err := thumbnail.Avatar(avatar.Reader)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFileTypeUnsupported, err)
		}
		newKey = storage.ObjectKey(AvatarPrefix, userID.Hex(), ".jpg")
		if err = s.store.Put(ctx, newKey, bytes.NewReader(img), int64(len(img)), "image/jpeg"); err != nil {
			return nil, err
		}
		set["profileImage"] = newKey
	}
	if len(set) == 0 {
		return toUserDTO(s.store, current, true), nil
	}

	user, err := s.userRepo.Update(ctx, userID, set)
	if err != nil {
		if newKey != "" {
			_ = storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, newKey)
		}
		return nil, err
	}

	if newKey != "" && isStoredKey(current.ProfileImage) {
		if err = storage.DeleteQuietly(context.WithoutCancel(ctx), s.store, current.ProfileImage); err != nil {
			log.WarnContext(ctx, "old avatar not removed", "user_id", userID.Hex(), "err", err)
		}
	}
	return toUserDTO(s.store, user, true), nil
}

// Follow updates both users in one transaction
func (s *UserServiceImpl) Follow(ctx context.Context, userID primitive.ObjectID, targetID string) (*dto.FollowResultDTO, error) {
	target, err := s.followTarget(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		changed, err := s.userRepo.Follow(ctx, userID, target.ID)
		if err != nil {
			return err
		}
		if !changed {
			return ErrAlreadyFollowing
		}
		return nil
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	event.Publish(ctx, s.publisher, event.New(event.UserFollowed, userID.Hex(), target.ID.Hex()))
	return &dto.FollowResultDTO{Following: true, FollowersCount: len(target.Followers) + 1}, nil
}

func (s *UserServiceImpl) Unfollow(ctx context.Context, userID primitive.ObjectID, targetID string) (*dto.FollowResultDTO, error) {
	target, err := s.followTarget(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		changed, err := s.userRepo.Unfollow(ctx, userID, target.ID)
		if err != nil {
			return err
		}
		if !changed {
			return ErrNotFollowing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	count := len(target.Followers) - 1
	if count < 0 {
		count = 0
	}
	return &dto.FollowResultDTO{Following: false, FollowersCount: count}, nil
}

func (s *UserServiceImpl) Followers(ctx context.Context, username string, page, limit int) (*dto.UserListDTO, error) {
	return s.listEdges(ctx, username, page, limit, func(u *model.User) []primitive.ObjectID { return u.Followers })
}

func (s *UserServiceImpl) Following(ctx context.Context, username string, page, limit int) (*dto.UserListDTO, error) {
	return s.listEdges(ctx, username, page, limit, func(u *model.User) []primitive.ObjectID { return u.Following })
}

// listEdges pages through an id array newest edge first
func (s *UserServiceImpl) listEdges(ctx context.Context, username string, page, limit int, edges func(*model.User) []primitive.ObjectID) (*dto.UserListDTO, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	all := edges(user)
	page, limit, skip := util.Pagination(page, limit, consts.DefaultPageSize, consts.MaxPageSize)
	total := int64(len(all))

	ids := make([]primitive.ObjectID, 0, limit)
	for i := total - 1 - skip; i >= 0 && i < total && len(ids) < limit; i-- {
		ids = append(ids, all[i])
	}
	users, err := loadUsers(ctx, s.userRepo, ids)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.UserSummaryDTO, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			list = append(list, toUserSummary(s.store, u))
		}
	}
	return &dto.UserListDTO{Users: list, Pagination: pageDTO(page, limit, total)}, nil
}

func (s *UserServiceImpl) followTarget(ctx context.Context, userID primitive.ObjectID, targetID string) (*model.User, error) {
	tid, ok := util.ParseObjectID(targetID)
	if !ok {
		return nil, ErrInvalidUserID
	}
	if tid == userID {
		return nil, ErrFollowSelf
	}
	target, err := s.userRepo.GetByID(ctx, tid)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return target, nil
}

func toUserDTO(store storage.Storage, u *model.User, self bool) *dto.UserDTO {
	res := &dto.UserDTO{
		ID:             u.ID.Hex(),
		Username:       u.Username,
		DisplayName:    displayName(u),
		Bio:            u.Bio,
		ProfileImage:   storage.PublicURL(store, u.ProfileImage),
		FollowersCount: len(u.Followers),
		FollowingCount: len(u.Following),
		IsAdmin:        u.IsAdmin,
		CreatedAt:      formatTime(u.CreatedAt),
	}
	if self {
		res.Email = u.Email
	}
	return res
}

func containsObjectID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// isStoredKey false for external avatar URLs (e.g. from Supabase providers)
func isStoredKey(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	return lower != "" && !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")
}
