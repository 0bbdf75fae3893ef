package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/event"
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/mail"
	"Blips/internal/pkg/storage"
	"Blips/internal/pkg/util"
	"Blips/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const FeedbackCooldown = 30 * time.Second

type FeedbackService interface {
	Submit(ctx context.Context, userID primitive.ObjectID, req *dto.SubmitFeedbackDTO) (*dto.FeedbackDTO, error)
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]*dto.FeedbackDTO, error)
	ListAll(ctx context.Context, q *dto.FeedbackQuery) (*dto.FeedbackListDTO, error)
	Get(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string) (*dto.FeedbackDTO, error)
	Update(ctx context.Context, id string, req *dto.UpdateFeedbackDTO) (*dto.FeedbackDTO, error)
	Delete(ctx context.Context, id string) error
	SendTestEmail(ctx context.Context, to string) (string, error)
}

type FeedbackServiceImpl struct {
	feedbackRepo repository.FeedbackRepo
	userRepo     repository.UserRepo
	locker       Locker
	mailer       mail.Mailer
	publisher    event.Publisher
	store        storage.Storage
	adminEmail   string
}

func NewFeedbackService(
	feedbackRepo repository.FeedbackRepo,
	userRepo repository.UserRepo,
	locker Locker,
	mailer mail.Mailer,
	publisher event.Publisher,
	store storage.Storage,
	adminEmail string,
) FeedbackService {
	return &FeedbackServiceImpl{
		feedbackRepo: feedbackRepo,
		userRepo:     userRepo,
		locker:       locker,
		mailer:       mailer,
		publisher:    publisher,
		store:        store,
		adminEmail:   adminEmail,
	}
}

// Submit accepts feedback from a signed-in user (userID set) or a guest with an email.
// One submission per submitter per FeedbackCooldown.
func (s *FeedbackServiceImpl) Submit(ctx context.Context, userID primitive.ObjectID, req *dto.SubmitFeedbackDTO) (*dto.FeedbackDTO, error) {
	feedbackType := model.FeedbackType(req.Type)
	if !feedbackType.Valid() {
		return nil, ErrParamInvalid
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	feedback := &model.Feedback{
		Type:     feedbackType,
		Subject:  strings.TrimSpace(req.Subject),
		Message:  strings.TrimSpace(req.Message),
		Status:   model.FeedbackPending,
		Metadata: req.Metadata,
	}
	from := email
	submitter := email
	var user *model.User
	if !userID.IsZero() {
		u, err := s.userRepo.GetByID(ctx, userID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
		user = u
		feedback.User = &userID
		submitter = userID.Hex()
		if user != nil {
			from = user.Username + " <" + user.Email + ">"
		}
	} else {
		if email == "" || !util.IsEmail(email) {
			return nil, ErrFeedbackEmailRequired
		}
		feedback.Email = email
	}
	if feedback.Subject == "" || feedback.Message == "" {
		return nil, ErrParamInvalid
	}

	lockKey, owner := consts.FeedbackSubmitLock+submitter, uuid.NewString()
	ok, err := s.locker.TryLock(ctx, lockKey, owner, FeedbackCooldown)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrFeedbackTooFrequent
	}

	if err = s.feedbackRepo.Create(ctx, feedback); err != nil {
		// nothing was saved, so the cooldown must not apply
		if unlockErr := s.locker.Unlock(ctx, lockKey, owner); unlockErr != nil {
			log.WarnContext(ctx, "release feedback lock failed", "key", lockKey, "err", unlockErr)
		}
		return nil, err
	}

	e := event.New(event.FeedbackSubmitted, "", "")
	if user != nil {
		e.ActorID = user.ID.Hex()
	}
	e.Payload[event.PayloadFeedbackID] = feedback.ID.Hex()
	e.Payload[event.PayloadFeedbackType] = string(feedback.Type)
	e.Payload[event.PayloadSubject] = feedback.Subject
	e.Payload[event.PayloadMessage] = feedback.Message
	e.Payload[event.PayloadFrom] = from
	event.Publish(ctx, s.publisher, e)

	users := map[primitive.ObjectID]*model.User{}
	if user != nil {
		users[user.ID] = user
	}
	return toFeedbackDTO(s.store, feedback, users), nil
}

func (s *FeedbackServiceImpl) ListMine(ctx context.Context, userID primitive.ObjectID) ([]*dto.FeedbackDTO, error) {
	items, err := s.feedbackRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, items)
}

// ListAll admin listing with optional status and type filters
func (s *FeedbackServiceImpl) ListAll(ctx context.Context, q *dto.FeedbackQuery) (*dto.FeedbackListDTO, error) {
	var filter repository.FeedbackFilter
	if q.Status != "" {
		status, ok := model.ParseFeedbackStatus(q.Status)
		if !ok {
			return nil, ErrFeedbackStatus
		}
		filter.Status = status
	}
	if q.Type != "" {
		filter.Type = model.FeedbackType(q.Type)
		if !filter.Type.Valid() {
			return nil, ErrParamInvalid
		}
	}

	page, limit, skip := util.Pagination(q.Page, q.Limit, consts.DefaultPageSize, consts.MaxPageSize)
	items, total, err := s.feedbackRepo.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, err
	}
	list, err := s.toDTOs(ctx, items)
	if err != nil {
		return nil, err
	}
	return &dto.FeedbackListDTO{Feedback: list, Pagination: pageDTO(page, limit, total)}, nil
}

// Get owner or admin
func (s *FeedbackServiceImpl) Get(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string) (*dto.FeedbackDTO, error) {
	feedback, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !feedback.OwnedBy(userID) {
		return nil, ForbiddenError
	}
	list, err := s.toDTOs(ctx, []*model.Feedback{feedback})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// Update admin only. Legacy status names are normalized.
func (s *FeedbackServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateFeedbackDTO) (*dto.FeedbackDTO, error) {
	fid, ok := util.ParseObjectID(id)
	if !ok {
		return nil, ErrInvalidID
	}

	set := bson.M{}
	if req.Status != "" {
		status, ok := model.ParseFeedbackStatus(req.Status)
		if !ok {
			return nil, ErrFeedbackStatus
		}
		set["status"] = status
	}
	if req.AdminResponse != nil {
		set["adminResponse"] = strings.TrimSpace(*req.AdminResponse)
	}
	if len(set) == 0 {
		return nil, ErrParamInvalid
	}

	feedback, err := s.feedbackRepo.Update(ctx, fid, set)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	list, err := s.toDTOs(ctx, []*model.Feedback{feedback})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

func (s *FeedbackServiceImpl) Delete(ctx context.Context, id string) error {
	fid, ok := util.ParseObjectID(id)
	if !ok {
		return ErrInvalidID
	}
	if err := s.feedbackRepo.Delete(ctx, fid); err != nil {
		if repository.IsNotFound(err) {
			return ErrFeedbackNotFound
		}
		return err
	}
	return nil
}

// SendTestEmail mails to, or the admin address when to is empty, and returns the recipient
func (s *FeedbackServiceImpl) SendTestEmail(ctx context.Context, to string) (string, error) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return "", ErrMailDisabled
	}
	to = strings.TrimSpace(to)
	if to == "" {
		to = s.adminEmail
	}
	if to == "" {
		return "", ErrParamInvalid
	}
	body, err := mail.RenderTest(time.Now().UTC().Format(time.RFC1123))
	if err != nil {
		return "", err
	}
	if err = s.mailer.Send(ctx, to, "Blips email test", body); err != nil {
		return "", err
	}
	return to, nil
}

func (s *FeedbackServiceImpl) get(ctx context.Context, id string) (*model.Feedback, error) {
	fid, ok := util.ParseObjectID(id)
	if !ok {
		return nil, ErrInvalidID
	}
	feedback, err := s.feedbackRepo.GetByID(ctx, fid)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return feedback, nil
}

func (s *FeedbackServiceImpl) toDTOs(ctx context.Context, items []*model.Feedback) ([]*dto.FeedbackDTO, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, f := range items {
		if f.User != nil {
			ids = append(ids, *f.User)
		}
	}
	users, err := loadUsers(ctx, s.userRepo, ids)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.FeedbackDTO, 0, len(items))
	for _, f := range items {
		res = append(res, toFeedbackDTO(s.store, f, users))
	}
	return res, nil
}

func toFeedbackDTO(store storage.Storage, f *model.Feedback, users map[primitive.ObjectID]*model.User) *dto.FeedbackDTO {
	d := &dto.FeedbackDTO{
		ID:            f.ID.Hex(),
		Type:          string(f.Type),
		Subject:       f.Subject,
		Message:       f.Message,
		Email:         f.Email,
		Status:        string(f.Status),
		AdminResponse: f.AdminResponse,
		Metadata:      f.Metadata,
		CreatedAt:     formatTime(f.CreatedAt),
		UpdatedAt:     formatTime(f.UpdatedAt),
	}
	if f.User != nil {
		d.User = summaryOf(store, users, *f.User)
	}
	return d
}
