package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/security"
	"Blips/internal/pkg/storage"
	"Blips/internal/pkg/supabase"
	"Blips/internal/pkg/util"
	"Blips/internal/repository"
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// SupabaseVerifier resolves a Supabase access token to its user
type SupabaseVerifier interface {
	Enabled() bool
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.AuthDTO, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.AuthDTO, error)
	Logout(ctx context.Context, token string) error
	SupabaseLogin(ctx context.Context, req *dto.SupabaseLoginDTO) (*dto.AuthDTO, error)
}

type AuthServiceImpl struct {
	userRepo  repository.UserRepo
	tokens    *security.TokenManager
	blacklist TokenBlacklist
	supabase  SupabaseVerifier
	store     storage.Storage
}

func NewAuthService(
	userRepo repository.UserRepo,
	tokens *security.TokenManager,
	blacklist TokenBlacklist,
	supabase SupabaseVerifier,
	store storage.Storage,
) AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		supabase:  supabase,
		store:     store,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.AuthDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	emailTaken, usernameTaken, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}
	if usernameTaken {
		return nil, ErrUsernameTaken
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:    username,
		Email:       email,
		Password:    hash,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		if mongoDB.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return s.issue(user)
}

// Login accepts the email or the username
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.AuthDTO, error) {
	login := req.Identifier()
	if login == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByLogin(ctx, login)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == "" || security.CheckPasswordHash(req.Password, user.Password) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Logout blacklists the token signature until the token would expire
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return UnauthorizedError
	}
	sig, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}
	return s.blacklist.Revoke(ctx, sig, claims.RemainingTTL())
}

// SupabaseLogin exchanges a Supabase access token for a local token, linking by confirmed
// email or creating the local user on first sign-in
func (s *AuthServiceImpl) SupabaseLogin(ctx context.Context, req *dto.SupabaseLoginDTO) (*dto.AuthDTO, error) {
	if s.supabase == nil || !s.supabase.Enabled() {
		return nil, ErrSupabaseDisabled
	}
	remote, err := s.supabase.GetUser(ctx, req.AccessToken)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidToken) {
			return nil, UnauthorizedError
		}
		return nil, err
	}

	user, err := s.userRepo.GetBySupabaseID(ctx, remote.ID)
	if err == nil {
		return s.issue(user)
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	// an unconfirmed address never links to or claims a local account
	confirmed := remote.EmailConfirmed()
	if confirmed {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(remote.Email))
		switch {
		case err == nil:
			user, err = s.userRepo.Update(ctx, user.ID, bson.M{"supabaseId": remote.ID})
			if err != nil {
				return nil, err
			}
			return s.issue(user)
		case !repository.IsNotFound(err):
			return nil, err
		}
	}

	username, err := s.freeUsername(ctx, remote)
	if err != nil {
		return nil, err
	}
	user = &model.User{
		Username:     username,
		DisplayName:  remote.DisplayName(),
		ProfileImage: remote.AvatarURL(),
		SupabaseID:   remote.ID,
	}
	if confirmed {
		user.Email = strings.ToLower(remote.Email)
	} else {
		user.Email = remote.ID + "@users.supabase"
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

var usernameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// freeUsername derives a valid unused username from the Supabase profile
func (s *AuthServiceImpl) freeUsername(ctx context.Context, remote *supabase.User) (string, error) {
	base := remote.DisplayName()
	if i := strings.IndexByte(remote.Email, '@'); i > 0 {
		base = remote.Email[:i]
	}
	base = usernameUnsafe.ReplaceAllString(base, "_")
	if len(base) > 24 {
		base = base[:24]
	}
	if len(base) < 3 {
		base = "user_" + base
	}

	candidate := base
	for i := 0; i < 5; i++ {
		exists, err := s.userRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "_" + util.RandomHex(2)
	}
	return base + "_" + util.RandomHex(3), nil
}

func (s *AuthServiceImpl) issue(user *model.User) (*dto.AuthDTO, error) {
	token, err := s.tokens.GenerateToken(user.ID.Hex(), user.Username, Roles(user))
	if err != nil {
		return nil, err
	}
	return &dto.AuthDTO{Token: token, User: toUserDTO(s.store, user, true)}, nil
}

// Roles granted to user in its token
func Roles(user *model.User) []string {
	if user.IsAdmin {
		return []string{consts.RoleUser, consts.RoleAdmin}
	}
	return []string{consts.RoleUser}
}
