package dto

type RegisterDTO struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"displayName" validate:"omitempty,max=50"`
}

// LoginDTO accepts the email or the username in Login; Email and Username are kept for older clients
type LoginDTO struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

// Identifier first non-empty of Login, Email, Username
func (d *LoginDTO) Identifier() string {
	for _, v := range []string{d.Login, d.Email, d.Username} {
		if v != "" {
			return v
		}
	}
	return ""
}

type SupabaseLoginDTO struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

type AuthDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// UpdateProfileDTO multipart form, profileImage is read separately
type UpdateProfileDTO struct {
	DisplayName *string `form:"displayName" json:"displayName" validate:"omitempty,max=50"`
	Bio         *string `form:"bio" json:"bio" validate:"omitempty,max=500"`
}

// UserSummaryDTO embedded author/creator block
type UserSummaryDTO struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	ProfileImage string `json:"profileImage"`
}

type UserDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	DisplayName    string `json:"displayName"`
	Bio            string `json:"bio"`
	ProfileImage   string `json:"profileImage"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
	ContentCount   int64  `json:"contentCount"`
	IsFollowing    bool   `json:"isFollowing"`
	IsAdmin        bool   `json:"isAdmin"`
	CreatedAt      string `json:"createdAt"`
}

type FollowResultDTO struct {
	Following      bool `json:"following"`
	FollowersCount int  `json:"followersCount"`
}

type UserListDTO struct {
	Users      []*UserSummaryDTO `json:"users"`
	Pagination PageDTO           `json:"pagination"`
}
