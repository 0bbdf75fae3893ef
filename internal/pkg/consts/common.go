package consts

const (
	MimePrefixImage = "image/"
	MimePrefixVideo = "video/"
)

// gin context keys
const (
	UserIDKey       = "user_id"
	RolesKey        = "roles"
	TokenKey        = "token"
	UploadedFileKey = "uploaded_file"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
	SimilarLimit    = 6
)
