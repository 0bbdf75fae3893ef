package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	PayloadTooLarge     = 413
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid          = errors.New("Invalid request parameters")
	ErrInvalidID             = errors.New("Invalid ID")
	ErrInvalidContentID      = errors.New("Invalid content ID")
	ErrInvalidCommentID      = errors.New("Invalid comment ID")
	ErrInvalidUserID         = errors.New("Invalid user ID")
	ErrUserNotFound          = errors.New("User not found")
	ErrContentNotFound       = errors.New("Content not found")
	ErrCommentNotFound       = errors.New("Comment not found")
	ErrParentCommentNotFound = errors.New("Parent comment not found")
	ErrFeedbackNotFound      = errors.New("Feedback not found")
	ErrNotificationNotFound  = errors.New("Notification not found")
	ErrInvalidCredentials    = errors.New("Invalid credentials")
	ErrEmailTaken            = errors.New("Email is already registered")
	ErrUsernameTaken         = errors.New("Username is already taken")
	ErrAlreadyLiked          = errors.New("Content already liked")
	ErrNotLiked              = errors.New("Content not liked yet")
	ErrAlreadySaved          = errors.New("Content already saved")
	ErrNotSaved              = errors.New("Content not saved yet")
	ErrCommentAlreadyLiked   = errors.New("Comment already liked")
	ErrCommentNotLiked       = errors.New("Comment not liked yet")
	ErrFollowSelf            = errors.New("You cannot follow yourself")
	ErrAlreadyFollowing      = errors.New("Already following this user")
	ErrNotFollowing          = errors.New("Not following this user")
	ErrFileRequired          = errors.New("No file uploaded")
	ErrFileTooLarge          = errors.New("File too large")
	ErrFileTypeMismatch      = errors.New("File type does not match content type")
	ErrFileTypeUnsupported   = errors.New("Unsupported file type")
	ErrTitleRequired         = errors.New("Title is required")
	ErrContentTypeInvalid    = errors.New("Invalid content type")
	ErrFeedbackEmailRequired = errors.New("Email is required for guest feedback")
	ErrFeedbackStatus        = errors.New("Invalid feedback status")
	ErrFeedbackTooFrequent   = errors.New("Please wait before submitting again")
	ErrMailDisabled          = errors.New("Email is not configured")
	ErrSupabaseDisabled      = errors.New("Supabase sign-in is not configured")
	UnauthorizedError        = errors.New("Not authorized")
	ForbiddenError           = errors.New("Not allowed")
	ServiceUnavailableError  = errors.New("Service temporarily unavailable, please retry")
	UnExpectedError          = errors.New("Internal server error")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:          BadRequest,
	ErrInvalidID:             BadRequest,
	ErrInvalidContentID:      BadRequest,
	ErrInvalidCommentID:      BadRequest,
	ErrInvalidUserID:         BadRequest,
	ErrUserNotFound:          NotFound,
	ErrContentNotFound:       NotFound,
	ErrCommentNotFound:       NotFound,
	ErrParentCommentNotFound: NotFound,
	ErrFeedbackNotFound:      NotFound,
	ErrNotificationNotFound:  NotFound,
	ErrInvalidCredentials:    Unauthorized,
	ErrEmailTaken:            BadRequest,
	ErrUsernameTaken:         BadRequest,
	ErrAlreadyLiked:          BadRequest,
	ErrNotLiked:              BadRequest,
	ErrAlreadySaved:          BadRequest,
	ErrNotSaved:              BadRequest,
	ErrCommentAlreadyLiked:   BadRequest,
	ErrCommentNotLiked:       BadRequest,
	ErrFollowSelf:            BadRequest,
	ErrAlreadyFollowing:      BadRequest,
	ErrNotFollowing:          BadRequest,
	ErrFileRequired:          BadRequest,
	ErrFileTooLarge:          PayloadTooLarge,
	ErrFileTypeMismatch:      BadRequest,
	ErrFileTypeUnsupported:   BadRequest,
	ErrTitleRequired:         BadRequest,
	ErrContentTypeInvalid:    BadRequest,
	ErrFeedbackEmailRequired: BadRequest,
	ErrFeedbackStatus:        BadRequest,
	ErrFeedbackTooFrequent:   BadRequest,
	ErrMailDisabled:          ServiceUnavailable,
	ErrSupabaseDisabled:      ServiceUnavailable,
	UnauthorizedError:        Unauthorized,
	ForbiddenError:           Forbidden,
	ServiceUnavailableError:  ServiceUnavailable,
	UnExpectedError:          InternalServerError,
}
