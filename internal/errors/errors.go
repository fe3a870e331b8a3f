package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a user lookup fails.
	ErrUserNotFound = errors.New("user not found")
	// ErrGroupNotFound is returned when a group is absent or the caller is not
	// a member. The two cases are deliberately indistinguishable so that
	// non-members cannot probe for a group's existence.
	ErrGroupNotFound = errors.New("group not found")
	// ErrNotGroupAdmin is returned when a non-admin member attempts an
	// admin-only group mutation.
	ErrNotGroupAdmin = errors.New("only the group admin can do that")
	// ErrAlreadyMember is returned when adding a user who is already a member.
	ErrAlreadyMember = errors.New("member already in group")
	// ErrMemberNotInGroup is returned when removing a user who is not a member.
	ErrMemberNotInGroup = errors.New("member not found in this group")
	// ErrInvalidCredentials is returned on login failure. The message is the
	// same whether the email is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidOTP is returned when a one-time code is missing, expired or
	// does not match.
	ErrInvalidOTP = errors.New("invalid or expired OTP")
	// ErrInvalidAmount is returned when an expense amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNoFile is returned when a multipart upload carries no file.
	ErrNoFile = errors.New("no image file provided")
	// ErrUploadFailed is returned when the image store rejects an upload.
	ErrUploadFailed = errors.New("image upload failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrGroupNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "GROUP_NOT_FOUND")
	case errors.Is(err, ErrNotGroupAdmin):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_GROUP_ADMIN")
	case errors.Is(err, ErrAlreadyMember):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_MEMBER")
	case errors.Is(err, ErrMemberNotInGroup):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MEMBER_NOT_IN_GROUP")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidOTP):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_OTP")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrNoFile):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_FILE")
	case errors.Is(err, ErrUploadFailed):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPLOAD_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
