package http

import (
	"github.com/trailtony/vidhub/internal/db"
	"github.com/trailtony/vidhub/internal/validation"
)

// Auth Request/Response Models

// RegisterRequest represents a registration request
// @Description	Registration request with user details
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents a registration response
// @Description	Registration response with user ID and message
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// LoginRequest represents a login request
// @Description	Login request with username and password
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
// @Description	Login response with access token and user info
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   int64     `json:"expires_at"`
	User        *UserInfo `json:"user"`
}

// UserInfo represents public user information
type UserInfo struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// LogoutResponse represents a logout response
type LogoutResponse struct {
	Message string `json:"message"`
}

// Video Models

// UploadSuccessResponse is returned when a video was ingested
// @Description	Successful upload
type UploadSuccessResponse struct {
	Success bool   `json:"success"`
	VideoID string `json:"video_id"`
	Message string `json:"message"`
}

// UploadValidationResponse lists per-field validation errors
// @Description	Upload rejected by validation
type UploadValidationResponse struct {
	Success bool                         `json:"success"`
	Errors  []validation.ValidationError `json:"errors"`
}

// UploadFailureResponse carries a generic, non-leaking error message
// @Description	Upload failed after validation
type UploadFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// VideoSummary represents a video in listings
type VideoSummary struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Owner        string `json:"owner"`
	ThumbnailURL string `json:"thumbnail_url"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Dislikes     int64  `json:"dislikes"`
	CreatedAt    int64  `json:"created_at"`
}

// VideoDetail represents a single video page
type VideoDetail struct {
	VideoSummary
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	UpdatedAt   int64  `json:"updated_at"`
}

// VideoListResponse represents a page of videos
type VideoListResponse struct {
	Videos     []*VideoSummary `json:"videos"`
	TotalCount int64           `json:"total_count"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

// ChannelResponse represents a user's channel page
type ChannelResponse struct {
	User *UserInfo `json:"user"`
	VideoListResponse
}

// Common Models

// ErrorResponse represents an error response
// @Description	Error response with error details
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ValidationErrorResponse represents a request rejected by field validation
type ValidationErrorResponse struct {
	Error  string                       `json:"error"`
	Errors []validation.ValidationError `json:"errors"`
}

// HealthResponse represents health check status
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func toVideoSummary(v *db.Video) *VideoSummary {
	return &VideoSummary{
		VideoID:      v.VideoID,
		Title:        v.Title,
		Owner:        v.OwnerUsername,
		ThumbnailURL: v.ThumbnailURL,
		Views:        v.Views,
		Likes:        v.Likes,
		Dislikes:     v.Dislikes,
		CreatedAt:    v.CreatedAt.Unix(),
	}
}

func toVideoDetail(v *db.Video) *VideoDetail {
	return &VideoDetail{
		VideoSummary: *toVideoSummary(v),
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		UpdatedAt:    v.UpdatedAt.Unix(),
	}
}

func toVideoList(videos []*db.Video) []*VideoSummary {
	out := make([]*VideoSummary, 0, len(videos))
	for _, v := range videos {
		out = append(out, toVideoSummary(v))
	}
	return out
}
