package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/trailtony/vidhub/internal/auth"
	app_errors "github.com/trailtony/vidhub/internal/errors"
	"github.com/trailtony/vidhub/internal/jwt"
	"github.com/trailtony/vidhub/internal/logger"
	"github.com/trailtony/vidhub/internal/validation"
	"github.com/trailtony/vidhub/internal/video"
)

const (
	// multipartOverhead покрывает поля формы и base64 превью сверх лимита видео
	multipartOverhead = 10 << 20
	multipartMemory   = 32 << 20

	msgUploadSucceeded   = "Video uploaded successfully."
	msgPrimaryFailed     = "Video upload failed. Please try again later."
	msgPersistenceFailed = "The video could not be saved. Please try again later."
)

// Pinger is a dependency reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents HTTP server
type Server struct {
	authService    *auth.Service
	videoService   *video.Service
	jwtManager     jwt.TokenManager
	maxUploadBytes int64
	healthChecks   map[string]Pinger
}

// NewServer creates a new HTTP server
func NewServer(authService *auth.Service, videoService *video.Service, jwtManager jwt.TokenManager, maxUploadBytes int64) *Server {
	return &Server{
		authService:    authService,
		videoService:   videoService,
		jwtManager:     jwtManager,
		maxUploadBytes: maxUploadBytes,
		healthChecks:   make(map[string]Pinger),
	}
}

// AddHealthCheck registers a dependency reported by /health
func (s *Server) AddHealthCheck(name string, p Pinger) {
	s.healthChecks[name] = p
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

func writeValidationError(w http.ResponseWriter, verrs validation.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:  http.StatusText(http.StatusBadRequest),
		Errors: verrs,
	})
}

// decodeRequest decodes a JSON request body into req
func decodeRequest(r *http.Request, req interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(req)
}

// Health reports the state of the database and the media store
// @Summary		Health check
// @Tags		system
// @Produce	json
// @Success	200	{object}	HealthResponse
// @Failure	503	{object}	HealthResponse
// @Router		/health [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(s.healthChecks))}
	status := http.StatusOK
	for name, p := range s.healthChecks {
		if err := p.Ping(ctx); err != nil {
			slog.Warn("Health check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}

// Auth Handlers

// Register handles user registration
// @Summary		Register a new user
// @Description	Register a new user with username, email and password
// @Tags		accounts
// @Accept		json
// @Produce	json
// @Param		request	body		RegisterRequest	true	"Registration request"
// @Success	201	{object}	RegisterResponse
// @Failure	400	{object}	ValidationErrorResponse
// @Failure	409	{object}	ErrorResponse
// @Failure	500	{object}	ErrorResponse
// @Router		/accounts/register [post]
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := s.authService.Register(r.Context(), &auth.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var verrs validation.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeValidationError(w, verrs)
		case errors.Is(err, app_errors.ErrUserAlreadyExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			logger.FromContext(r.Context()).Error("Registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		UserID:   resp.UserID,
		Username: resp.Username,
		Message:  resp.Message,
	})
}

// Login handles user login
// @Summary		Log in
// @Description	Exchange username and password for an access token
// @Tags		accounts
// @Accept		json
// @Produce	json
// @Param		request	body		LoginRequest	true	"Login request"
// @Success	200	{object}	LoginResponse
// @Failure	400	{object}	ValidationErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/accounts/login [post]
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := s.authService.Login(r.Context(), &auth.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		var verrs validation.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeValidationError(w, verrs)
		case errors.Is(err, app_errors.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, app_errors.ErrUserDeactivated):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			logger.FromContext(r.Context()).Error("Login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt,
		User: &UserInfo{
			UserID:    resp.User.UserID,
			Username:  resp.User.Username,
			Email:     resp.User.Email,
			CreatedAt: resp.User.CreatedAt,
		},
	})
}

// Profile returns the authenticated user's profile
// @Summary		Current user
// @Tags		accounts
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	UserInfo
// @Failure	401	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/accounts/me [get]
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserClaims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	info, err := s.authService.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, app_errors.ErrUserDeactivated):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			logger.FromContext(r.Context()).Error("Failed to get profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, UserInfo{
		UserID:    info.UserID,
		Username:  info.Username,
		Email:     info.Email,
		CreatedAt: info.CreatedAt,
	})
}

// Logout handles user logout. Tokens are stateless; the client drops its copy.
// @Summary		Log out
// @Tags		accounts
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	LogoutResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/accounts/logout [post]
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LogoutResponse{Message: "Logged out successfully."})
}

// Video Handlers

// UploadVideo accepts a multipart upload form and ingests the video
// @Summary		Upload a video
// @Description	Multipart form with title, description, video_file and optional thumbnail_data (data URI)
// @Tags		videos
// @Accept		multipart/form-data
// @Produce	json
// @Security	BearerAuth
// @Param		title			formData	string	true	"Video title"
// @Param		description		formData	string	false	"Video description"
// @Param		thumbnail_data	formData	string	false	"Thumbnail as data:image/...;base64,..."
// @Param		video_file		formData	file	true	"Video file"
// @Success	200	{object}	UploadSuccessResponse
// @Failure	400	{object}	UploadValidationResponse
// @Failure	500	{object}	UploadFailureResponse
// @Failure	502	{object}	UploadFailureResponse
// @Router		/videos/upload [post]
func (s *Server) UploadVideo(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserClaims(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		// Форма не разобрана, поэтому ошибки title здесь не сообщаются
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusBadRequest, UploadValidationResponse{
				Errors: []validation.ValidationError{{Field: "video_file", Reason: validation.ReasonTooLarge}},
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, UploadFailureResponse{Error: "Invalid upload form."})
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := validation.UploadForm{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		ThumbnailData: r.FormValue("thumbnail_data"),
	}

	fileInput, err := readVideoFile(r)
	if err != nil {
		log.Error("Failed to read uploaded file", "error", err)
		writeJSON(w, http.StatusBadRequest, UploadFailureResponse{Error: "Invalid upload form."})
		return
	}
	form.VideoFile = fileInput

	submission, err := validation.ValidateUpload(form)
	if err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, UploadValidationResponse{Errors: verrs})
			return
		}
		writeJSON(w, http.StatusBadRequest, UploadFailureResponse{Error: "Invalid upload form."})
		return
	}

	record, err := s.videoService.Ingest(r.Context(), submission, video.Owner{
		UserID:   claims.UserID,
		Username: claims.Username,
	})
	if err != nil {
		var ingestErr *video.IngestError
		if errors.As(err, &ingestErr) && ingestErr.Kind == video.PrimaryUploadFailed {
			writeJSON(w, http.StatusBadGateway, UploadFailureResponse{Error: msgPrimaryFailed})
			return
		}
		writeJSON(w, http.StatusInternalServerError, UploadFailureResponse{Error: msgPersistenceFailed})
		return
	}

	writeJSON(w, http.StatusOK, UploadSuccessResponse{
		Success: true,
		VideoID: record.VideoID,
		Message: msgUploadSucceeded,
	})
}

// readVideoFile reads the video_file part. A missing part yields nil; a part
// larger than the upload limit is described without reading its bytes.
func readVideoFile(r *http.Request) (*validation.FileInput, error) {
	file, header, err := r.FormFile("video_file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	input := &validation.FileInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	if header.Size > validation.MaxVideoSize {
		return input, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	input.Data = data
	return input, nil
}

// ListVideos returns the newest videos first
// @Summary		List videos
// @Tags		videos
// @Produce	json
// @Param		limit	query		int	false	"Page size"
// @Param		offset	query		int	false	"Offset"
// @Success	200		{object}	VideoListResponse
// @Router		/videos [get]
func (s *Server) ListVideos(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	page, err := s.videoService.ListVideos(r.Context(), limit, offset)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list videos", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	writeJSON(w, http.StatusOK, VideoListResponse{
		Videos:     toVideoList(page.Videos),
		TotalCount: page.TotalCount,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
}

// GetVideo returns a single video
// @Summary		Get video
// @Tags		videos
// @Produce	json
// @Param		id	path		string	true	"Video ID"
// @Success	200	{object}	VideoDetail
// @Failure	404	{object}	ErrorResponse
// @Router		/videos/{id} [get]
func (s *Server) GetVideo(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	v, err := s.videoService.GetVideo(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, app_errors.ErrVideoNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.FromContext(r.Context()).Error("Failed to get video", "video_id", videoID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get video")
		return
	}

	writeJSON(w, http.StatusOK, toVideoDetail(v))
}

// ChannelVideos returns a user's videos, newest first
// @Summary		Channel videos
// @Tags		videos
// @Produce	json
// @Param		username	path		string	true	"Username"
// @Param		limit		query		int		false	"Page size"
// @Param		offset		query		int		false	"Offset"
// @Success	200			{object}	ChannelResponse
// @Failure	404			{object}	ErrorResponse
// @Router		/videos/channel/{username} [get]
func (s *Server) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	limit, offset := pageParams(r)

	user, page, err := s.videoService.ChannelVideos(r.Context(), username, limit, offset)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.FromContext(r.Context()).Error("Failed to list channel videos", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list channel videos")
		return
	}

	writeJSON(w, http.StatusOK, ChannelResponse{
		User: &UserInfo{
			UserID:    user.UserID,
			Username:  user.Username,
			CreatedAt: user.CreatedAt.Unix(),
		},
		VideoListResponse: VideoListResponse{
			Videos:     toVideoList(page.Videos),
			TotalCount: page.TotalCount,
			Limit:      page.Limit,
			Offset:     page.Offset,
		},
	})
}

func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
