package handler

import (
	"errors"
	"net/http"
	"strconv"

	"filmhub/internal/api/dto"
	"filmhub/internal/api/middleware"
	"filmhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	libraryService service.LibraryService
	profileService service.ProfileService
}

func NewLibraryHandler(libraryService service.LibraryService, profileService service.ProfileService) *LibraryHandler {
	return &LibraryHandler{
		libraryService: libraryService,
		profileService: profileService,
	}
}

// RegisterRoutes registers personal library and profile routes
func (h *LibraryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.PUT("/movies/:movie_id/watch-status", h.SetWatchStatus)
	router.POST("/movies/:movie_id/collect", h.ToggleCollection)
	router.POST("/movies/:movie_id/tags", h.Tag)
	router.GET("/users/:user_id/profile", h.Profile)
}

// SetWatchStatus marks a movie wish/watching/watched for the viewer
// PUT /api/movies/:movie_id/watch-status
func (h *LibraryHandler) SetWatchStatus(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	user := middleware.CurrentUser(c)

	var req dto.WatchStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.libraryService.SetWatchStatus(c.Request.Context(), user.ID, movieID, req.Status); err != nil {
		h.writeLibraryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// ToggleCollection flips the viewer's collection membership for a movie
// POST /api/movies/:movie_id/collect
func (h *LibraryHandler) ToggleCollection(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	user := middleware.CurrentUser(c)

	result, err := h.libraryService.ToggleCollection(c.Request.Context(), user.ID, movieID)
	if err != nil {
		h.writeLibraryError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Tag attaches a free-text tag to a movie
// POST /api/movies/:movie_id/tags
func (h *LibraryHandler) Tag(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	user := middleware.CurrentUser(c)

	var req dto.TagDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.libraryService.TagMovie(c.Request.Context(), user.ID, movieID, req.TagName); err != nil {
		if errors.Is(err, service.ErrAlreadyTagged) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeLibraryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag_name": req.TagName})
}

// Profile returns a user's activity summary
// GET /api/users/:user_id/profile
func (h *LibraryHandler) Profile(c *gin.Context) {
	viewer := middleware.CurrentUser(c)

	profile, err := h.profileService.GetProfile(c.Request.Context(), viewer, c.Param("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *LibraryHandler) writeLibraryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrMovieNotApproved),
		errors.Is(err, service.ErrInvalidWatchStatus),
		errors.Is(err, service.ErrEmptyTag):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
