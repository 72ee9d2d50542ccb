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

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RegisterRoutes registers rating submission routes
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	movies := router.Group("/movies/:movie_id")
	{
		movies.POST("/rating/star", h.SubmitStar)
		movies.POST("/rating/dimensions", h.SubmitDimensions)
		movies.GET("/rating/mine", h.MyRating)
	}
}

// SubmitStar upserts the viewer's composite with a single star value
// POST /api/movies/:movie_id/rating/star
func (h *RatingHandler) SubmitStar(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	user := middleware.CurrentUser(c)

	var req dto.StarRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratingService.SubmitStarRating(c.Request.Context(), user.ID, movieID, *req.Score)
	if err != nil {
		h.writeRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// SubmitDimensions upserts the viewer's per-dimension scores and recomputes
// the composite from them
// POST /api/movies/:movie_id/rating/dimensions
func (h *RatingHandler) SubmitDimensions(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	user := middleware.CurrentUser(c)

	var req dto.MultiRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratingService.SubmitMultiRating(c.Request.Context(), user.ID, movieID, req)
	if err != nil {
		h.writeRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// MyRating returns the viewer's stored rating for the movie
// GET /api/movies/:movie_id/rating/mine
func (h *RatingHandler) MyRating(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	user := middleware.CurrentUser(c)

	rating, err := h.ratingService.GetUserRating(c.Request.Context(), user.ID, movieID)
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) writeRatingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMovieNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidScore), errors.Is(err, service.ErrMovieNotApproved):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
