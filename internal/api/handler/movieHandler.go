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

type MovieHandler struct {
	movieService  service.MovieService
	ratingService service.RatingService
}

func NewMovieHandler(movieService service.MovieService, ratingService service.RatingService) *MovieHandler {
	return &MovieHandler{
		movieService:  movieService,
		ratingService: ratingService,
	}
}

// RegisterRoutes registers movie routes (already authenticated by parent middleware)
func (h *MovieHandler) RegisterRoutes(router *gin.RouterGroup) {
	movies := router.Group("/movies")
	{
		movies.GET("", h.List)
		movies.GET("/search", h.Search)
		movies.POST("", h.Create)
		movies.GET("/:movie_id", h.GetByID)
		movies.GET("/:movie_id/rating", h.AggregateRating)
		movies.GET("/:movie_id/rating/dimensions", h.DimensionAverages)
	}
}

// RegisterAdminRoutes registers moderation routes (admin only)
func (h *MovieHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/movies/:movie_id/approve", h.Approve)
	router.GET("/dashboard", h.Dashboard)
}

// List returns the catalog visible to the viewer
// GET /api/movies?category=DoubanTop250&sort=hot
func (h *MovieHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	movies, err := h.movieService.ListMovies(c.Request.Context(), user,
		c.Query("category"), c.DefaultQuery("sort", "default"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movies})
}

// Search performs a name substring search
// GET /api/movies/search?keyword=...
func (h *MovieHandler) Search(c *gin.Context) {
	user := middleware.CurrentUser(c)

	movies, err := h.movieService.SearchMovies(c.Request.Context(), user, c.Query("keyword"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movies})
}

// Create submits a movie; non-admin submissions start pending
// POST /api/movies
func (h *MovieHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.CreateMovieDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie, err := h.movieService.CreateMovie(c.Request.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMovieName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMovieExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, movie)
}

// GetByID returns a single movie with viewer enrichment
// GET /api/movies/:movie_id
func (h *MovieHandler) GetByID(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	user := middleware.CurrentUser(c)

	movie, err := h.movieService.GetMovie(c.Request.Context(), user, movieID)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, movie)
}

// AggregateRating returns the composite average and rater count
// GET /api/movies/:movie_id/rating
func (h *MovieHandler) AggregateRating(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}

	agg, err := h.ratingService.AggregateRating(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, agg)
}

// DimensionAverages returns the per-dimension means
// GET /api/movies/:movie_id/rating/dimensions
func (h *MovieHandler) DimensionAverages(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}

	avgs, err := h.ratingService.DimensionAverages(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, avgs)
}

// Approve performs the one-way pending -> approved transition
// POST /api/admin/movies/:movie_id/approve
func (h *MovieHandler) Approve(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}

	if err := h.movieService.ApproveMovie(c.Request.Context(), movieID); err != nil {
		switch {
		case errors.Is(err, service.ErrMovieNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyApproved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "movie approved"})
}

// Dashboard returns the moderation overview
// GET /api/admin/dashboard
func (h *MovieHandler) Dashboard(c *gin.Context) {
	stats, err := h.movieService.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
