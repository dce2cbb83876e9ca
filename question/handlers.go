package question

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vib1247-cyber/Codepulse/domain"
)

var (
	ErrBadRequestStr        = "bad-request-format"
	ErrNotFoundStr          = "question-not-found"
	ErrUnknownStr           = "unknown-error"
	ErrInvalidDifficultyStr = "invalid-difficulty"
)

// Repo is the slice of the storage layer the question bank needs.
type Repo interface {
	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	GetQuestionById(ctx context.Context, id string) (domain.Question, error)
	ListQuestions(ctx context.Context, filters domain.RoomFilters, limit, offset int) ([]domain.Question, error)
}

type Handler struct {
	repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func RegisterRoutes(engine *gin.Engine, h *Handler, requireAuth gin.HandlerFunc) {
	questions := engine.Group("/api/questions")
	questions.GET("", h.ListQuestionsHandler)
	questions.GET("/:id", h.GetQuestionHandler)
	questions.POST("", requireAuth, h.CreateQuestionHandler)
}

func (h *Handler) CreateQuestionHandler(ctx *gin.Context) {
	var body struct {
		Title        string   `json:"title" binding:"required"`
		Description  string   `json:"description" binding:"required"`
		Difficulty   string   `json:"difficulty" binding:"required"`
		Topics       []string `json:"topics"`
		SampleInput  string   `json:"sampleInput"`
		SampleOutput string   `json:"sampleOutput"`
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrBadRequestStr})
		return
	}

	if !slices.Contains([]string{"easy", "medium", "hard"}, body.Difficulty) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidDifficultyStr})
		return
	}

	created, err := h.repo.CreateQuestion(ctx.Request.Context(), domain.Question{
		Title:        body.Title,
		Description:  body.Description,
		Difficulty:   body.Difficulty,
		Topics:       body.Topics,
		SampleInput:  body.SampleInput,
		SampleOutput: body.SampleOutput,
		CreatedBy:    ctx.GetString("id"),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create question")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

func (h *Handler) ListQuestionsHandler(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "25"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 25
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	filters := domain.RoomFilters{
		Difficulty: ctx.Query("difficulty"),
		Topic:      ctx.Query("topic"),
	}

	questions, err := h.repo.ListQuestions(ctx.Request.Context(), filters, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list questions")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(questions), "data": questions})
}

func (h *Handler) GetQuestionHandler(ctx *gin.Context) {
	q, err := h.repo.GetQuestionById(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": ErrNotFoundStr})
			return
		}
		log.Error().Err(err).Msg("failed to get question")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": q})
}
