package interview

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/vib1247-cyber/Codepulse/domain"
)

var (
	ErrRoomNotFoundStr      = "room-not-found"
	ErrRoomFullStr          = "room-full"
	ErrRoomCompletedStr     = "room-completed"
	ErrNotParticipantStr    = "not-a-participant"
	ErrNoQuestionStr        = "no-question-available"
	ErrBadRequestStr        = "bad-request-format"
	ErrUnknownStr           = "unknown-error"
	ErrMissingTokenStr      = "missing-token"
	ErrBadTokenStr          = "bad-token"
	ErrForbiddenOriginStr   = "forbidden-origin"
	ErrServerTimeoutStr     = "server-timeout"
	ErrInvalidDifficultyStr = "invalid-difficulty"
)

type Handler struct {
	matchmaker  *Matchmaker
	coordinator *Coordinator
	questions   QuestionSupplier
	resolver    TokenResolver
	upgrader    websocket.Upgrader
}

func NewHandler(matchmaker *Matchmaker, coordinator *Coordinator, questions QuestionSupplier, resolver TokenResolver, allowedOrigins []string) *Handler {
	return &Handler{
		matchmaker:  matchmaker,
		coordinator: coordinator,
		questions:   questions,
		resolver:    resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

func RegisterRoutes(engine *gin.Engine, h *Handler, requireAuth gin.HandlerFunc) {
	interviews := engine.Group("/api/interviews")
	interviews.Use(requireAuth)

	interviews.POST("", h.CreateInterviewHandler)
	interviews.GET("/match", h.MatchInterviewHandler)
	interviews.POST("/join/:roomId", h.JoinInterviewHandler)
	interviews.GET("/:roomId", h.GetInterviewHandler)
	interviews.POST("/:roomId/complete", h.CompleteInterviewHandler)

	// The realtime handshake authenticates itself via query parameter,
	// before the upgrade, so it does not sit behind requireAuth.
	engine.GET("/ws", h.WebsocketHandler)
}

// respondRoom renders the room with its question populated, matching
// what the front end expects from every interview endpoint.
func (h *Handler) respondRoom(ctx *gin.Context, status int, room domain.Room) {
	question, err := h.questions.GetQuestionById(ctx.Request.Context(), room.QuestionId)
	if err != nil {
		log.Error().Err(err).Str("room_id", room.RoomId).Msg("failed to load room question")
		ctx.JSON(status, gin.H{"success": true, "data": gin.H{"room": room}})
		return
	}
	ctx.JSON(status, gin.H{"success": true, "data": gin.H{"room": room, "question": question}})
}

func (h *Handler) abortWithRoomError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrRoomNotFoundStr})
	case errors.Is(err, domain.ErrRoomFull):
		ctx.JSON(http.StatusConflict, gin.H{"error": ErrRoomFullStr})
	case errors.Is(err, domain.ErrRoomCompleted):
		ctx.JSON(http.StatusConflict, gin.H{"error": ErrRoomCompletedStr})
	case errors.Is(err, domain.ErrNotParticipant):
		ctx.JSON(http.StatusForbidden, gin.H{"error": ErrNotParticipantStr})
	case errors.Is(err, domain.ErrNoQuestionAvailable), errors.Is(err, domain.ErrQuestionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": ErrNoQuestionStr})
	case errors.Is(err, context.DeadlineExceeded):
		ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": ErrServerTimeoutStr})
	case errors.Is(err, context.Canceled):
		ctx.Status(499)
	default:
		log.Error().Err(err).Msg("interview operation failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
	}
}

func (h *Handler) CreateInterviewHandler(ctx *gin.Context) {
	userId := ctx.GetString("id")

	var body struct {
		QuestionId string `json:"questionId"`
	}
	// An empty body means "pick a random question".
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrBadRequestStr})
			return
		}
	}

	room, err := h.matchmaker.CreateRoom(ctx.Request.Context(), userId, body.QuestionId)
	if err != nil {
		h.abortWithRoomError(ctx, err)
		return
	}

	h.respondRoom(ctx, http.StatusCreated, room)
}

func (h *Handler) MatchInterviewHandler(ctx *gin.Context) {
	userId := ctx.GetString("id")
	filters := domain.RoomFilters{
		Difficulty: ctx.Query("difficulty"),
		Topic:      ctx.Query("topic"),
	}

	if filters.Difficulty != "" && !slices.Contains([]string{"easy", "medium", "hard"}, filters.Difficulty) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidDifficultyStr})
		return
	}

	room, err := h.matchmaker.FindOrCreateRoom(ctx.Request.Context(), userId, filters)
	if err != nil {
		h.abortWithRoomError(ctx, err)
		return
	}

	h.respondRoom(ctx, http.StatusOK, room)
}

func (h *Handler) JoinInterviewHandler(ctx *gin.Context) {
	userId := ctx.GetString("id")
	roomId := ctx.Param("roomId")

	room, err := h.matchmaker.JoinRoom(ctx.Request.Context(), roomId, userId)
	if err != nil {
		h.abortWithRoomError(ctx, err)
		return
	}

	h.respondRoom(ctx, http.StatusOK, room)
}

func (h *Handler) GetInterviewHandler(ctx *gin.Context) {
	userId := ctx.GetString("id")
	roomId := ctx.Param("roomId")

	room, err := h.matchmaker.GetRoom(ctx.Request.Context(), roomId, userId)
	if err != nil {
		h.abortWithRoomError(ctx, err)
		return
	}

	h.respondRoom(ctx, http.StatusOK, room)
}

func (h *Handler) CompleteInterviewHandler(ctx *gin.Context) {
	userId := ctx.GetString("id")
	roomId := ctx.Param("roomId")

	room, err := h.matchmaker.CompleteRoom(ctx.Request.Context(), roomId, userId)
	if err != nil {
		h.abortWithRoomError(ctx, err)
		return
	}

	h.respondRoom(ctx, http.StatusOK, room)
}

// WebsocketHandler is the connection gateway. The origin allow-list and
// the bearer credential (query parameter on the handshake) are checked
// before the upgrade; coordinator logic only ever sees authenticated
// connections.
func (h *Handler) WebsocketHandler(ctx *gin.Context) {
	if !h.upgrader.CheckOrigin(ctx.Request) {
		log.Warn().Str("origin", ctx.GetHeader("Origin")).Msg("websocket rejected, origin not allowed")
		ctx.JSON(http.StatusForbidden, gin.H{"error": ErrForbiddenOriginStr})
		return
	}

	token := ctx.Query("token")
	if token == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": ErrMissingTokenStr})
		return
	}

	user, err := h.resolver.ResolveToken(ctx.Request.Context(), token)
	if err != nil {
		log.Warn().Err(err).Msg("websocket rejected, bad credential")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": ErrBadTokenStr})
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote its own response.
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := NewSession(user, NewWebsocketConnection(conn), h.coordinator)
	h.coordinator.Attach(session)

	go session.ReadPump()
	go session.WritePump()
}
