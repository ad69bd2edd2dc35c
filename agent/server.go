package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/imkonsowa/foodorder-chatbot/chatbot"
	"github.com/imkonsowa/foodorder-chatbot/models"
)

type Agent struct {
	handler  *Handler
	upgrader websocket.Upgrader
}

func NewAgent(handler *Handler) *Agent {
	return &Agent{
		handler:  handler,
		upgrader: websocket.Upgrader{},
	}
}

func sessionOrNew(session string) string {
	if session = strings.TrimSpace(session); session != "" {
		return session
	}

	return uuid.NewString()
}

func (a *Agent) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"catalog": a.handler.Engine().Store().Stats(),
		})
	})

	r.POST("/chat", a.chat)
	r.GET("/chat/ws", a.chatStream)
	r.GET("/chat/history", a.history)
	r.DELETE("/chat/history", a.clearHistory)

	r.GET("/foods", a.listFoods)
	r.GET("/foods/:id", a.getFood)
	r.GET("/categories", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, a.handler.Engine().Store().Categories())
	})
	r.GET("/locations", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, a.handler.Engine().Store().Locations())
	})

	r.POST("/catalog/reload", func(ctx *gin.Context) {
		stats, err := a.handler.Reload(ctx)
		if err != nil {
			slog.Error("catalog reload failed", "err", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"message": "catalog reloaded", "catalog": stats})
	})

	return r
}

func (a *Agent) chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := sessionOrNew(req.Session)
	reply := a.handler.Chat(ctx, session, req.Message)

	ctx.JSON(http.StatusOK, ChatResponse{Session: session, Intent: reply.Intent, Reply: reply.Text})
}

// chatStream answers every text frame on the socket with a "chat" message.
func (a *Agent) chatStream(ctx *gin.Context) {
	session := sessionOrNew(ctx.Query("session"))

	c, err := a.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer c.Close()

	if err := c.WriteJSON(WebSocketsMessage{Type: "session", Data: session}); err != nil {
		slog.Error("failed to write to ws connection", "error", err)
		return
	}

	for {
		kind, payload, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read failed", "session", session, "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		message := string(payload)
		if strings.TrimSpace(message) == "" {
			continue
		}

		reply := a.handler.Chat(ctx.Request.Context(), session, message)
		if err := c.WriteJSON(WebSocketsMessage{
			Type: "chat",
			Data: ChatResponse{Session: session, Intent: reply.Intent, Reply: reply.Text},
		}); err != nil {
			slog.Error("failed to write to ws connection", "error", err)
			return
		}
	}
}

func (a *Agent) history(ctx *gin.Context) {
	session, ok := ctx.GetQuery("session")
	if !ok || session == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}

	messages, err := a.handler.History(ctx, session)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, HistoryResponse{Session: session, Messages: messages})
}

func (a *Agent) clearHistory(ctx *gin.Context) {
	session, ok := ctx.GetQuery("session")
	if !ok || session == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}

	if err := a.handler.ClearHistory(ctx, session); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}

func (a *Agent) listFoods(ctx *gin.Context) {
	foods := a.handler.Engine().Store().Foods()

	if raw := ctx.Query("category"); raw != "" {
		categoryID, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		foods = filterFoods(foods, chatbot.ByCategory(categoryID))
	}
	if ctx.Query("available") == "true" {
		foods = filterFoods(foods, chatbot.IsAvailable)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"count": len(foods),
		"foods": foods,
	})
}

func (a *Agent) getFood(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	store := a.handler.Engine().Store()
	food, ok := store.Food(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"food":     food,
		"category": store.CategoryName(food.CategoryID),
		"location": store.LocationName(food.LocationID),
	})
}

func filterFoods(foods []models.Food, keep chatbot.Predicate) []models.Food {
	result := make([]models.Food, 0, len(foods))
	for _, f := range foods {
		if keep(f) {
			result = append(result, f)
		}
	}

	return result
}
