package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduverse/eduverse-backend/internal/config"
	"github.com/eduverse/eduverse-backend/internal/middleware"
	"github.com/eduverse/eduverse-backend/internal/response"
	"github.com/eduverse/eduverse-backend/internal/websocket"
)

// WSHandler streams course group chats over WebSocket, fanned out through
// Redis PubSub so every server instance sees every message.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader gorilla.Upgrader
}

// NewWSHandler creates a new WSHandler with origin validation from config.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb: rdb,
		log: log.With().Str("component", "ws_handler").Logger(),
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// CourseChatStream upgrades the connection and joins the course's group chat.
// The route guard has already verified groups:participate.
func (h *WSHandler) CourseChatStream(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	snap := middleware.CurrentUser(c)
	if snap == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	channel := config.CacheKey.CourseChatChannel(courseID)
	sub := h.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	// Gorilla permits a single concurrent writer per connection.
	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return websocket.WriteTyped(conn, v)
	}

	// Fan-in: pump broadcast messages to this connection.
	go func() {
		for msg := range sub.Channel() {
			var chat websocket.ChatMessage
			if err := json.Unmarshal([]byte(msg.Payload), &chat); err != nil {
				continue
			}
			if err := write(chat); err != nil {
				cancel()
				return
			}
		}
	}()

	// Read loop: publish client messages to the channel.
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope websocket.RequestEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			_ = write(websocket.ErrorResponse{Event: websocket.EventError, Message: "malformed message"})
			continue
		}

		switch envelope.Action {
		case websocket.ActionPing:
			_ = write(websocket.PongResponse{Event: websocket.EventPong})

		case websocket.ActionSend:
			var req websocket.SendRequest
			if err := json.Unmarshal(raw, &req); err != nil || req.Body == "" {
				_ = write(websocket.ErrorResponse{Event: websocket.EventError, Message: "message body required"})
				continue
			}
			chat := websocket.ChatMessage{
				Event:    websocket.EventMessage,
				CourseID: courseID,
				SenderID: snap.ID,
				Body:     req.Body,
				SentAt:   time.Now().UTC().Format(time.RFC3339),
			}
			payload, _ := json.Marshal(chat)
			if err := h.rdb.Publish(ctx, channel, payload).Err(); err != nil {
				h.log.Error().Err(err).Int("course_id", courseID).Msg("Chat publish failed")
				_ = write(websocket.ErrorResponse{Event: websocket.EventError, Message: "message could not be delivered"})
			}

		default:
			_ = write(websocket.ErrorResponse{Event: websocket.EventError, Message: "unknown action"})
		}
	}
}
