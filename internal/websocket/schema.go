package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSend Action = "send"
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// SendRequest is sent by the client to post a chat message to the course group.
type SendRequest struct {
	Action Action `json:"action"`
	Body   string `json:"body"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventMessage Event = "message"
	EventError   Event = "error"
	EventPong    Event = "pong"
)

// ChatMessage is broadcast to every participant of a course group chat.
type ChatMessage struct {
	Event    Event  `json:"event"`
	CourseID int    `json:"course_id"`
	SenderID int    `json:"sender_id"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
}

// ErrorResponse reports a failed client action.
type ErrorResponse struct {
	Event   Event  `json:"event"`
	Message string `json:"message"`
}

// PongResponse answers a ping.
type PongResponse struct {
	Event Event `json:"event"`
}
