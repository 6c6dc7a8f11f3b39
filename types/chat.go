package types

const (
	TypeWebsocketPing       = "ping"
	TypeWebsocketPong       = "pong"
	TypeWebsocketChat       = "chat"
	TypeWebsocketProcessing = "processing"
	TypeWebsocketError      = "error"
)

// Message represents a single message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamHandler receives incremental content from a streaming chat response
type StreamHandler func(response string)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChatPayload struct {
	Messages []Message `json:"messages"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChatResponse struct {
	Message string `json:"message"`
}

type WebSocketProcessingResponse struct {
	Message string `json:"message"`
}

type WebSocketErrorResponse struct {
	Message string `json:"message"`
}
