package dto

// CreateSessionRequest is the request body for creating a new session.
type CreateSessionRequest struct {
	// Mode selects the session lifecycle: "mission" (default) builds a
	// mission across messages, "command" treats each message as one
	// immediate action.
	Mode string `json:"mode,omitempty"`
}

// MessageRequest is the request body for posting a message to a session.
type MessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// RejectRequest carries the operator's feedback when a mission under review
// is sent back.
type RejectRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}
