package ws

// Message is a client → server frame
type Message struct {
	Type    string   `json:"type"`
	Name    string   `json:"name,omitempty"`
	Payload any      `json:"payload,omitempty"`
	Names   []string `json:"names,omitempty"`
}

// Frame is a server → client frame
type Frame struct {
	Type      string `json:"type"`
	ClientID  string `json:"client_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Payload   any    `json:"payload,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
