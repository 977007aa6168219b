package schemas

import "time"

// SendMessageSchema struct
type SendMessageSchema struct {
	Receiver string `validate:"required,max=64" json:"receiver" form:"receiver"`
	Text     string `validate:"required,max=2000" json:"text" form:"text"`
}

// MessageSchema struct
type MessageSchema struct {
	MessageID  string
	EmitterID  string
	ReceiverID string
	Text       string
	Created    time.Time
	Viewed     bool
	Emitter    *UserSummarySchema `json:",omitempty"`
	Receiver   *UserSummarySchema `json:",omitempty"`
}

// UnviewedSchema struct
type UnviewedSchema struct {
	Unviewed int
}

// ViewedSchema struct
type ViewedSchema struct {
	Updated int
}
