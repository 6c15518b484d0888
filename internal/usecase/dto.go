package usecase

// InboundMessageInput is one normalized event from the messaging channel.
type InboundMessageInput struct {
	Sender string `json:"from"`
	Text   string `json:"text"`
}

// TurnOutput is the result of processing one inbound message. Done is true
// when the conversation reached handoff and the session was cleared.
type TurnOutput struct {
	Reply string `json:"reply"`
	Done  bool   `json:"done"`
}
