package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tutravel/intake-bot/internal/infra/http/middleware"
	"github.com/tutravel/intake-bot/internal/usecase"
)

type WebhookHandler struct {
	Conversation *usecase.ConversationUseCase
	Messenger    usecase.MessengerInterface
	VerifyToken  string
}

func NewWebhookHandler(conversation *usecase.ConversationUseCase, messenger usecase.MessengerInterface, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		Conversation: conversation,
		Messenger:    messenger,
		VerifyToken:  verifyToken,
	}
}

type webhookResponse struct {
	OK bool `json:"ok"`
}

// Handle receives one normalized message event: {"from": "...", "text": "..."}.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.InboundMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	output, err := h.Conversation.ProcessMessage(r.Context(), input)
	if err != nil {
		log.Printf("❌ Webhook: turn failed for %s: %v", input.Sender, err)
		middleware.RecordMessage("error")
		middleware.RecordIntegrationError(failedService(err))
		// The session was left untouched; the user can resend. Still tell
		// them something went wrong if we have a reply for it.
		if output != nil && output.Reply != "" {
			h.reply(input.Sender, output.Reply)
		}
		writeJSON(w, http.StatusOK, webhookResponse{OK: false})
		return
	}

	if output == nil {
		// Missing sender or empty text: nothing to do.
		middleware.RecordMessage("ignored")
		writeJSON(w, http.StatusOK, webhookResponse{OK: false})
		return
	}

	middleware.RecordMessage("ok")
	if output.Done {
		middleware.RecordConversationCompleted()
	}

	h.reply(input.Sender, output.Reply)
	writeJSON(w, http.StatusOK, webhookResponse{OK: true})
}

// HandleVerify answers Meta's webhook subscription handshake.
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

func (h *WebhookHandler) reply(to, text string) {
	if h.Messenger == nil || text == "" {
		return
	}
	if err := h.Messenger.SendText(to, text); err != nil {
		log.Printf("❌ Webhook: reply to %s failed: %v", to, err)
		middleware.RecordIntegrationError("whatsapp")
	}
}

// failedService maps a turn error to the integration metric label.
func failedService(err error) string {
	var techErr *usecase.TechnicalError
	if errors.As(err, &techErr) && techErr.Code == usecase.CodeSessionStoreError {
		return "session_store"
	}
	return "hubspot"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
