package usecase

import (
	"context"

	"github.com/tutravel/intake-bot/internal/entity"
	"github.com/tutravel/intake-bot/internal/infra/integration/hubspot"
	"github.com/tutravel/intake-bot/internal/infra/queue"
	"github.com/tutravel/intake-bot/internal/routing"
)

// CRMGateway is the capability set the conversation needs from HubSpot.
type CRMGateway interface {
	UpsertContact(input hubspot.UpsertContactInput) (string, error)
	CreateOrUpdateDeal(input hubspot.DealInput) (string, error)
}

// MessengerInterface sends one reply back over the messaging channel.
type MessengerInterface interface {
	SendText(to, text string) error
}

type QueueProducerInterface interface {
	PublishHandoff(ctx context.Context, payload queue.HandoffPayload) error
}

// ConversationUseCase drives the intake flow one message at a time.
// LeadRepo and Producer are optional; when nil the corresponding side
// effects are skipped.
type ConversationUseCase struct {
	Store entity.SessionStoreInterface
	CRM   CRMGateway

	LeadRepo entity.LeadRepositoryInterface
	Producer QueueProducerInterface

	// Routing mirrors the owner rules the CRM client applies, so handoff
	// notifications name the same owner the deal ends up with.
	Routing routing.Config

	// DefaultOwnerEmail feeds the owner routing as its last-resort hint.
	DefaultOwnerEmail string

	// StrictPartySize rejects non-numeric party sizes with a reprompt
	// instead of storing them verbatim.
	StrictPartySize bool
}

func NewConversationUseCase(
	store entity.SessionStoreInterface,
	crm CRMGateway,
	leadRepo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
	ownerRouting routing.Config,
) *ConversationUseCase {
	return &ConversationUseCase{
		Store:             store,
		CRM:               crm,
		LeadRepo:          leadRepo,
		Producer:          producer,
		Routing:           ownerRouting,
		DefaultOwnerEmail: ownerRouting.DefaultOwner,
	}
}
