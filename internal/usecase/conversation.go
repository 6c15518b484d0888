package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tutravel/intake-bot/internal/entity"
	"github.com/tutravel/intake-bot/internal/infra/integration/hubspot"
	"github.com/tutravel/intake-bot/internal/infra/queue"
)

// ProcessMessage runs one turn of the intake conversation.
//
// Every turn validates exactly one answer, issues at most one CRM side
// effect and advances the session exactly one state. The session is only
// saved after the side effect succeeded, so a failed turn leaves the stored
// state untouched and the user's next message retries the same step.
//
// A nil TurnOutput with nil error means the event was ignored (no sender or
// empty text). On a CRM failure the returned TurnOutput still carries the
// localized "something went wrong" reply alongside the error.
func (uc *ConversationUseCase) ProcessMessage(ctx context.Context, input InboundMessageInput) (*TurnOutput, error) {
	sender := strings.TrimSpace(input.Sender)
	text := strings.TrimSpace(input.Text)
	if sender == "" || text == "" {
		return nil, nil
	}

	session, err := uc.Store.GetOrCreate(ctx, sender)
	if err != nil {
		return nil, &TechnicalError{Code: CodeSessionStoreError, Message: err.Error()}
	}

	msgs := messagesFor(session.Language)

	switch session.State {

	case entity.StateLanguage:
		session.Language = detectLanguage(text)
		session.State = entity.StateName
		msgs = messagesFor(session.Language)
		return uc.advance(ctx, session, msgs.askName)

	case entity.StateName:
		if !isValidFullName(text) {
			return &TurnOutput{Reply: msgs.repromptName}, nil
		}
		session.FullName = text
		session.State = entity.StateEmail
		return uc.advance(ctx, session, msgs.askEmail)

	case entity.StateEmail:
		if !isValidEmail(text) {
			return &TurnOutput{Reply: msgs.repromptEmail}, nil
		}
		email := strings.ToLower(text)

		contactID, err := uc.CRM.UpsertContact(hubspot.UpsertContactInput{
			Phone:    session.Sender,
			Name:     session.FullName,
			Email:    email,
			Language: string(session.Language),
		})
		if err != nil {
			return uc.crmFailure(msgs, err)
		}

		session.Email = email
		session.ContactID = contactID
		session.State = entity.StateService
		return uc.advance(ctx, session, msgs.menu)

	case entity.StateService:
		service, ok := serviceForChoice(text)
		if !ok {
			return &TurnOutput{Reply: msgs.repromptMenu}, nil
		}
		session.ServiceType = service
		session.State = entity.StateCity
		return uc.advance(ctx, session, msgs.askCity)

	case entity.StateCity:
		session.City = text
		session.State = entity.StateDates
		return uc.advance(ctx, session, msgs.askDates)

	case entity.StateDates:
		session.StartDate, session.EndDate = splitDateRange(text, msgs.dateSeparator)
		session.State = entity.StatePax
		return uc.advance(ctx, session, msgs.askPax)

	case entity.StatePax:
		if uc.StrictPartySize && !isNumeric(text) {
			return &TurnOutput{Reply: msgs.repromptPax}, nil
		}
		session.PartySize = text
		return uc.completeIntake(ctx, session, msgs)

	default:
		// Unknown state value. Should not happen; answer neutrally and
		// leave the session alone.
		log.Printf("⚠️ Conversation: session %s in unknown state %q", session.Sender, session.State)
		return &TurnOutput{Reply: msgs.didNotUnderstand}, nil
	}
}

// completeIntake runs the terminal writes: re-upsert the contact with every
// known field, create (or patch) the deal, then clear the session and kick
// off the post-handoff notifications.
func (uc *ConversationUseCase) completeIntake(ctx context.Context, session *entity.Session, msgs messageSet) (*TurnOutput, error) {
	contactID, err := uc.CRM.UpsertContact(hubspot.UpsertContactInput{
		Phone:    session.Sender,
		Name:     session.FullName,
		Email:    session.Email,
		Language: string(session.Language),
	})
	if err != nil {
		return uc.crmFailure(msgs, err)
	}
	session.ContactID = contactID

	dealID, err := uc.CRM.CreateOrUpdateDeal(hubspot.DealInput{
		ContactID:   session.ContactID,
		ServiceType: session.ServiceType,
		City:        session.City,
		StartDate:   session.StartDate,
		EndDate:     session.EndDate,
		Pax:         session.PartySize,
		Language:    string(session.Language),
		OwnerEmail:  uc.DefaultOwnerEmail,
		DealID:      session.DealID,
	})
	if err != nil {
		return uc.crmFailure(msgs, err)
	}
	session.DealID = dealID
	session.State = entity.StateDone

	// Deal exists in HubSpot; record it before clearing so a failed Remove
	// retries as a PATCH on the same deal, never a second create.
	session.UpdatedAt = time.Now()
	if err := uc.Store.Save(ctx, session); err != nil {
		return &TurnOutput{Reply: msgs.somethingWrong},
			&TechnicalError{Code: CodeSessionStoreError, Message: err.Error()}
	}

	uc.notifyHandoff(session)

	if err := uc.Store.Remove(ctx, session.Sender); err != nil {
		// The deal is written and the handoff is out; a leftover session
		// only means the next message from this sender re-patches it.
		log.Printf("⚠️ Conversation: could not clear session %s: %v", session.Sender, err)
	}

	return &TurnOutput{Reply: msgs.handoff, Done: true}, nil
}

// notifyHandoff persists the lead audit record and publishes the handoff
// event. Both are best-effort and run off the request path, the way the
// welcome notifications do elsewhere: the user already got the handoff
// reply, a lost notification must not fail the turn.
func (uc *ConversationUseCase) notifyHandoff(session *entity.Session) {
	ownerEmail := uc.Routing.ResolveOwner(session.ServiceType, session.City, uc.DefaultOwnerEmail)

	lead := &entity.Lead{
		ID:          uuid.New().String(),
		Email:       session.Email,
		Name:        session.FullName,
		Phone:       session.Sender,
		ServiceType: session.ServiceType,
		City:        session.City,
		StartDate:   session.StartDate,
		EndDate:     session.EndDate,
		PartySize:   session.PartySize,
		Language:    string(session.Language),
		ContactID:   session.ContactID,
		DealID:      session.DealID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if uc.LeadRepo != nil {
			if err := uc.LeadRepo.Upsert(ctx, lead); err != nil {
				log.Printf("⚠️ Conversation: lead upsert failed for %s: %v", lead.Email, err)
			}
		}

		if uc.Producer != nil {
			payload := queue.HandoffPayload{
				Sender:      session.Sender,
				Name:        session.FullName,
				Email:       session.Email,
				ServiceType: session.ServiceType,
				City:        session.City,
				StartDate:   session.StartDate,
				EndDate:     session.EndDate,
				PartySize:   session.PartySize,
				Language:    string(session.Language),
				OwnerEmail:  ownerEmail,
				ContactID:   session.ContactID,
				DealID:      session.DealID,
			}
			if err := uc.Producer.PublishHandoff(ctx, payload); err != nil {
				log.Printf("⚠️ Conversation: handoff publish failed for %s: %v", session.Sender, err)
			}
		}
	}()
}

func (uc *ConversationUseCase) advance(ctx context.Context, session *entity.Session, reply string) (*TurnOutput, error) {
	session.UpdatedAt = time.Now()
	if err := uc.Store.Save(ctx, session); err != nil {
		return &TurnOutput{Reply: messagesFor(session.Language).somethingWrong},
			&TechnicalError{Code: CodeSessionStoreError, Message: err.Error()}
	}
	return &TurnOutput{Reply: reply}, nil
}

// crmFailure aborts the turn without saving the session. The user sees a
// generic failure notice, never the remote error detail.
func (uc *ConversationUseCase) crmFailure(msgs messageSet, err error) (*TurnOutput, error) {
	return &TurnOutput{Reply: msgs.somethingWrong},
		&TechnicalError{Code: CodeCRMError, Message: err.Error()}
}
