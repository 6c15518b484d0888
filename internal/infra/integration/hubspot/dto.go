package hubspot

// UpsertContactInput carries the contact fields known so far. Empty fields
// are omitted from the request so existing values survive partial updates.
type UpsertContactInput struct {
	Phone    string // Ex: "+573001112233"
	Name     string // full name, split into firstname/lastname on write
	Email    string
	Language string // "ES" or "EN"
}

// DealInput carries the accumulated answers for a deal write. When DealID is
// set only the provided fields are patched onto that deal; otherwise a new
// deal is created and associated to ContactID.
type DealInput struct {
	ContactID   string
	ServiceType string
	City        string
	StartDate   string
	EndDate     string
	Pax         string
	Language    string
	OwnerEmail  string // routing fallback, not necessarily the final owner
	DealID      string
}

// ---- wire types (HubSpot CRM v3) ----

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchResponse struct {
	Results []objectResult `json:"results"`
}

type objectResult struct {
	ID string `json:"id"`
}

type propertiesPayload struct {
	Properties map[string]string `json:"properties"`
}

type ownersResponse struct {
	Results []ownerResult `json:"results"`
}

type ownerResult struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type pipelinesResponse struct {
	Results []pipelineResult `json:"results"`
}

type pipelineResult struct {
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Stages []stageResult `json:"stages"`
}

type stageResult struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
