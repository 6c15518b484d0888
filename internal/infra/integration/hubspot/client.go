package hubspot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tutravel/intake-bot/internal/routing"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client

	routing routing.Config

	pipelineLabel      string
	stageLabel         string
	fallbackPipelineID string
	fallbackStageID    string
}

type Options struct {
	Token   string
	BaseURL string // defaults to the public API
	Routing routing.Config

	PipelineLabel      string
	StageLabel         string
	FallbackPipelineID string
	FallbackStageID    string
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.hubapi.com"
	}
	if opts.PipelineLabel == "" {
		opts.PipelineLabel = "Sales Pipeline"
	}
	if opts.StageLabel == "" {
		opts.StageLabel = "Appointment Scheduled"
	}
	if opts.FallbackPipelineID == "" {
		opts.FallbackPipelineID = "default"
	}
	if opts.FallbackStageID == "" {
		opts.FallbackStageID = "appointmentscheduled"
	}
	return &Client{
		baseURL:            strings.TrimRight(opts.BaseURL, "/"),
		token:              opts.Token,
		http:               &http.Client{Timeout: 10 * time.Second},
		routing:            opts.Routing,
		pipelineLabel:      opts.PipelineLabel,
		stageLabel:         opts.StageLabel,
		fallbackPipelineID: opts.FallbackPipelineID,
		fallbackStageID:    opts.FallbackStageID,
	}
}

// FindOwnerID looks an owner up by email. Not finding one is a valid result,
// returned as an empty id with no error.
func (c *Client) FindOwnerID(email string) (string, error) {
	endpoint := fmt.Sprintf("%s/crm/v3/owners?email=%s&archived=false", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("hubspot owners request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("hubspot owners lookup failed (status %d): %s", resp.StatusCode, string(body))
	}

	var result ownersResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("hubspot owners decode: %w", err)
	}

	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

// FindContact resolves an existing contact id. Email is the higher-trust
// identifier, so it is tried first; phone is the fallback. An empty id with
// nil error means no contact exists yet.
func (c *Client) FindContact(email, phone string) (string, error) {
	if email != "" {
		id, err := c.searchContact("email", email)
		if err != nil {
			return "", err
		}
		if id != "" {
			return id, nil
		}
	}
	if phone != "" {
		return c.searchContact("phone", phone)
	}
	return "", nil
}

func (c *Client) searchContact(property, value string) (string, error) {
	payload := searchRequest{
		FilterGroups: []filterGroup{
			{Filters: []filter{{PropertyName: property, Operator: "EQ", Value: value}}},
		},
	}

	var result searchResponse
	if err := c.doJSON("POST", "/crm/v3/objects/contacts/search", payload, &result); err != nil {
		return "", err
	}

	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

// UpsertContact creates the contact on first sight and patches it afterwards.
// Only the provided fields go into the request, so a partial upsert never
// blanks out what an earlier turn already stored.
func (c *Client) UpsertContact(input UpsertContactInput) (string, error) {
	contactID, err := c.FindContact(input.Email, input.Phone)
	if err != nil {
		return "", err
	}

	props := map[string]string{}
	if input.Email != "" {
		props["email"] = input.Email
	}
	if input.Phone != "" {
		props["phone"] = input.Phone
	}
	if input.Name != "" {
		first, last := splitName(input.Name)
		props["firstname"] = first
		props["lastname"] = last
	}
	if input.Language != "" {
		props["language"] = input.Language
	}

	if contactID != "" {
		path := fmt.Sprintf("/crm/v3/objects/contacts/%s", contactID)
		if err := c.doJSON("PATCH", path, propertiesPayload{Properties: props}, nil); err != nil {
			return "", err
		}
		return contactID, nil
	}

	var created objectResult
	if err := c.doJSON("POST", "/crm/v3/objects/contacts", propertiesPayload{Properties: props}, &created); err != nil {
		return "", err
	}
	log.Printf("✅ HubSpot: contact created #%s", created.ID)
	return created.ID, nil
}

// ResolvePipelineStage matches the deal pipeline and stage by label, both
// case-insensitive. Either id may come back empty when a label does not
// exist; callers substitute known-safe fallbacks instead of failing the
// whole deal write over a labeling mismatch.
func (c *Client) ResolvePipelineStage(pipelineLabel, stageLabel string) (string, string, error) {
	var result pipelinesResponse
	if err := c.doJSON("GET", "/crm/v3/pipelines/deals", nil, &result); err != nil {
		return "", "", err
	}

	for _, p := range result.Results {
		if !strings.EqualFold(p.Label, pipelineLabel) {
			continue
		}
		for _, s := range p.Stages {
			if strings.EqualFold(s.Label, stageLabel) {
				return p.ID, s.ID, nil
			}
		}
		return p.ID, "", nil
	}
	return "", "", nil
}

// CreateOrUpdateDeal is the single write path for deals. With a DealID it
// patches only the provided fields and returns that same id, so one
// conversation can never fan out into duplicate deals. Without one it
// resolves the owner and pipeline, creates the deal and associates it to
// the contact.
func (c *Client) CreateOrUpdateDeal(input DealInput) (string, error) {
	props := map[string]string{}
	if input.ServiceType != "" {
		props["service_type"] = input.ServiceType
	}
	if input.City != "" {
		props["city"] = input.City
	}
	if input.StartDate != "" {
		props["start_date"] = input.StartDate
	}
	if input.EndDate != "" {
		props["end_date"] = input.EndDate
	}
	if input.Pax != "" {
		props["pax"] = input.Pax
	}

	if input.DealID != "" {
		path := fmt.Sprintf("/crm/v3/objects/deals/%s", input.DealID)
		if err := c.doJSON("PATCH", path, propertiesPayload{Properties: props}, nil); err != nil {
			return "", err
		}
		return input.DealID, nil
	}

	ownerEmail := c.routing.ResolveOwner(input.ServiceType, input.City, input.OwnerEmail)
	ownerID, err := c.FindOwnerID(ownerEmail)
	if err != nil {
		return "", err
	}

	pipelineID, stageID, err := c.ResolvePipelineStage(c.pipelineLabel, c.stageLabel)
	if err != nil {
		return "", err
	}
	if pipelineID == "" {
		pipelineID = c.fallbackPipelineID
	}
	if stageID == "" {
		stageID = c.fallbackStageID
	}

	props["dealname"] = dealName(input.ServiceType, input.City)
	props["pipeline"] = pipelineID
	props["dealstage"] = stageID
	if ownerID != "" {
		props["hubspot_owner_id"] = ownerID
	}
	if input.Language != "" {
		props["language"] = input.Language
	}

	var created objectResult
	if err := c.doJSON("POST", "/crm/v3/objects/deals", propertiesPayload{Properties: props}, &created); err != nil {
		return "", err
	}

	if err := c.associateDealContact(created.ID, input.ContactID); err != nil {
		return "", err
	}

	log.Printf("✅ HubSpot: deal created #%s (%s, owner %s)", created.ID, input.ServiceType, ownerEmail)
	return created.ID, nil
}

func (c *Client) associateDealContact(dealID, contactID string) error {
	path := fmt.Sprintf("/crm/v3/objects/deals/%s/associations/contacts/%s/deal_to_contact", dealID, contactID)
	return c.doJSON("PUT", path, nil, nil)
}

func dealName(serviceType, city string) string {
	if city == "" {
		return serviceType
	}
	return fmt.Sprintf("%s – %s", serviceType, city)
}

// splitName turns a full name into HubSpot's firstname/lastname pair. The
// first token is the given name, everything else the family name.
func splitName(name string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (c *Client) doJSON(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("hubspot marshal: %w", err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hubspot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("❌ HubSpot: %s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
		return fmt.Errorf("hubspot %s %s rejected (status %d)", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hubspot decode: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
