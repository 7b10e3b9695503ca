package response

import (
	"time"

	"venue-offers/internal/usecase/commands"
	"venue-offers/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OfferResponse struct {
	ID             uuid.UUID      `json:"id"`
	PartnerID      uuid.UUID      `json:"partnerId"`
	PartnerName    string         `json:"partnerName"`
	Title          string         `json:"title"`
	Proposition    string         `json:"proposition"`
	Category       string         `json:"category"`
	ValueDetails   map[string]any `json:"valueDetails"`
	Score          float64        `json:"score"`
	DistanceMeters *float64       `json:"distanceMeters,omitempty"`
	ValidUntil     time.Time      `json:"validUntil"`
}

func FromOfferView(view *queries.OfferView) (*OfferResponse, error) {
	var resp OfferResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromOfferViews(views []*queries.OfferView) ([]*OfferResponse, error) {
	out := make([]*OfferResponse, len(views))
	for i, v := range views {
		resp, err := FromOfferView(v)
		if err != nil {
			return nil, err
		}
		out[i] = resp
	}
	return out, nil
}

type OfferDetailResponse struct {
	ID            uuid.UUID      `json:"id"`
	PartnerID     uuid.UUID      `json:"partnerId"`
	PartnerName   string         `json:"partnerName"`
	Title         string         `json:"title"`
	Proposition   string         `json:"proposition"`
	Category      string         `json:"category"`
	TriggerRules  map[string]any `json:"triggerRules"`
	ValueDetails  map[string]any `json:"valueDetails"`
	ValidFrom     time.Time      `json:"validFrom"`
	ValidUntil    time.Time      `json:"validUntil"`
	TotalCapacity *int32         `json:"totalCapacity,omitempty"`
	UsedCapacity  int32          `json:"usedCapacity"`
	Latitude      *float64       `json:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func FromOfferDetailView(view *queries.OfferDetailView) *OfferDetailResponse {
	resp := &OfferDetailResponse{
		ID:            view.ID,
		PartnerID:     view.PartnerID,
		PartnerName:   view.PartnerName,
		Title:         view.Title,
		Proposition:   view.Proposition,
		Category:      view.Category,
		TriggerRules:  view.TriggerRules,
		ValueDetails:  view.ValueDetails,
		ValidFrom:     view.ValidFrom,
		ValidUntil:    view.ValidUntil,
		TotalCapacity: view.TotalCapacity,
		UsedCapacity:  view.UsedCapacity,
		CreatedAt:     view.CreatedAt,
	}
	if view.Location != nil {
		resp.Latitude = &view.Location.Lat
		resp.Longitude = &view.Location.Lng
	}
	return resp
}

type AcceptOfferResponse struct {
	ClaimCode         string    `json:"claimCode"`
	Instructions      string    `json:"instructions"`
	ValidUntil        time.Time `json:"validUntil"`
	ParkingExtendedBy int       `json:"parkingExtendedBy"`
}

func FromAcceptResult(result *commands.AcceptResult) *AcceptOfferResponse {
	return &AcceptOfferResponse{
		ClaimCode:         result.ClaimCode,
		Instructions:      result.Instructions,
		ValidUntil:        result.ValidUntil,
		ParkingExtendedBy: result.ParkingExtendedBy,
	}
}

type InteractionHistoryResponse struct {
	Items []*InteractionHistoryItem `json:"items"`
	Next  *string                   `json:"next,omitempty"`
}

type InteractionHistoryItem struct {
	ID               uuid.UUID `json:"id"`
	OpportunityID    uuid.UUID `json:"opportunityId"`
	OpportunityTitle string    `json:"opportunityTitle"`
	SessionID        uuid.UUID `json:"sessionId"`
	Type             string    `json:"type"`
	OccurredAt       time.Time `json:"occurredAt"`
}

func FromHistoryPage(items []*queries.InteractionListItem, next *queries.Cursor) *InteractionHistoryResponse {
	resp := &InteractionHistoryResponse{
		Items: make([]*InteractionHistoryItem, len(items)),
	}
	for i, item := range items {
		resp.Items[i] = &InteractionHistoryItem{
			ID:               item.ID,
			OpportunityID:    item.OpportunityID,
			OpportunityTitle: item.OpportunityTitle,
			SessionID:        item.SessionID,
			Type:             item.Type,
			OccurredAt:       item.OccurredAt,
		}
	}
	if next != nil {
		resp.Next = &next.After
	}
	return resp
}
