package response

import (
	"time"

	"venue-offers/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type EngagementResponse struct {
	UniqueUsers int64 `json:"uniqueUsers"`
	Impressions int64 `json:"impressions"`
	Views       int64 `json:"views"`
	Claims      int64 `json:"claims"`
	Redemptions int64 `json:"redemptions"`
}

type ValueResponse struct {
	AverageTransaction float64 `json:"averageTransaction"`
	GrossRevenue       float64 `json:"grossRevenue"`
	PlatformFee        float64 `json:"platformFee"`
	NetRevenue         float64 `json:"netRevenue"`
}

type AnalyticsResponse struct {
	From           time.Time          `json:"from"`
	To             time.Time          `json:"to"`
	Engagement     EngagementResponse `json:"engagement"`
	RedemptionRate float64            `json:"redemptionRate"`
	Value          ValueResponse      `json:"value"`
}

func FromAnalyticsView(view *queries.AnalyticsView) (*AnalyticsResponse, error) {
	var resp AnalyticsResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}
