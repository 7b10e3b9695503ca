package readstore

import (
	"time"

	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/infra/repository/converter"
	"venue-offers/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// rowScanner covers pgx.Row and pgx.Rows so one scan function serves point
// lookups and list queries alike.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOpportunity(row rowScanner) (*opportunity.Opportunity, error) {
	var (
		id                    uuid.UUID
		partnerID             uuid.UUID
		title                 string
		proposition           string
		category              string
		triggerRules          []byte
		validFrom             time.Time
		validUntil            time.Time
		totalCapacity         *int32
		usedCapacity          int32
		valueDetails          []byte
		lat, lng              *float64
		maxImpressionsPerUser int32
		cooldownHours         int32
		priority              int32
		active                bool
		approved              bool
		createdAt             time.Time
		updatedAt             time.Time
	)

	err := row.Scan(
		&id, &partnerID, &title, &proposition, &category, &triggerRules,
		&validFrom, &validUntil, &totalCapacity, &usedCapacity, &valueDetails,
		&lat, &lng, &maxImpressionsPerUser, &cooldownHours, &priority,
		&active, &approved, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rules, err := pgconv.JSONToMap(triggerRules)
	if err != nil {
		return nil, err
	}
	details, err := pgconv.JSONToMap(valueDetails)
	if err != nil {
		return nil, err
	}

	return opportunity.Reconstruct(
		id, partnerID, title, proposition, opportunity.Category(category),
		opportunity.TriggerRules(rules), validFrom, validUntil,
		totalCapacity, usedCapacity, opportunity.ValueDetails(details),
		converter.ColumnsToPoint(lat, lng),
		maxImpressionsPerUser, cooldownHours, priority,
		active, approved, createdAt, updatedAt,
	), nil
}

func scanInteraction(row rowScanner) (*interaction.Interaction, error) {
	var (
		id                 uuid.UUID
		userID             uuid.UUID
		opportunityID      uuid.UUID
		sessionID          uuid.UUID
		kind               string
		contextSnapshot    []byte
		claimedValue       []byte
		partnerRevenue     *float64
		platformCommission *float64
		occurredAt         time.Time
		updatedAt          time.Time
	)

	err := row.Scan(
		&id, &userID, &opportunityID, &sessionID, &kind,
		&contextSnapshot, &claimedValue, &partnerRevenue, &platformCommission,
		&occurredAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	snapshot, err := pgconv.JSONToMap(contextSnapshot)
	if err != nil {
		return nil, err
	}
	var claimed map[string]any
	if claimedValue != nil {
		claimed, err = pgconv.JSONToMap(claimedValue)
		if err != nil {
			return nil, err
		}
	}

	return interaction.Reconstruct(
		id, userID, opportunityID, sessionID, interaction.Type(kind),
		snapshot, claimed, partnerRevenue, platformCommission,
		occurredAt, updatedAt,
	), nil
}
