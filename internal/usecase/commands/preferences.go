package commands

import (
	"context"
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/infra"
	"venue-offers/internal/pkg/clock"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
)

type QuietWindowParams struct {
	Start string // "HH:MM"
	End   string
}

type UpdatePreferencesParams struct {
	Enabled             bool
	Tier                string
	MaxPerSession       int32
	QuietHours          []QuietWindowParams
	ExcludedDays        []int
	PreferredCategories []string
	BlockedCategories   []string
	BlockedPartners     []uuid.UUID
	MaxWalkingDistanceM float64
}

type PreferenceCommands interface {
	// Replace overwrites the caller's preference record wholesale; the
	// learned affinity map survives replacement.
	Replace(ctx context.Context, userID uuid.UUID, params UpdatePreferencesParams) (*preferences.Preferences, error)
}

type preferenceCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPreferenceCommands(uow shared.UnitOfWork, clk clock.Clock) PreferenceCommands {
	return &preferenceCommandsImpl{uow: uow, clock: clk}
}

func (p *preferenceCommandsImpl) Replace(ctx context.Context, userID uuid.UUID, params UpdatePreferencesParams) (*preferences.Preferences, error) {
	now := p.clock.Now()

	tier, err := preferences.ParseFrequencyTier(params.Tier)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValueRuleViolation)
	}

	quiet, err := parseQuietHours(params.QuietHours)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValueRuleViolation)
	}

	preferred, err := parseCategories(params.PreferredCategories)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValueRuleViolation)
	}
	blocked, err := parseCategories(params.BlockedCategories)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValueRuleViolation)
	}

	record := &preferences.Preferences{
		UserID:              userID,
		Enabled:             params.Enabled,
		Tier:                tier,
		MaxPerSession:       params.MaxPerSession,
		QuietHours:          quiet,
		ExcludedDays:        parseDays(params.ExcludedDays),
		PreferredCategories: preferred,
		BlockedCategories:   blocked,
		BlockedPartners:     params.BlockedPartners,
		MaxWalkingDistanceM: params.MaxWalkingDistanceM,
		Affinity:            map[string]float64{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if record.MaxWalkingDistanceM <= 0 {
		record.MaxWalkingDistanceM = preferences.DefaultMaxWalkingDistanceMeters
	}
	if record.MaxPerSession <= 0 {
		record.MaxPerSession = preferences.DefaultMaxPerSession
	}

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Reads().PreferencesByUser(ctx, userID)
		if err == nil {
			record.Affinity = existing.Affinity
			record.CreatedAt = existing.CreatedAt
		} else if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return tx.Preferences().Upsert(ctx, tx.DB(), record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func parseQuietHours(params []QuietWindowParams) ([]preferences.QuietWindow, error) {
	windows := make([]preferences.QuietWindow, 0, len(params))
	for _, w := range params {
		start, err := time.Parse("15:04", w.Start)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse("15:04", w.End)
		if err != nil {
			return nil, err
		}
		windows = append(windows, preferences.QuietWindow{
			StartMinute: start.Hour()*60 + start.Minute(),
			EndMinute:   end.Hour()*60 + end.Minute(),
		})
	}
	return windows, nil
}

func parseCategories(raw []string) ([]opportunity.Category, error) {
	categories := make([]opportunity.Category, 0, len(raw))
	for _, s := range raw {
		c, err := opportunity.ParseCategory(s)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func parseDays(raw []int) []time.Weekday {
	days := make([]time.Weekday, 0, len(raw))
	for _, d := range raw {
		if d >= 0 && d <= 6 {
			days = append(days, time.Weekday(d))
		}
	}
	return days
}
