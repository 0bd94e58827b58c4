package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/google/uuid"
)

type exchangeService struct {
	BaseService
	exchangeRepo portsrepo.ExchangeRepositoryFacade
	bidderRepo   portsrepo.BidderReader
	rankCache    portsrepo.RankCache
	rates        portssvc.RateProvider
}

// ExchangeServiceOption is a functional option for configuring the exchange service
type ExchangeServiceOption func(*exchangeService)

// WithRateProvider sets the source of default rates for new exchanges.
func WithRateProvider(p portssvc.RateProvider) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.rates = p
	}
}

// WithExchangeRankCache sets the cache invalidated on lifecycle changes.
func WithExchangeRankCache(c portsrepo.RankCache) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.rankCache = c
	}
}

// WithExchangeRoster sets the roster used by the bidder listing.
func WithExchangeRoster(r portsrepo.BidderReader) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.bidderRepo = r
	}
}

// WithExchangeClock overrides the clock used for lifecycle decisions.
func WithExchangeClock(now func() time.Time) ExchangeServiceOption {
	return func(s *exchangeService) {
		s.Now = now
	}
}

// NewExchangeService creates the exchange administration service.
func NewExchangeService(repo portsrepo.ExchangeRepositoryFacade, options ...ExchangeServiceOption) portssvc.ExchangeSvcFacade {
	svc := &exchangeService{exchangeRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeSvcFacade = (*exchangeService)(nil)

func (s *exchangeService) CreateExchange(ctx context.Context, req dto.CreateExchangeRequest, creatorID string) (*domain.Exchange, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: exchange name is required", apperrors.ErrValidation)
	}
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}

	now := s.CurrentTime()
	deadline := domain.TruncateDeadline(req.Deadline)
	if deadline.Before(domain.TruncateDeadline(now)) {
		return nil, fmt.Errorf("%w: deadline %s is in the past", apperrors.ErrValidation, deadline.Format("2006-01-02 15:04"))
	}

	if existing, err := s.exchangeRepo.FindExchangeByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.NewConflictError("exchange name " + name + " already exists")
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check exchange name", slog.String("name", name))
		return nil, err
	}

	rates, err := s.resolveRates(ctx, req)
	if err != nil {
		return nil, err
	}

	exchange := domain.Exchange{
		ExchangeID:    uuid.NewString(),
		Name:          name,
		Category:      req.Category,
		Deadline:      deadline,
		Rates:         rates,
		NotifyEnabled: req.NotifyEnabled,
		Description:   strings.TrimSpace(req.Description),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if exchange.Category == domain.CategoryFreight {
		exchange.Logistics = domain.LogisticsTerms{
			Incoterms:     strings.TrimSpace(req.Incoterms),
			PortOfLoading: strings.TrimSpace(req.PortOfLoading),
			PickupDate:    strings.TrimSpace(req.PickupDate),
		}
	}

	if err := s.exchangeRepo.SaveExchange(ctx, exchange); err != nil {
		s.LogError(ctx, err, "Failed to save exchange", slog.String("exchange_id", exchange.ExchangeID))
		return nil, err
	}

	s.LogInfo(ctx, "Exchange created",
		slog.String("exchange_id", exchange.ExchangeID),
		slog.String("category", string(exchange.Category)),
		slog.Time("deadline", exchange.Deadline))
	return &exchange, nil
}

// resolveRates takes the requested rates, filling gaps from the rate provider.
func (s *exchangeService) resolveRates(ctx context.Context, req dto.CreateExchangeRequest) (domain.Rates, error) {
	var rates domain.Rates
	if req.EURRate == nil || req.USDRate == nil {
		if s.rates == nil {
			return rates, fmt.Errorf("%w: eurRate and usdRate are required", apperrors.ErrValidation)
		}
		rates = s.rates.SuggestRates(ctx)
	}
	if req.EURRate != nil {
		rates.EURRate = *req.EURRate
	}
	if req.USDRate != nil {
		rates.USDRate = *req.USDRate
	}
	if err := rates.Validate(); err != nil {
		return rates, fmt.Errorf("%w: %v", apperrors.ErrInvalidRate, err)
	}
	return rates, nil
}

func (s *exchangeService) GetExchange(ctx context.Context, exchangeID string) (*domain.Exchange, error) {
	exchange, err := s.exchangeRepo.FindExchangeByID(ctx, exchangeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find exchange", slog.String("exchange_id", exchangeID))
		}
		return nil, err
	}
	return exchange, nil
}

func (s *exchangeService) ListExchanges(ctx context.Context, view domain.ExchangeView, category *domain.Category) ([]domain.Exchange, error) {
	archived := view == domain.ViewArchive
	all, err := s.exchangeRepo.ListExchanges(ctx, domain.ExchangeFilter{Category: category, Archived: &archived})
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchanges", slog.String("view", string(view)))
		return nil, err
	}
	if archived {
		return all, nil
	}

	now := s.CurrentTime()
	out := make([]domain.Exchange, 0, len(all))
	for _, ex := range all {
		open := ex.IsOpen(now)
		switch view {
		case domain.ViewClosed:
			if !open {
				out = append(out, ex)
			}
		case domain.ViewOpen, "":
			if open {
				out = append(out, ex)
			}
		default:
			return nil, fmt.Errorf("%w: unknown view %q", apperrors.ErrValidation, view)
		}
	}
	return out, nil
}

func (s *exchangeService) ListOpenForBidder(ctx context.Context, bidderID string) ([]domain.Exchange, error) {
	if s.bidderRepo == nil {
		return nil, apperrors.NewAppError(500, "bidder roster is not configured", nil)
	}
	bidder, err := s.bidderRepo.FindBidderByID(ctx, bidderID)
	if err != nil {
		return nil, err
	}
	if !bidder.IsActive {
		return []domain.Exchange{}, nil
	}
	return s.ListExchanges(ctx, domain.ViewOpen, &bidder.Category)
}

func (s *exchangeService) UpdateExchangeDetails(ctx context.Context, exchangeID string, req dto.UpdateExchangeDetailsRequest, userID string) (*domain.Exchange, error) {
	exchange, err := s.modify(ctx, exchangeID, userID, func(exchange *domain.Exchange) error {
		if exchange.IsArchived {
			return fmt.Errorf("%w: archived exchange %s is read-only", apperrors.ErrValidation, exchangeID)
		}
		if req.Description != nil {
			exchange.Description = strings.TrimSpace(*req.Description)
		}
		if exchange.Category == domain.CategoryFreight {
			if req.Incoterms != nil {
				exchange.Logistics.Incoterms = strings.TrimSpace(*req.Incoterms)
			}
			if req.PortOfLoading != nil {
				exchange.Logistics.PortOfLoading = strings.TrimSpace(*req.PortOfLoading)
			}
			if req.PickupDate != nil {
				exchange.Logistics.PickupDate = strings.TrimSpace(*req.PickupDate)
			}
		}
		if req.CustomsCode != nil {
			code := strings.TrimSpace(*req.CustomsCode)
			if code != "" && len(code) != domain.CustomsCodeLength {
				return fmt.Errorf("%w: customs clearance code must have %d characters", apperrors.ErrValidation, domain.CustomsCodeLength)
			}
			exchange.CustomsCode = code
		}
		if req.NotifyEnabled != nil {
			exchange.NotifyEnabled = *req.NotifyEnabled
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Exchange details updated", slog.String("exchange_id", exchangeID))
	return exchange, nil
}

func (s *exchangeService) ToggleLock(ctx context.Context, exchangeID, userID string) (*domain.Exchange, error) {
	exchange, err := s.modify(ctx, exchangeID, userID, func(exchange *domain.Exchange) error {
		if exchange.IsArchived {
			return fmt.Errorf("%w: archived exchange %s cannot be unlocked or locked", apperrors.ErrValidation, exchangeID)
		}
		exchange.IsLocked = !exchange.IsLocked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Exchange lock toggled", slog.String("exchange_id", exchangeID), slog.Bool("locked", exchange.IsLocked))
	return exchange, nil
}

func (s *exchangeService) ArchiveExchange(ctx context.Context, exchangeID, folder, userID string) (*domain.Exchange, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		folder = domain.DefaultArchiveFolder
	}
	exchange, err := s.modify(ctx, exchangeID, userID, func(exchange *domain.Exchange) error {
		if err := exchange.ArchiveReadiness(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrArchiveRequirement, err)
		}
		exchange.IsArchived = true
		exchange.ArchiveFolder = folder
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Exchange archived", slog.String("exchange_id", exchangeID), slog.String("folder", folder))
	return exchange, nil
}

func (s *exchangeService) DeleteExchange(ctx context.Context, exchangeID string) error {
	if err := s.exchangeRepo.DeleteExchange(ctx, exchangeID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete exchange", slog.String("exchange_id", exchangeID))
		}
		return err
	}
	s.invalidate(ctx, exchangeID)
	s.LogInfo(ctx, "Exchange deleted", slog.String("exchange_id", exchangeID))
	return nil
}

// modify runs a lifecycle change under the exchange lock. The checks inside mutate
// see the row as it is at write time.
func (s *exchangeService) modify(ctx context.Context, exchangeID, userID string, mutate portsrepo.ExchangeMutation) (*domain.Exchange, error) {
	exchange, err := s.exchangeRepo.ModifyExchange(ctx, exchangeID, func(exchange *domain.Exchange) error {
		if err := mutate(exchange); err != nil {
			return err
		}
		exchange.LastUpdatedAt = s.CurrentTime()
		exchange.LastUpdatedBy = userID
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrArchiveRequirement) {
			s.LogError(ctx, err, "Failed to update exchange", slog.String("exchange_id", exchangeID))
		}
		return nil, err
	}
	s.invalidate(ctx, exchangeID)
	return exchange, nil
}

func (s *exchangeService) invalidate(ctx context.Context, exchangeID string) {
	if s.rankCache == nil {
		return
	}
	if err := s.rankCache.InvalidateExchange(ctx, exchangeID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate rank cache", slog.String("exchange_id", exchangeID))
	}
}
