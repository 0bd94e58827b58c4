package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/dto"
	"github.com/google/uuid"
)

type materialService struct {
	BaseService
	materialRepo portsrepo.MaterialRepositoryFacade
	exchangeRepo portsrepo.ExchangeReader
	rankCache    portsrepo.RankCache
}

// NewMaterialService creates the service managing goods lines.
func NewMaterialService(materialRepo portsrepo.MaterialRepositoryFacade, exchangeRepo portsrepo.ExchangeReader, rankCache portsrepo.RankCache) portssvc.MaterialSvcFacade {
	return &materialService{
		materialRepo: materialRepo,
		exchangeRepo: exchangeRepo,
		rankCache:    rankCache,
	}
}

var _ portssvc.MaterialSvcFacade = (*materialService)(nil)

func (s *materialService) editableGoodsExchange(ctx context.Context, exchangeID string) (*domain.Exchange, error) {
	exchange, err := s.exchangeRepo.FindExchangeByID(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange.Category != domain.CategoryGoods {
		return nil, fmt.Errorf("%w: materials exist only on goods exchanges", apperrors.ErrValidation)
	}
	if exchange.IsArchived {
		return nil, fmt.Errorf("%w: archived exchange %s is read-only", apperrors.ErrValidation, exchangeID)
	}
	return exchange, nil
}

func (s *materialService) AddMaterial(ctx context.Context, exchangeID string, req dto.CreateMaterialRequest, userID string) (*domain.Material, error) {
	if _, err := s.editableGoodsExchange(ctx, exchangeID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: material name is required", apperrors.ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", apperrors.ErrValidation)
	}

	now := s.CurrentTime()
	material := domain.Material{
		MaterialID:  uuid.NewString(),
		ExchangeID:  exchangeID,
		Name:        name,
		Quantity:    req.Quantity,
		NetWeight:   req.NetWeight,
		GrossWeight: req.GrossWeight,
		Volume:      req.Volume,
		KgPerMetre:  req.KgPerMetre,
		LengthM:     req.LengthM,
		HSCode:      strings.TrimSpace(req.HSCode),
		CustomsCode: strings.TrimSpace(req.CustomsCode),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	material.DeriveNetWeight()

	if err := s.materialRepo.SaveMaterial(ctx, material); err != nil {
		s.LogError(ctx, err, "Failed to save material", slog.String("exchange_id", exchangeID))
		return nil, err
	}
	s.invalidate(ctx, exchangeID)
	s.LogInfo(ctx, "Material added", slog.String("exchange_id", exchangeID), slog.String("material_id", material.MaterialID))
	return &material, nil
}

func (s *materialService) ListMaterials(ctx context.Context, exchangeID string) ([]domain.Material, error) {
	if _, err := s.exchangeRepo.FindExchangeByID(ctx, exchangeID); err != nil {
		return nil, err
	}
	materials, err := s.materialRepo.ListMaterialsByExchange(ctx, exchangeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list materials", slog.String("exchange_id", exchangeID))
		return nil, err
	}
	if materials == nil {
		return []domain.Material{}, nil
	}
	return materials, nil
}

func (s *materialService) DeleteMaterial(ctx context.Context, exchangeID, materialID string) error {
	if _, err := s.editableGoodsExchange(ctx, exchangeID); err != nil {
		return err
	}
	material, err := s.materialRepo.FindMaterialByID(ctx, materialID)
	if err != nil {
		return err
	}
	if material.ExchangeID != exchangeID {
		return apperrors.NewNotFoundError("material " + materialID + " not found in exchange " + exchangeID)
	}
	if err := s.materialRepo.DeleteMaterial(ctx, materialID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete material", slog.String("material_id", materialID))
		}
		return err
	}
	s.invalidate(ctx, exchangeID)
	s.LogInfo(ctx, "Material deleted", slog.String("exchange_id", exchangeID), slog.String("material_id", materialID))
	return nil
}

func (s *materialService) invalidate(ctx context.Context, exchangeID string) {
	if s.rankCache == nil {
		return
	}
	if err := s.rankCache.InvalidateExchange(ctx, exchangeID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate rank cache", slog.String("exchange_id", exchangeID))
	}
}
