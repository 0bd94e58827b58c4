package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/reverse_auction_app/internal/apperrors"
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
)

// checkTarget returns apperrors.ErrUnknownTarget unless target is rankable on ex.
func checkTarget(ctx context.Context, materials portsrepo.MaterialReader, ex domain.Exchange, target domain.TargetRef) error {
	switch {
	case target.Kind == domain.TargetExchange && ex.Category == domain.CategoryFreight && target.ID == ex.ExchangeID:
		return nil
	case target.Kind == domain.TargetBasket && ex.Category == domain.CategoryGoods && target.ID == ex.ExchangeID:
		return nil
	case target.Kind == domain.TargetMaterial && ex.Category == domain.CategoryGoods:
		m, err := materials.FindMaterialByID(ctx, target.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: material %s", apperrors.ErrUnknownTarget, target.ID)
			}
			return err
		}
		if m.ExchangeID != ex.ExchangeID {
			return fmt.Errorf("%w: material %s is not part of exchange %s", apperrors.ErrUnknownTarget, target.ID, ex.ExchangeID)
		}
		return nil
	}
	return fmt.Errorf("%w: %s on %s exchange %s", apperrors.ErrUnknownTarget, target.Key(), ex.Category, ex.ExchangeID)
}

// findExchange maps a missing exchange onto apperrors.ErrUnknownTarget.
func findExchange(ctx context.Context, exchanges portsrepo.ExchangeReader, exchangeID string) (*domain.Exchange, error) {
	ex, err := exchanges.FindExchangeByID(ctx, exchangeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: exchange %s", apperrors.ErrUnknownTarget, exchangeID)
		}
		return nil, err
	}
	return ex, nil
}
