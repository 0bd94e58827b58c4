package handlers

import (
	"strings"

	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
)

// targetQuery selects one rankable target of an exchange.
type targetQuery struct {
	Kind string `form:"target_kind" binding:"required,oneof=EXCHANGE MATERIAL BASKET exchange material basket"`
	ID   string `form:"target_id"`
}

// historyQuery selects a target and one page of the caller's entries on it.
type historyQuery struct {
	targetQuery
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"next_token"`
}

// ref resolves the query against exchangeID. Exchange and basket targets default to the exchange itself.
func (q targetQuery) ref(exchangeID string) domain.TargetRef {
	kind := domain.TargetKind(strings.ToUpper(q.Kind))
	id := strings.TrimSpace(q.ID)
	if id == "" && kind != domain.TargetMaterial {
		id = exchangeID
	}
	return domain.TargetRef{Kind: kind, ID: id}
}
