package services

import (
	"github.com/SscSPs/reverse_auction_app/internal/core/domain"
	portsrepo "github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/reverse_auction_app/internal/core/ports/services"
	"github.com/SscSPs/reverse_auction_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, dispatcher portssvc.NotificationDispatcher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.RateProvider = NewNBPRateProvider(cfg.NBPAPIURL, domain.Rates{
		EURRate: cfg.DefaultEURRate,
		USDRate: cfg.DefaultUSDRate,
	})

	container.Exchange = NewExchangeService(
		repos.ExchangeRepo,
		WithRateProvider(container.RateProvider),
		WithExchangeRankCache(repos.RankCache),
		WithExchangeRoster(repos.BidderRepo),
	)
	container.Material = NewMaterialService(repos.MaterialRepo, repos.ExchangeRepo, repos.RankCache)

	container.Bidding = NewBiddingService(
		repos.ExchangeRepo,
		repos.MaterialRepo,
		repos.LedgerRepo,
		WithBiddingRankCache(repos.RankCache),
		WithOutbidNotifier(NewOutbidNotifier(dispatcher, repos.BidderRepo)),
	)
	container.Ranking = NewRankingService(repos, container.Exchange)
	container.Invitation = NewInvitationService(repos.ExchangeRepo, repos.SettingsRepo, repos.BidderRepo, dispatcher)
	container.Roster = NewRosterService(repos.BidderRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ExchangeSvcFacade   = (*exchangeService)(nil)
	_ portssvc.MaterialSvcFacade   = (*materialService)(nil)
	_ portssvc.BiddingSvcFacade    = (*biddingService)(nil)
	_ portssvc.RankingSvcFacade    = (*rankingService)(nil)
	_ portssvc.InvitationSvcFacade = (*invitationService)(nil)
	_ portssvc.RosterSvcFacade     = (*rosterService)(nil)
)
