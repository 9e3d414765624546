package services

import (
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vendorbridge/currency_engine_app/internal/core/ports/services"
	"github.com/vendorbridge/currency_engine_app/internal/infrastructure/metrics"
)

// Compile-time interface conformance checks.
var (
	_ portssvc.RateSvcFacade      = (*RateResolverService)(nil)
	_ portssvc.ConversionSvc      = (*ConversionService)(nil)
	_ portssvc.PriceComparisonSvc = (*PriceNormalizationService)(nil)
	_ portssvc.AutomationSvc      = (*AutomationService)(nil)
)

// ContainerConfig carries the tunables the services need at construction.
type ContainerConfig struct {
	BaseCurrency   string
	RoundingPlaces int32
	Settings       domain.AutomationSettings
}

// NewServiceContainer wires all application services over the given adapter
// set and returns the container the handlers consume.
func NewServiceContainer(
	store portsrepo.RateStore,
	provider portsrepo.RateProvider,
	conversionHistory portsrepo.ConversionHistoryStore,
	updateHistory portsrepo.UpdateHistoryStore,
	notifications portsrepo.NotificationStore,
	publisher portsrepo.NotificationPublisher,
	automationMetrics *metrics.AutomationMetrics,
	cfg ContainerConfig,
	opts ...AutomationOption,
) *portssvc.ServiceContainer {
	resolver := NewRateResolverService(store, cfg.BaseCurrency)
	tracker := NewRateChangeTracker(cfg.Settings.AlertThreshold)

	return &portssvc.ServiceContainer{
		Rates:      resolver,
		Conversion: NewConversionService(resolver, conversionHistory, cfg.RoundingPlaces),
		Pricing:    NewPriceNormalizationService(resolver, cfg.BaseCurrency, cfg.RoundingPlaces),
		Automation: NewAutomationService(store, store, provider, tracker, updateHistory,
			notifications, publisher, automationMetrics, cfg.Settings, opts...),
	}
}
