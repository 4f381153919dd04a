package services

import (
	"github.com/SscSPs/compliance_transfer_app/internal/core/risk"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/config"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/metrics"
	"github.com/SscSPs/compliance_transfer_app/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher and m may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.AuditPublisher, m *metrics.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	transferOpts := []TransferServiceOption{
		WithRiskClassifier(risk.NewDefaultClassifier()),
		WithTransferMetrics(m),
	}
	if publisher != nil {
		transferOpts = append(transferOpts, WithAuditPublisher(publisher))
	}

	container.Transfer = NewTransferService(repos.TransferRepo, repos.AuditRepo, repos.TxManager, transferOpts...)
	container.Audit = NewAuditService(repos.AuditRepo)
	container.Auth = NewAuthService(repos.UserRepo, JWTConfigFrom(cfg))

	return container
}

// JWTConfigFrom extracts the token parameters from the application config.
func JWTConfigFrom(cfg *config.Config) utils.JWTConfig {
	return utils.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Expiry:   cfg.JWTExpiryDuration,
	}
}
