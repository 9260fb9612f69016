package services

import (
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/platform/metrics"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Account   portssvc.AccountSvcFacade
	Journal   portssvc.JournalSvcFacade
	Posting   portssvc.PostingSvcFacade
	Reporting portssvc.ReportingSvcFacade
	Voucher   portssvc.VoucherSvcFacade
	Invoice   portssvc.InvoiceSvcFacade
}

// ContainerConfig carries the knobs services need from configuration.
type ContainerConfig struct {
	EntryNumberPrefix string
	EntryNumberWidth  int
	Metrics           *metrics.LedgerMetrics
}

// NewServiceContainer wires every service against the given repositories.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg ContainerConfig) *ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	journalSvc := NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		repos.SequenceRepo,
		repos.TxManager,
		WithEntryNumberFormat(cfg.EntryNumberPrefix, cfg.EntryNumberWidth),
		WithJournalMetrics(cfg.Metrics),
	)
	postingSvc := NewPostingService(repos.JournalRepo, accountSvc, repos.TxManager, WithPostingMetrics(cfg.Metrics))

	return &ServiceContainer{
		Account:   accountSvc,
		Journal:   journalSvc,
		Posting:   postingSvc,
		Reporting: NewReportingService(repos.ReportingRepo),
		Voucher:   NewVoucherService(repos.VoucherRepo, repos.AccountRepo, repos.SequenceRepo, repos.TxManager, journalSvc, postingSvc),
		Invoice:   NewInvoiceService(repos.InvoiceRepo, repos.AccountRepo, repos.SequenceRepo, repos.TxManager, journalSvc, postingSvc),
	}
}
