//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/stawicover/agency-api/internal/payment/daraja"
	"github.com/stawicover/agency-api/internal/payment/domain"
	"github.com/stawicover/agency-api/internal/payment/handler"
	"github.com/stawicover/agency-api/internal/payment/repository"
	"github.com/stawicover/agency-api/internal/payment/usecase/command"
	"github.com/stawicover/agency-api/internal/payment/usecase/query"
	"github.com/stawicover/agency-api/kafka"
)

// ProvidePaymentRepository provides the payment repository
func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepository(db)
}

// ProvideInitiateSTKPushHandler provides the initiate command handler
func ProvideInitiateSTKPushHandler(repo domain.PaymentRepository, client *daraja.Client) *command.InitiateSTKPushHandler {
	return command.NewInitiateSTKPushHandler(repo, client)
}

// ProvideProcessCallbackHandler provides the callback command handler
func ProvideProcessCallbackHandler(repo domain.PaymentRepository) *command.ProcessCallbackHandler {
	return command.NewProcessCallbackHandler(repo)
}

// ProvideQueryStatusHandler provides the live status query handler
func ProvideQueryStatusHandler(client *daraja.Client) *query.QueryStatusHandler {
	return query.NewQueryStatusHandler(client)
}

// ProvideGetByCheckoutHandler provides the local lookup handler
func ProvideGetByCheckoutHandler(repo domain.PaymentRepository) *query.GetByCheckoutHandler {
	return query.NewGetByCheckoutHandler(repo)
}

// ProvideGetPaymentHandler provides the get payment query handler
func ProvideGetPaymentHandler(repo domain.PaymentRepository) *query.GetPaymentHandler {
	return query.NewGetPaymentHandler(repo)
}

// ProvideListPaymentsHandler provides the list payments query handler
func ProvideListPaymentsHandler(repo domain.PaymentRepository) *query.ListPaymentsHandler {
	return query.NewListPaymentsHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePaymentRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideInitiateSTKPushHandler,
	ProvideProcessCallbackHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideQueryStatusHandler,
	ProvideGetByCheckoutHandler,
	ProvideGetPaymentHandler,
	ProvideListPaymentsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the payment handler with all dependencies
func InitializeHandler(db *gorm.DB, client *daraja.Client, publisher *kafka.Publisher) (*handler.PaymentHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewPaymentHandlerWithDI,
	)
	return nil, nil
}
