package payroll

import (
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/exception"
	"github.com/iota-uz/payroll-console/modules/payroll/infrastructure/payrollapi"
	"github.com/iota-uz/payroll-console/modules/payroll/presentation/controllers"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
	"github.com/iota-uz/payroll-console/pkg/application"
	"github.com/iota-uz/payroll-console/pkg/configuration"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "payroll"
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	client := payrollapi.NewClient(payrollapi.Options{
		BaseURL: conf.PayrollAPI.BaseURL,
		Token:   conf.PayrollAPI.Token,
		Timeout: conf.PayrollAPI.Timeout,
		Logger:  app.Logger(),
	})

	app.RegisterServices(
		services.NewRunService(client, app.EventPublisher(), app.Logger()),
		services.NewExceptionService(client, client, app.EventPublisher(), app.Logger()),
	)
	app.RegisterControllers(
		controllers.NewRunsController(app),
		controllers.NewExceptionsController(app),
	)

	registerAuditHandlers(app)
	return nil
}

// registerAuditHandlers wires domain events into the audit log.
func registerAuditHandlers(app application.Application) {
	log := app.Logger()

	app.EventPublisher().Subscribe(func(ev *payrollrun.TransitionedEvent) {
		log.WithFields(logrus.Fields{
			"eventId": ev.EventID,
			"runId":   ev.RunID,
			"action":  ev.Action,
			"from":    ev.From,
			"to":      ev.To,
			"role":    ev.ActorRole,
		}).Info("payroll run transitioned")
	})

	app.EventPublisher().Subscribe(func(ev *payrollrun.PayslipOperationEvent) {
		log.WithFields(logrus.Fields{
			"eventId":   ev.EventID,
			"runId":     ev.RunID,
			"operation": ev.Operation,
			"role":      ev.ActorRole,
		}).Info("payslip operation triggered")
	})

	app.EventPublisher().Subscribe(func(ev *payrollrun.DeletedEvent) {
		log.WithFields(logrus.Fields{
			"eventId": ev.EventID,
			"runId":   ev.RunID,
		}).Info("payroll run deleted")
	})

	app.EventPublisher().Subscribe(func(ev *exception.ResolvedEvent) {
		log.WithFields(logrus.Fields{
			"eventId":    ev.EventID,
			"runId":      ev.RunID,
			"employeeId": ev.EmployeeID,
		}).Info("payroll exception resolved")
	})
}
