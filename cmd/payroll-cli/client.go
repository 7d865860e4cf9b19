package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/modules/payroll/infrastructure/payrollapi"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
	"github.com/iota-uz/payroll-console/pkg/eventbus"
	"github.com/iota-uz/payroll-console/pkg/logging"
	"github.com/iota-uz/payroll-console/pkg/serrors"
)

type backendOptions struct {
	BaseURL string
	Token   string
	Role    string
}

func addBackendFlags(opts *backendOptions, flags *pflag.FlagSet) {
	flags.StringVar(&opts.BaseURL, "base-url", envOr("PAYROLL_API_BASE_URL", "http://localhost:8080"), "payroll backend base URL")
	flags.StringVar(&opts.Token, "token", os.Getenv("PAYROLL_API_TOKEN"), "bearer token")
	flags.StringVar(&opts.Role, "role", "specialist", "acting payroll role (specialist|manager|finance)")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (o *backendOptions) role() (workflow.Role, error) {
	role := workflow.Role(o.Role)
	if !workflow.KnownRole(role) {
		return "", withCode(exitUsage, fmt.Errorf("unknown role %q", o.Role))
	}
	return role, nil
}

func (o *backendOptions) services(logger *logrus.Logger) (*services.RunService, *services.ExceptionService) {
	client := payrollapi.NewClient(payrollapi.Options{
		BaseURL: o.BaseURL,
		Token:   o.Token,
		Timeout: 30 * time.Second,
		Logger:  logger,
	})
	bus := eventbus.NewEventPublisher(logger)
	return services.NewRunService(client, bus, logger),
		services.NewExceptionService(client, client, bus, logger)
}

func newCLILogger() *logrus.Logger {
	return logging.ConsoleLogger(logrus.WarnLevel)
}

func writeJSONLine(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// codedExit maps domain error codes onto CLI exit codes.
func codedExit(err error) error {
	if err == nil {
		return nil
	}
	code, ok := serrors.CodeOf(err)
	if !ok {
		if errors.Is(err, payrollapi.ErrUpstream) {
			return withCode(exitUpstream, err)
		}
		return err
	}
	switch code {
	case "PAYROLL_FORBIDDEN":
		return withCode(exitForbidden, err)
	case "PAYROLL_VALIDATION_FAILED", "PAYROLL_INVALID_TRANSITION":
		return withCode(exitValidation, err)
	case "PAYROLL_UPSTREAM", "PAYROLL_BULK_FAILED", "PAYROLL_BULK_PARTIAL":
		return withCode(exitUpstream, err)
	default:
		return err
	}
}
