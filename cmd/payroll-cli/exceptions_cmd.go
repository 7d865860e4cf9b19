package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/payroll-console/modules/payroll/presentation/mappers"
	"github.com/iota-uz/payroll-console/modules/payroll/services"
)

func newExceptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exceptions",
		Short: "Aggregate and resolve payroll exceptions",
	}
	cmd.AddCommand(newExceptionsAggregateCmd())
	cmd.AddCommand(newExceptionsResolveCmd())
	cmd.AddCommand(newExceptionsBulkResolveCmd())
	return cmd
}

func newExceptionsAggregateCmd() *cobra.Command {
	var opts backendOptions

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Fetch and classify exceptions across all runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := opts.role(); err != nil {
				return err
			}

			_, exceptions := opts.services(newCLILogger())
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			view, err := exceptions.Refresh(ctx)
			if err != nil {
				return codedExit(err)
			}
			return writeJSONLine(mappers.AggregateToViewModel(view))
		},
	}

	addBackendFlags(&opts, cmd.Flags())
	return cmd
}

func newExceptionsResolveCmd() *cobra.Command {
	var opts backendOptions
	var note string

	cmd := &cobra.Command{
		Use:   "resolve <run-id> <employee-id>",
		Short: "Resolve one exception with a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.role(); err != nil {
				return err
			}
			if strings.TrimSpace(note) == "" {
				return withCode(exitUsage, errors.New("--note is required"))
			}

			_, exceptions := opts.services(newCLILogger())
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			err := exceptions.Resolve(ctx, services.ResolveRequest{
				RunID:      args[0],
				EmployeeID: args[1],
				Note:       note,
			})
			if err != nil {
				return codedExit(err)
			}
			return writeJSONLine(map[string]string{"resolved": args[0] + ":" + args[1]})
		},
	}

	addBackendFlags(&opts, cmd.Flags())
	cmd.Flags().StringVar(&note, "note", "", "resolution note")
	return cmd
}

func newExceptionsBulkResolveCmd() *cobra.Command {
	var opts backendOptions
	var note string

	cmd := &cobra.Command{
		Use:   "bulk-resolve <run-id:employee-id>...",
		Short: "Resolve many exceptions with one shared note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.role(); err != nil {
				return err
			}
			if strings.TrimSpace(note) == "" {
				return withCode(exitUsage, errors.New("--note is required"))
			}

			reqs := make([]services.ResolveRequest, 0, len(args))
			for _, arg := range args {
				runID, employeeID, ok := strings.Cut(arg, ":")
				if !ok {
					return withCode(exitUsage, errors.New("expected run-id:employee-id, got "+arg))
				}
				reqs = append(reqs, services.ResolveRequest{
					RunID:      runID,
					EmployeeID: employeeID,
					Note:       note,
				})
			}

			_, exceptions := opts.services(newCLILogger())
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			res, err := exceptions.BulkResolve(ctx, reqs)
			if writeErr := writeJSONLine(mappers.BulkResultToViewModel(res)); writeErr != nil {
				return writeErr
			}
			if err != nil {
				return codedExit(err)
			}
			return nil
		},
	}

	addBackendFlags(&opts, cmd.Flags())
	cmd.Flags().StringVar(&note, "note", "", "resolution note applied to every item")
	return cmd
}
