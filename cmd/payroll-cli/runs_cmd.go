package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/payroll-console/modules/payroll/domain/aggregates/payrollrun"
	"github.com/iota-uz/payroll-console/modules/payroll/domain/workflow"
	"github.com/iota-uz/payroll-console/modules/payroll/presentation/mappers"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and transition payroll runs",
	}
	cmd.AddCommand(newRunsListCmd())
	cmd.AddCommand(newRunsShowCmd())
	cmd.AddCommand(newRunsTransitionCmd())
	cmd.AddCommand(newRunsDeleteCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var opts backendOptions
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payroll runs, optionally filtered by status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := opts.role()
			if err != nil {
				return err
			}

			params := &payrollrun.FindParams{}
			if v := strings.TrimSpace(status); v != "" {
				st := workflow.State(v)
				if !workflow.KnownState(st) {
					return withCode(exitUsage, errors.New("unknown status "+v))
				}
				params.Status = st
			}

			runs, _ := opts.services(newCLILogger())
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			items, err := runs.GetPaginated(ctx, params)
			if err != nil {
				return codedExit(err)
			}
			for _, run := range items {
				if err := writeJSONLine(mappers.PayrollRunToViewModel(run, role)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	addBackendFlags(&opts, cmd.Flags())
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func newRunsShowCmd() *cobra.Command {
	var opts backendOptions

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one payroll run with its allowed actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := opts.role()
			if err != nil {
				return err
			}

			runs, _ := opts.services(newCLILogger())
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			run, err := runs.GetByID(ctx, args[0])
			if err != nil {
				return codedExit(err)
			}
			return writeJSONLine(mappers.PayrollRunToViewModel(run, role))
		},
	}

	addBackendFlags(&opts, cmd.Flags())
	return cmd
}

func newRunsTransitionCmd() *cobra.Command {
	var opts backendOptions
	var reason, freezeReason, unlockReason, approverID string

	cmd := &cobra.Command{
		Use:   "transition <run-id> <action>",
		Short: "Apply a workflow action to a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := opts.role()
			if err != nil {
				return err
			}

			runs, _ := opts.services(newCLILogger())
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			run, err := runs.Transition(ctx, args[0], workflow.Action(args[1]), role, workflow.Payload{
				Reason:       reason,
				FreezeReason: freezeReason,
				UnlockReason: unlockReason,
				ApproverID:   approverID,
			})
			if err != nil {
				return codedExit(err)
			}
			return writeJSONLine(mappers.PayrollRunToViewModel(run, role))
		},
	}

	addBackendFlags(&opts, cmd.Flags())
	cmd.Flags().StringVar(&reason, "reason", "", "rejection reason")
	cmd.Flags().StringVar(&freezeReason, "freeze-reason", "", "freeze reason")
	cmd.Flags().StringVar(&unlockReason, "unlock-reason", "", "unlock reason")
	cmd.Flags().StringVar(&approverID, "approver-id", "", "approver id")
	return cmd
}

func newRunsDeleteCmd() *cobra.Command {
	var opts backendOptions

	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a draft or rejected run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := opts.role()
			if err != nil {
				return err
			}

			runs, _ := opts.services(newCLILogger())
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if err := runs.Delete(ctx, args[0], role); err != nil {
				return codedExit(err)
			}
			return writeJSONLine(map[string]string{"deleted": args[0]})
		},
	}

	addBackendFlags(&opts, cmd.Flags())
	return cmd
}
