package main

import (
	"github.com/NordCoder/ProjectEye/internal/domain/financial"
	"github.com/NordCoder/ProjectEye/internal/domain/project"
	"github.com/spf13/cobra"
)

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Short: "Browse projects"}

	var p project.ListParams
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.Status = project.Status(status)
			out, err := a.api.Projects.List(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	list.Flags().StringVar(&status, "status", "", "planning, active, on_hold or completed")
	list.Flags().IntVar(&p.Page, "page", 0, "page number")
	list.Flags().IntVar(&p.Limit, "limit", 0, "page size")

	get := &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.api.Projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newMilestonesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "milestones", Short: "Browse project milestones"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list <project-id>",
		Short: "List milestones of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.api.Milestones.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	})
	return cmd
}

func newTeamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "team", Short: "Browse project teams"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list <project-id>",
		Short: "List team members of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.api.Team.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	})
	return cmd
}

func newTransactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "transactions", Short: "Browse project finances"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <project-id>",
			Short: "List transactions of a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := a.api.Financial.Transactions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			},
		},
		&cobra.Command{
			Use:   "summary <project-id>",
			Short: "Show budget and spend of a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := a.api.Financial.Summary(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					*financial.Summary
					Remaining int64 `json:"remaining"`
				}{out, out.Remaining()})
			},
		},
	)
	return cmd
}
