package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"athena/internal/engine"
	"athena/internal/repo"
)

func goalCmd() *cobra.Command {
	g := &cobra.Command{Use: "goal", Short: "Manage goals"}
	g.AddCommand(goalAddCmd())
	g.AddCommand(goalListCmd())
	g.AddCommand(goalShowCmd())
	g.AddCommand(goalUpdateCmd())
	g.AddCommand(goalRmCmd())
	g.AddCommand(goalLinkCmd())
	g.AddCommand(goalUnlinkCmd())
	return g
}

func goalAddCmd() *cobra.Command {
	var title, description, goalType, priority, targetDate, parentID string
	var metrics []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				g, err := e.CreateGoal(ctx, engine.GoalCreateOptions{
					Title:       title,
					Description: description,
					Type:        goalType,
					Priority:    priority,
					TargetDate:  targetDate,
					ParentID:    parentID,
					Metrics:     metrics,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "goal title")
	cmd.Flags().StringVar(&description, "description", "", "goal description")
	cmd.Flags().StringVar(&goalType, "type", "", "vision|long-term|short-term|sprint")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&targetDate, "target", "", "target date (RFC3339)")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent goal id")
	cmd.Flags().StringSliceVar(&metrics, "metric", nil, "success metric, repeatable")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func goalListCmd() *cobra.Command {
	var f repo.GoalFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				goals, err := e.ListGoals(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(goals)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Type", "Status", "Priority", "Progress"})
				for _, g := range goals {
					tw.AppendRow(table.Row{g.ID, g.Title, g.Type, g.Status, g.Priority, fmt.Sprintf("%d%%", g.Progress)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Type, "type", "", "type filter")
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter")
	cmd.Flags().StringVar(&f.ParentID, "parent", "", "parent goal id")
	return cmd
}

func goalShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <goal-id>",
		Short: "Show a goal with linked tasks and sub-goals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				ov, err := e.GoalOverview(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(ov)
				}
				g := ov.Goal
				fmt.Printf("%s [%s/%s] %d%%\n", g.Title, g.Type, g.Status, g.Progress)
				if g.Description != "" {
					fmt.Println(g.Description)
				}
				if len(g.Metrics) > 0 {
					fmt.Printf("metrics: %s\n", strings.Join(g.Metrics, ", "))
				}
				for _, t := range ov.Tasks {
					fmt.Printf("  task: %s (%s)\n", t.Title, t.Status)
				}
				for _, s := range ov.SubGoals {
					fmt.Printf("  sub-goal: %s (%s)\n", s.Title, s.Status)
				}
				return nil
			})
		},
	}
	return cmd
}

func goalUpdateCmd() *cobra.Command {
	var title, description, goalType, status, priority, targetDate, parentID string
	var progress int
	var metrics []string
	cmd := &cobra.Command{
		Use:   "update <goal-id>",
		Short: "Update a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.GoalUpdateOptions{ID: args[0]}
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if cmd.Flags().Changed("description") {
					opts.Description = &description
				}
				if cmd.Flags().Changed("type") {
					opts.Type = &goalType
				}
				if cmd.Flags().Changed("status") {
					opts.Status = &status
				}
				if cmd.Flags().Changed("priority") {
					opts.Priority = &priority
				}
				if cmd.Flags().Changed("target") {
					opts.TargetDate = &targetDate
				}
				if cmd.Flags().Changed("parent") {
					opts.ParentID = &parentID
				}
				if cmd.Flags().Changed("progress") {
					opts.Progress = &progress
				}
				if cmd.Flags().Changed("metric") {
					opts.Metrics = &metrics
				}
				g, err := e.UpdateGoal(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(g)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "goal title")
	cmd.Flags().StringVar(&description, "description", "", "goal description")
	cmd.Flags().StringVar(&goalType, "type", "", "vision|long-term|short-term|sprint")
	cmd.Flags().StringVar(&status, "status", "", "active|achieved|on-hold|archived")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&targetDate, "target", "", "target date, empty to clear")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent goal id, empty to detach")
	cmd.Flags().IntVar(&progress, "progress", 0, "progress 0-100")
	cmd.Flags().StringSliceVar(&metrics, "metric", nil, "success metric, repeatable")
	return cmd
}

func goalRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <goal-id>",
		Short: "Delete a goal, its sub-goals, and linked tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteGoal(ctx, args[0])
			})
		},
	}
	return cmd
}

func goalLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <goal-id> <task-id>",
		Short: "Link a task to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.LinkGoalTask(ctx, args[0], args[1])
			})
		},
	}
	return cmd
}

func goalUnlinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlink <goal-id> <task-id>",
		Short: "Unlink a task from a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.UnlinkGoalTask(ctx, args[0], args[1])
			})
		},
	}
	return cmd
}
