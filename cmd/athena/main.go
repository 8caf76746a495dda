package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"athena/internal/config"
	"athena/internal/db"
	"athena/internal/domain"
	"athena/internal/engine"
	"athena/internal/guide"
	"athena/internal/migrate"
	"athena/internal/repo"
	"athena/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "athena",
	Short: "Athena CLI",
	Long: `Athena is a personal productivity workspace with a Socratic guide.
- Workspace: your .athena directory holding the database and config.
- Tasks: work items with priorities, due dates, and subtasks.
- Notes: freeform notes, linkable to tasks.
- Habits: daily habits with streak tracking.
- Guide: a question-first session that helps you think a task through,
  then turns the conversation into an action plan of subtasks.
The guide works offline with built-in questions; set ATHENA_API_KEY to
use the model-backed mode.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("ATHENA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(noteCmd())
	rootCmd.AddCommand(goalCmd())
	rootCmd.AddCommand(habitCmd())
	rootCmd.AddCommand(focusCmd())
	rootCmd.AddCommand(guideCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func taskCmd() *cobra.Command {
	t := &cobra.Command{Use: "task", Short: "Manage tasks"}
	t.AddCommand(taskAddCmd())
	t.AddCommand(taskListCmd())
	t.AddCommand(taskShowCmd())
	t.AddCommand(taskUpdateCmd())
	t.AddCommand(taskDoneCmd())
	t.AddCommand(taskRmCmd())
	t.AddCommand(taskTreeCmd())
	return t
}

func taskAddCmd() *cobra.Command {
	var title, description, priority, dueDate, parentID string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.CreateTask(ctx, engine.TaskCreateOptions{
					Title:       title,
					Description: description,
					Priority:    priority,
					DueDate:     dueDate,
					ParentID:    parentID,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&dueDate, "due", "", "due date (RFC3339)")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent task id")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskListCmd() *cobra.Command {
	var f repo.TaskFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				tasks, err := e.ListTasks(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Energy", "Due"})
				for _, t := range tasks {
					due := ""
					if t.DueDate != nil {
						due = *t.DueDate
					}
					tw.AppendRow(table.Row{t.ID, t.Title, t.Status, t.Priority, engine.EnergyLevel(t), due})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter")
	cmd.Flags().StringVar(&f.Priority, "priority", "", "priority filter")
	cmd.Flags().StringVar(&f.ParentID, "parent", "", "parent task id")
	return cmd
}

func taskShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, description, status, priority, dueDate, parentID string
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.TaskUpdateOptions{ID: args[0]}
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if cmd.Flags().Changed("description") {
					opts.Description = &description
				}
				if cmd.Flags().Changed("status") {
					opts.Status = &status
				}
				if cmd.Flags().Changed("priority") {
					opts.Priority = &priority
				}
				if cmd.Flags().Changed("due") {
					opts.DueDate = &dueDate
				}
				if cmd.Flags().Changed("parent") {
					opts.ParentID = &parentID
				}
				t, err := e.UpdateTask(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&status, "status", "", "todo|in_progress|done")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high")
	cmd.Flags().StringVar(&dueDate, "due", "", "due date (RFC3339)")
	cmd.Flags().StringVar(&parentID, "parent", "", "parent task id, empty to detach")
	return cmd
}

func taskDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				status := "done"
				t, err := e.UpdateTask(ctx, engine.TaskUpdateOptions{ID: args[0], Status: &status})
				if err != nil {
					return err
				}
				fmt.Printf("done: %s\n", t.Title)
				return nil
			})
		},
	}
	return cmd
}

func taskRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteTask(ctx, args[0])
			})
		},
	}
	return cmd
}

func taskTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show tasks as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				tasks, err := e.ListTasks(ctx, repo.TaskFilters{})
				if err != nil {
					return err
				}
				children := map[string][]domain.Task{}
				var roots []domain.Task
				for _, t := range tasks {
					if t.ParentID == nil {
						roots = append(roots, t)
					} else {
						children[*t.ParentID] = append(children[*t.ParentID], t)
					}
				}
				for i, t := range roots {
					printTaskTree(t, children, "", i == len(roots)-1)
				}
				return nil
			})
		},
	}
	return cmd
}

func noteCmd() *cobra.Command {
	n := &cobra.Command{Use: "note", Short: "Manage notes"}
	n.AddCommand(noteAddCmd())
	n.AddCommand(noteListCmd())
	n.AddCommand(noteShowCmd())
	n.AddCommand(noteRmCmd())
	n.AddCommand(noteLinkCmd())
	n.AddCommand(noteUnlinkCmd())
	return n
}

func noteAddCmd() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				n, err := e.CreateNote(ctx, engine.NoteCreateOptions{Title: title, Content: content})
				if err != nil {
					return err
				}
				return printJSONOrTable(n)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note content")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func noteListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				notes, err := e.Repo.ListNotes(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(notes)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Updated"})
				for _, n := range notes {
					tw.AppendRow(table.Row{n.ID, n.Title, n.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func noteShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <note-id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				n, err := e.Repo.GetNote(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(n)
				}
				fmt.Printf("%s\n\n%s\n", n.Title, n.Content)
				return nil
			})
		},
	}
	return cmd
}

func noteRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteNote(ctx, args[0])
			})
		},
	}
	return cmd
}

func noteLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <note-id> <task-id>",
		Short: "Link a note to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.LinkTaskNote(ctx, args[1], args[0])
			})
		},
	}
	return cmd
}

func noteUnlinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlink <note-id> <task-id>",
		Short: "Unlink a note from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.UnlinkTaskNote(ctx, args[1], args[0])
			})
		},
	}
	return cmd
}

func habitCmd() *cobra.Command {
	h := &cobra.Command{Use: "habit", Short: "Manage habits"}
	h.AddCommand(habitAddCmd())
	h.AddCommand(habitListCmd())
	h.AddCommand(habitUpdateCmd())
	h.AddCommand(habitDoneCmd())
	h.AddCommand(habitRmCmd())
	return h
}

func habitAddCmd() *cobra.Command {
	var name, description string
	var target int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a habit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				h, err := e.CreateHabit(ctx, engine.HabitCreateOptions{
					Name:          name,
					Description:   description,
					TargetPerWeek: target,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(h)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "habit name")
	cmd.Flags().StringVar(&description, "description", "", "habit description")
	cmd.Flags().IntVar(&target, "target", 7, "completions per week")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func habitListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				habits, err := e.Repo.ListHabits(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(habits)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Target/Week", "Streak"})
				for _, h := range habits {
					streak, err := e.HabitStreak(ctx, h.ID)
					if err != nil {
						return err
					}
					tw.AppendRow(table.Row{h.ID, h.Name, h.TargetPerWeek, streak})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func habitUpdateCmd() *cobra.Command {
	var name, description string
	var target int
	cmd := &cobra.Command{
		Use:   "update <habit-id>",
		Short: "Update a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.HabitUpdateOptions{ID: args[0]}
				if cmd.Flags().Changed("name") {
					opts.Name = &name
				}
				if cmd.Flags().Changed("description") {
					opts.Description = &description
				}
				if cmd.Flags().Changed("target") {
					opts.TargetPerWeek = &target
				}
				h, err := e.UpdateHabit(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(h)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "habit name")
	cmd.Flags().StringVar(&description, "description", "", "habit description")
	cmd.Flags().IntVar(&target, "target", 7, "completions per week")
	return cmd
}

func habitDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <habit-id>",
		Short: "Mark a habit complete for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				c, err := e.CompleteHabit(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("completed for %s\n", c.Day)
				return nil
			})
		},
	}
	return cmd
}

func habitRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <habit-id>",
		Short: "Delete a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteHabit(ctx, args[0])
			})
		},
	}
	return cmd
}

func focusCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Show open tasks that most need attention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				tasks, err := e.AttentionTasks(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Energy"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{t.ID, t.Title, t.Status, t.Priority, engine.EnergyLevel(t)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "number of tasks")
	return cmd
}

func guideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guide <task-id>",
		Short: "Start an interactive guide session for a task",
		Long: `Opens a question-first conversation about the task. Type answers
at the prompt; ask for a plan (or type "plan") once a few turns are in.
Type "quit" to leave. Generated plans can be saved as subtasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return runGuide(ctx, e, args[0])
			})
		},
	}
	return cmd
}

func runGuide(ctx context.Context, e engine.Engine, taskID string) error {
	t, err := e.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	gw := guide.NewGateway(os.Getenv("ATHENA_API_KEY"), e.Config.Model.Name, e.Config.Model.MaxTokens)
	g := guide.New(e.Config, gw)

	res := g.StartSession(ctx, t.ID, t.Title, t.Description, "")
	defer g.EndSession(res.SessionID)

	fmt.Printf("guide> %s\n", res.Question)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		turn, err := g.Continue(ctx, res.SessionID, line)
		if err != nil {
			return err
		}
		if turn.Plan != nil {
			if err := offerPlan(ctx, e, t.ID, turn.Plan, scanner); err != nil {
				return err
			}
			return nil
		}
		fmt.Printf("guide> %s\n", turn.Question)
	}
}

func offerPlan(ctx context.Context, e engine.Engine, parentID string, plan *guide.GeneratedPlan, scanner *bufio.Scanner) error {
	fmt.Printf("\n%s\n\n", plan.Summary)
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "Title", "Priority", "Estimate"})
	for i, t := range plan.Tasks {
		tw.AppendRow(table.Row{i + 1, t.Title, t.Priority, t.EstimatedTime})
	}
	tw.Render()
	fmt.Print("save as subtasks? [y/N] ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
		return nil
	}
	subtasks := make([]engine.SubtaskInput, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		subtasks = append(subtasks, engine.SubtaskInput{
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
		})
	}
	created, err := e.CreateSubtasks(ctx, parentID, subtasks)
	if err != nil {
		return err
	}
	fmt.Printf("created %d subtasks\n", len(created))
	return nil
}

func logCmd() *cobra.Command {
	l := &cobra.Command{Use: "log", Short: "Event log"}
	l.AddCommand(logTailCmd())
	return l
}

func logTailCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				events, err := e.Repo.ListEvents(ctx, n)
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			cfg, err := config.Load(workspace)
			if err != nil {
				return err
			}
			e := engine.New(conn, cfg)
			gw := guide.NewGateway(os.Getenv("ATHENA_API_KEY"), cfg.Model.Name, cfg.Model.MaxTokens)
			g := guide.New(cfg, gw)
			reaper := g.StartReaper()
			defer reaper.Stop()
			handler, err := server.New(server.Config{Engine: e, Guide: g, BasePath: basePath})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Athena API on http://%s%s (OpenAPI at %s/openapi.json)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v1", "API base path")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	e := engine.New(conn, cfg)
	return fn(ctx, e)
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTaskTree(t domain.Task, children map[string][]domain.Task, prefix string, last bool) {
	connector := "├── "
	newPrefix := prefix + "│   "
	if last {
		connector = "└── "
		newPrefix = prefix + "    "
	}
	fmt.Printf("%s%s%s [%s]\n", prefix, connector, t.Title, t.Status)
	for i, c := range children[t.ID] {
		printTaskTree(c, children, newPrefix, i == len(children[t.ID])-1)
	}
}
