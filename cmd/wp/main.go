package main

import (
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

	"weekplan/internal/app"
	"weekplan/internal/config"
	"weekplan/internal/domain"
	"weekplan/internal/engine"
	"weekplan/internal/server"
	"weekplan/internal/share"
	"weekplan/internal/stats"
	"weekplan/internal/store"
	"weekplan/internal/week"
)

var rootCmd = &cobra.Command{
	Use:   "wp",
	Short: "Weekplan CLI",
	Long: `Weekplan organizes team work into Monday-anchored weeks.
- Workspace: your .weekplan directory holding the database; weekplan.yml names the product.
- Product: the thing your team builds; every objective belongs to one product and one week.
- Week: a Monday..Sunday range with a stable id (week-YYYY-M-D); generate a year's catalog once.
- Objective: a weekly goal, classified urgent/important into do, schedule, delegate or eliminate.
- Task: a step under an objective; completion drives the objective's progress percentage.
- Share links: signed read-only URLs for one week's plan, no account needed.
- Event log: diary of changes, view with 'wp log tail'.`,
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
	viper.SetEnvPrefix("WEEKPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().String("product", "", "product id (overrides config)")
	rootCmd.PersistentFlags().Bool("demo", false, "use an in-memory store with sample data")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("product", rootCmd.PersistentFlags().Lookup("product"))
	_ = viper.BindPFlag("demo", rootCmd.PersistentFlags().Lookup("demo"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(memberCmd())
	rootCmd.AddCommand(weekCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(objectiveCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(shareCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(serveCmd())
}

func initCmd() *cobra.Command {
	var productID, name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if productID == "" {
				return fmt.Errorf("--id required")
			}
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(productID)), 0o644); err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if name != "" {
					if _, err := e.UpdateProduct(ctx, productID, &name, nil, viper.GetString("actor-id")); err != nil {
						return err
					}
				}
				fmt.Printf("Initialized workspace for product %s (%s)\n", productID, path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&productID, "id", "", "product id")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func productCmd() *cobra.Command {
	prd := &cobra.Command{Use: "product", Short: "Manage products"}
	prd.AddCommand(productListCmd())
	prd.AddCommand(productCreateCmd())
	prd.AddCommand(productShowCmd())
	prd.AddCommand(productUpdateCmd())
	prd.AddCommand(productDeleteCmd())
	return prd
}

func productListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				items, err := st.ListProducts(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	return cmd
}

func productCreateCmd() *cobra.Command {
	var id, name, desc string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name required")
			}
			return withEngineNoResolve(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.CreateProduct(ctx, id, name, desc, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "product id (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func productShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active product",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.Store.GetProduct(ctx, e.Config.Product.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	return cmd
}

func productUpdateCmd() *cobra.Command {
	var name, desc string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the active product",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var namePtr, descPtr *string
				if cmd.Flags().Changed("name") {
					namePtr = &name
				}
				if cmd.Flags().Changed("description") {
					descPtr = &desc
				}
				p, err := e.UpdateProduct(ctx, e.Config.Product.ID, namePtr, descPtr, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	return cmd
}

func productDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product and all its objectives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngineNoResolve(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteProduct(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
	return cmd
}

func memberCmd() *cobra.Command {
	mem := &cobra.Command{Use: "member", Short: "Manage team members"}
	mem.AddCommand(memberListCmd())
	mem.AddCommand(memberAddCmd())
	return mem
}

func memberListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				items, err := st.ListMembers(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	return cmd
}

func memberAddCmd() *cobra.Command {
	var id, name, role, avatar, initials string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name required")
			}
			return withEngineNoResolve(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				m, err := e.CreateMember(ctx, domain.Member{
					ID: id, Name: name, Role: role, Avatar: avatar, Initials: initials,
				}, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "member id (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "member name")
	cmd.Flags().StringVar(&role, "role", "", "role")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	cmd.Flags().StringVar(&initials, "initials", "", "initials (derived from name when omitted)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func weekCmd() *cobra.Command {
	wk := &cobra.Command{Use: "week", Short: "Manage the week catalog"}
	wk.AddCommand(weekGenerateCmd())
	wk.AddCommand(weekListCmd())
	wk.AddCommand(weekResolveCmd())
	wk.AddCommand(weekLabelCmd())
	return wk
}

func weekGenerateCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the week catalog for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				ranges, inserted, err := e.GenerateYear(ctx, year, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				fmt.Printf("Generated %d weeks for %d (%d new)\n", len(ranges), year, inserted)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (defaults to current)")
	return cmd
}

func weekListCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the week catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngineNoResolve(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.ListWeeks(ctx, year)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Start", "End", "Label", "Current"})
				for _, w := range items {
					current := ""
					if w.IsCurrentWeek {
						current = "*"
					}
					tw.AppendRow(table.Row{
						w.ID,
						w.StartDate.Format("2006-01-02"),
						w.EndDate.Format("2006-01-02"),
						w.Label,
						current,
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "filter by year (0 = all)")
	return cmd
}

func weekResolveCmd() *cobra.Command {
	var id, date, slug string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a week by id, date or slug",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var (
					w   *domain.WeekRange
					err error
				)
				switch {
				case slug != "":
					w, err = e.ResolveWeekSlug(ctx, slug)
				case id != "":
					w, err = e.ResolveWeek(ctx, week.Target{ID: id})
				case date != "":
					var d time.Time
					if d, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
						return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
					}
					w, err = e.ResolveWeek(ctx, week.Target{Date: d})
				default:
					return fmt.Errorf("one of --id, --date or --slug is required")
				}
				if err != nil {
					return err
				}
				if w == nil {
					return fmt.Errorf("no week matches; run 'wp week generate' first")
				}
				return printJSONOrTable(w)
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "week id (week-YYYY-M-D)")
	cmd.Flags().StringVar(&date, "date", "", "any date inside the week (YYYY-MM-DD)")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (DD-MM-YYYY--to--DD-MM-YYYY)")
	return cmd
}

func weekLabelCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "label <week-id>",
		Short: "Rename a week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if label == "" {
				return fmt.Errorf("--label required")
			}
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				if err := st.UpdateWeekLabel(ctx, args[0], label); err != nil {
					return err
				}
				w, err := st.GetWeekRange(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(w)
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "new label")
	return cmd
}

func planCmd() *cobra.Command {
	var weekID, date, members string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the week plan",
		Long:  "Objectives with tasks and the weekly rollup for the active product. Defaults to the current week.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				target := week.Target{ID: weekID}
				if weekID == "" {
					d := time.Now()
					if date != "" {
						var err error
						if d, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
							return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
						}
					}
					target = week.Target{Date: d}
				}
				view, err := e.WeekView(ctx, e.Config.Product.ID, target, stats.ParseMemberFilter(members))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(view)
				}
				fmt.Printf("%s — %s\n", view.Product.Name, view.Week.Label)
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"#", "Objective", "Category", "Progress", "Tasks"})
				for _, o := range view.Objectives {
					done := 0
					for _, t := range o.Tasks {
						if t.Completed {
							done++
						}
					}
					tw.AppendRow(table.Row{
						o.Position,
						o.Title,
						o.Category,
						fmt.Sprintf("%d%%", o.Progress),
						fmt.Sprintf("%d/%d", done, len(o.Tasks)),
					})
				}
				tw.Render()
				fmt.Printf("Week progress: %d%% (%d/%d tasks)\n",
					view.Stats.GlobalProgress, view.Stats.CompletedTasks, view.Stats.TotalTasks)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "week id (defaults to the current week)")
	cmd.Flags().StringVar(&date, "date", "", "any date inside the week (YYYY-MM-DD)")
	cmd.Flags().StringVar(&members, "members", "", "comma-separated member ids to filter by assignee")
	return cmd
}

func objectiveCmd() *cobra.Command {
	obj := &cobra.Command{Use: "objective", Short: "Manage weekly objectives"}
	obj.AddCommand(objectiveAddCmd())
	obj.AddCommand(objectiveListCmd())
	obj.AddCommand(objectiveUpdateCmd())
	obj.AddCommand(objectiveDeleteCmd())
	obj.AddCommand(objectiveMoveCmd())
	obj.AddCommand(objectiveCompactCmd())
	obj.AddCommand(objectiveFlagCmd())
	obj.AddCommand(objectiveCloneCmd())
	return obj
}

func objectiveAddCmd() *cobra.Command {
	var weekID, title, targetDate string
	var urgent, important bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an objective to a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.ObjectiveCreateOptions{
					ProductID:   e.Config.Product.ID,
					WeekID:      weekID,
					Title:       title,
					IsUrgent:    urgent,
					IsImportant: important,
					ActorID:     viper.GetString("actor-id"),
				}
				if weekID == "" {
					opts.Date = time.Now()
				}
				if targetDate != "" {
					d, err := time.ParseInLocation("2006-01-02", targetDate, time.Local)
					if err != nil {
						return fmt.Errorf("invalid target date %q (want YYYY-MM-DD)", targetDate)
					}
					opts.TargetDate = &d
				}
				o, err := e.CreateObjective(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(o)
			})
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "week id (defaults to the current week)")
	cmd.Flags().StringVar(&title, "title", "", "objective title")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "mark urgent")
	cmd.Flags().BoolVar(&important, "important", false, "mark important")
	cmd.Flags().StringVar(&targetDate, "target", "", "target date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func objectiveListCmd() *cobra.Command {
	var weekID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a week's objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				id, err := currentWeekID(ctx, e, weekID)
				if err != nil {
					return err
				}
				items, err := e.Store.ListObjectives(ctx, e.Config.Product.ID, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "week id (defaults to the current week)")
	return cmd
}

func objectiveUpdateCmd() *cobra.Command {
	var title, targetDate string
	var urgent, important, clearTarget bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.ObjectiveUpdateOptions{
					ID:      args[0],
					ActorID: viper.GetString("actor-id"),
				}
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if cmd.Flags().Changed("urgent") {
					opts.IsUrgent = &urgent
				}
				if cmd.Flags().Changed("important") {
					opts.IsImportant = &important
				}
				if clearTarget {
					opts.TargetDateProvided = true
				} else if targetDate != "" {
					d, err := time.ParseInLocation("2006-01-02", targetDate, time.Local)
					if err != nil {
						return fmt.Errorf("invalid target date %q (want YYYY-MM-DD)", targetDate)
					}
					opts.TargetDateProvided = true
					opts.TargetDate = &d
				}
				o, err := e.UpdateObjective(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(o)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "objective title")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "mark urgent")
	cmd.Flags().BoolVar(&important, "important", false, "mark important")
	cmd.Flags().StringVar(&targetDate, "target", "", "target date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearTarget, "clear-target", false, "remove the target date")
	return cmd
}

func objectiveDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an objective and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteObjective(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
	return cmd
}

func objectiveMoveCmd() *cobra.Command {
	var weekID string
	var from, to int
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move an objective to a new position within its week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				id, err := currentWeekID(ctx, e, weekID)
				if err != nil {
					return err
				}
				items, err := e.ReorderObjectives(ctx, e.Config.Product.ID, id, from, to, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "week id (defaults to the current week)")
	cmd.Flags().IntVar(&from, "from", 0, "current index")
	cmd.Flags().IntVar(&to, "to", 0, "destination index")
	return cmd
}

func objectiveCompactCmd() *cobra.Command {
	var weekID string
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Renumber a week's objective positions to 0..N-1",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				id, err := currentWeekID(ctx, e, weekID)
				if err != nil {
					return err
				}
				items, err := e.CompactObjectives(ctx, e.Config.Product.ID, id, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "week id (defaults to the current week)")
	return cmd
}

func objectiveFlagCmd() *cobra.Command {
	var note string
	var clear bool
	cmd := &cobra.Command{
		Use:   "flag <id>",
		Short: "Flag an objective for attention",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				o, err := e.FlagObjective(ctx, args[0], !clear, note, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(o)
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "flag note")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the flag instead")
	return cmd
}

func objectiveCloneCmd() *cobra.Command {
	var fromWeek, toWeek string
	var ids []string
	cmd := &cobra.Command{
		Use:   "clone",
		Short: "Clone objectives into another week",
		Long:  "Copies objectives and their tasks under fresh ids, appended at the end of the target week. Completion resets.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if toWeek == "" {
				return fmt.Errorf("--to required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				src, err := currentWeekID(ctx, e, fromWeek)
				if err != nil {
					return err
				}
				cloned, err := e.CloneObjectives(ctx, e.Config.Product.ID, src, toWeek, ids, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(cloned)
			})
		},
	}
	cmd.Flags().StringVar(&fromWeek, "from", "", "source week id (defaults to the current week)")
	cmd.Flags().StringVar(&toWeek, "to", "", "target week id")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "objective ids (repeatable; whole week when omitted)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func taskCmd() *cobra.Command {
	tsk := &cobra.Command{Use: "task", Short: "Manage tasks"}
	tsk.AddCommand(taskAddCmd())
	tsk.AddCommand(taskListCmd())
	tsk.AddCommand(taskUpdateCmd())
	tsk.AddCommand(taskToggleCmd())
	tsk.AddCommand(taskDeleteCmd())
	tsk.AddCommand(taskMoveCmd())
	tsk.AddCommand(taskCompactCmd())
	return tsk
}

func taskAddCmd() *cobra.Command {
	var objectiveID, title, assignee, complexity, criticality string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to an objective",
		RunE: func(cmd *cobra.Command, args []string) error {
			if objectiveID == "" || title == "" {
				return fmt.Errorf("--objective and --title required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.CreateTask(ctx, engine.TaskCreateOptions{
					ObjectiveID: objectiveID,
					Title:       title,
					Assignee:    assignee,
					Complexity:  complexity,
					Criticality: criticality,
					ActorID:     viper.GetString("actor-id"),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&objectiveID, "objective", "", "objective id")
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&assignee, "assignee", "", "member id")
	cmd.Flags().StringVar(&complexity, "complexity", "", "low, medium, high or critical")
	cmd.Flags().StringVar(&criticality, "criticality", "", "low, medium, high or critical")
	_ = cmd.MarkFlagRequired("objective")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskListCmd() *cobra.Command {
	var objectiveID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an objective's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if objectiveID == "" {
				return fmt.Errorf("--objective required")
			}
			return withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				items, err := st.ListTasks(ctx, objectiveID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"#", "Title", "Assignee", "Done"})
				for _, t := range items {
					assignee := ""
					if t.Assignee != nil {
						assignee = *t.Assignee
					}
					done := ""
					if t.Completed {
						done = "x"
					}
					tw.AppendRow(table.Row{t.Position, t.Title, assignee, done})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&objectiveID, "objective", "", "objective id")
	_ = cmd.MarkFlagRequired("objective")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, assignee, complexity, criticality string
	var clearAssignee bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.TaskUpdateOptions{
					ID:      args[0],
					ActorID: viper.GetString("actor-id"),
				}
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if clearAssignee {
					opts.AssigneeProvided = true
				} else if cmd.Flags().Changed("assignee") {
					opts.AssigneeProvided = true
					opts.Assignee = &assignee
				}
				if cmd.Flags().Changed("complexity") {
					opts.Complexity = &complexity
				}
				if cmd.Flags().Changed("criticality") {
					opts.Criticality = &criticality
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
	cmd.Flags().StringVar(&assignee, "assignee", "", "member id")
	cmd.Flags().BoolVar(&clearAssignee, "clear-assignee", false, "remove the assignee")
	cmd.Flags().StringVar(&complexity, "complexity", "", "low, medium, high or critical")
	cmd.Flags().StringVar(&criticality, "criticality", "", "low, medium, high or critical")
	return cmd
}

func taskToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle task completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.ToggleTask(ctx, args[0], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.DeleteTask(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
	return cmd
}

func taskMoveCmd() *cobra.Command {
	var objectiveID string
	var from, to int
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a task to a new position within its objective",
		RunE: func(cmd *cobra.Command, args []string) error {
			if objectiveID == "" {
				return fmt.Errorf("--objective required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.ReorderTasks(ctx, objectiveID, from, to, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	cmd.Flags().StringVar(&objectiveID, "objective", "", "objective id")
	cmd.Flags().IntVar(&from, "from", 0, "current index")
	cmd.Flags().IntVar(&to, "to", 0, "destination index")
	_ = cmd.MarkFlagRequired("objective")
	return cmd
}

func taskCompactCmd() *cobra.Command {
	var objectiveID string
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Renumber an objective's task positions to 0..N-1",
		RunE: func(cmd *cobra.Command, args []string) error {
			if objectiveID == "" {
				return fmt.Errorf("--objective required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.CompactTasks(ctx, objectiveID, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	cmd.Flags().StringVar(&objectiveID, "objective", "", "objective id")
	_ = cmd.MarkFlagRequired("objective")
	return cmd
}

func statsCmd() *cobra.Command {
	var weekID, members string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the weekly rollup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				id, err := currentWeekID(ctx, e, weekID)
				if err != nil {
					return err
				}
				s, err := e.Statistics(ctx, e.Config.Product.ID, id, stats.ParseMemberFilter(members))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				fmt.Printf("Objectives: %d\n", s.TotalObjectives)
				fmt.Printf("Tasks: %d/%d done (%d%%)\n", s.CompletedTasks, s.TotalTasks, s.GlobalProgress)
				for id, m := range s.MemberStats {
					fmt.Printf("  %s: %d/%d\n", id, m.Completed, m.Total)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "week id (defaults to the current week)")
	cmd.Flags().StringVar(&members, "members", "", "comma-separated member ids")
	return cmd
}

func shareCmd() *cobra.Command {
	var weekID string
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Issue a read-only share link for a week plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				signer, err := signerFromConfig(e.Config)
				if err != nil {
					return err
				}
				id, err := currentWeekID(ctx, e, weekID)
				if err != nil {
					return err
				}
				slug := ""
				if w, err := e.ResolveWeek(ctx, week.Target{ID: id}); err == nil && w != nil {
					slug = week.FormatSlug(*w)
				}
				token, err := signer.Issue(e.Config.Product.ID, id, slug)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]string{
					"token":      token,
					"slug":       slug,
					"url":        "/share/" + token,
					"expires_at": signer.Expiry().UTC().Format(time.RFC3339),
				})
			})
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "week id (defaults to the current week)")
	return cmd
}

func logCmd() *cobra.Command {
	lg := &cobra.Command{Use: "log", Short: "Inspect the event log"}
	lg.AddCommand(logTailCmd())
	return lg
}

func logTailCmd() *cobra.Command {
	var n int
	var evtType string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				events, err := e.Store.ListEvents(ctx, store.EventFilters{
					ProductID: e.Config.Product.ID,
					Type:      evtType,
					Limit:     n,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage workspace config"}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show workspace config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate workspace config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			st, closeStore, err := app.OpenStore(workspace, viper.GetBool("demo"))
			if err != nil {
				return err
			}
			defer closeStore()
			_, cfg, err := app.ResolveProductAndConfig(cmd.Context(), workspace, viper.GetString("product"), viper.GetString("actor-id"), st)
			if err != nil {
				return err
			}
			e := engine.New(st, cfg)
			signer, err := signerFromConfig(cfg)
			if err != nil {
				return err
			}
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}
			handler, err := server.New(server.Config{Engine: e, Share: signer, BasePath: basePath})
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
			fmt.Printf("Serving Weekplan API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (defaults to config)")
	return cmd
}

// --- helpers ---

func withStore(ctx context.Context, fn func(context.Context, store.Store) error) error {
	st, closeStore, err := app.OpenStore(viper.GetString("workspace"), viper.GetBool("demo"))
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, st)
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	st, closeStore, err := app.OpenStore(workspace, viper.GetBool("demo"))
	if err != nil {
		return err
	}
	defer closeStore()
	_, cfg, err := app.ResolveProductAndConfig(ctx, workspace, viper.GetString("product"), viper.GetString("actor-id"), st)
	if err != nil {
		return err
	}
	return fn(ctx, engine.New(st, cfg))
}

// withEngineNoResolve skips product resolution, for commands that create the
// first product or operate across products.
func withEngineNoResolve(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	st, closeStore, err := app.OpenStore(workspace, viper.GetBool("demo"))
	if err != nil {
		return err
	}
	defer closeStore()
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	return fn(ctx, engine.New(st, cfg))
}

// currentWeekID resolves the flag value or falls back to today's week.
func currentWeekID(ctx context.Context, e engine.Engine, weekID string) (string, error) {
	if weekID != "" {
		return weekID, nil
	}
	if w, err := e.ResolveWeek(ctx, week.Target{Date: time.Now()}); err == nil && w != nil {
		return w.ID, nil
	}
	return week.IDOf(time.Now())
}

func signerFromConfig(cfg *config.Config) (share.Signer, error) {
	secret := ""
	ttl := time.Duration(0)
	if cfg != nil {
		secret = cfg.Share.Secret
		ttl = time.Duration(cfg.Share.TTLHours) * time.Hour
	}
	if secret == "" {
		secret = os.Getenv("WEEKPLAN_SHARE_SECRET")
	}
	if secret == "" {
		return share.Signer{}, fmt.Errorf("share secret not configured; set share.secret in weekplan.yml or WEEKPLAN_SHARE_SECRET")
	}
	return share.Signer{Secret: []byte(secret), TTL: ttl}, nil
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
