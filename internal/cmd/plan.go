package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskplan/internal/decompose"
	"github.com/felixgeelhaar/taskplan/internal/errors"
	"github.com/felixgeelhaar/taskplan/internal/plan"
	"github.com/felixgeelhaar/taskplan/internal/provider"
	"github.com/felixgeelhaar/taskplan/internal/store"
	"github.com/felixgeelhaar/taskplan/internal/tui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Create, inspect, and manage task plans",
}

var planCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a plan from a goal or a local task file",
	Long: `Generate a task plan.

With --goal, the goal is decomposed into tasks by the configured LLM
provider. Without --goal, an interactive wizard collects the goal when
running in a terminal.

With --from, tasks are read from a local YAML or JSON file and no
provider call is made.

Examples:
  # Decompose a goal with the configured provider
  taskplan plan create --goal "Launch the marketing site" --deadline 2026-10-01

  # Build a plan from a local task file
  taskplan plan create --from tasks.yaml

  # Review the plan interactively before saving
  taskplan plan create --goal "Ship the beta" --review`,
	RunE: runPlanCreate,
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan-id|file>",
	Short: "Show a saved plan or a plan file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanShow,
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plans, newest first",
	RunE:  runPlanList,
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanDelete,
}

var planValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a local task file without saving anything",
	Long: `Validate the dependency structure of a local YAML or JSON task file.

Reports duplicate ids, dangling or self dependencies, cycles, and
invalid durations. On success prints the computed critical path.`,
	RunE: runPlanValidate,
}

var planReviewCmd = &cobra.Command{
	Use:   "review <plan-id|file>",
	Short: "Review a saved plan or a plan file interactively",
	Long: `Open an interactive review of a plan. Rejecting a stored plan
deletes it from the store; rejecting a plan file leaves the file alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanReview,
}

var (
	planGoal     string
	planDeadline string
	planFrom     string
	planOutput   string
	planProvider string
	planReview   bool
	planNoSave   bool
	planJSON     bool
)

func init() {
	planCreateCmd.Flags().StringVar(&planGoal, "goal", "", "goal to decompose into tasks")
	planCreateCmd.Flags().StringVar(&planDeadline, "deadline", "", "optional deadline hint passed to the provider")
	planCreateCmd.Flags().StringVar(&planFrom, "from", "", "build the plan from a YAML or JSON task file instead of calling a provider")
	planCreateCmd.Flags().StringVarP(&planOutput, "output", "o", "", "also write the plan to this file as JSON")
	planCreateCmd.Flags().StringVar(&planProvider, "provider", "", "override the configured provider (groq, openai, ollama)")
	planCreateCmd.Flags().BoolVar(&planReview, "review", false, "review the plan interactively before saving")
	planCreateCmd.Flags().BoolVar(&planNoSave, "no-save", false, "do not persist the plan to the store")

	planShowCmd.Flags().BoolVar(&planJSON, "json", false, "output the plan as JSON")

	planValidateCmd.Flags().StringVar(&planFrom, "from", "", "task file to validate")
	_ = planValidateCmd.MarkFlagRequired("from")

	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planDeleteCmd)
	planCmd.AddCommand(planValidateCmd)
	planCmd.AddCommand(planReviewCmd)

	rootCmd.AddCommand(planCmd)
}

func runPlanCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	var p *plan.Plan

	if planFrom != "" {
		goal, deadline, raw, err := plan.LoadRawTasks(planFrom)
		if err != nil {
			return err
		}
		if planGoal != "" {
			goal = planGoal
		}
		if planDeadline != "" {
			deadline = planDeadline
		}
		p, err = plan.Build(goal, deadline, raw)
		if err != nil {
			return describeValidationError(cmd, err)
		}
	} else {
		goal := strings.TrimSpace(planGoal)
		deadline := planDeadline

		if goal == "" {
			if !tui.ShouldPrompt() {
				return fmt.Errorf("missing argument: --goal is required when not running interactively")
			}
			in, err := tui.RunGoalWizard(cfg.Provider.Name)
			if err != nil {
				return err
			}
			goal = in.Goal
			deadline = in.Deadline
			cfg.Provider.Name = in.Provider
		}

		if planProvider != "" {
			cfg.Provider.Name = planProvider
		}

		client, err := provider.New(&cfg.Provider)
		if err != nil {
			return err
		}
		defer client.Close()

		d := decompose.New(client, decompose.WithLogger(logger))
		raw, err := d.Decompose(ctx, goal, deadline)
		if err != nil {
			return err
		}

		p, err = plan.Build(goal, deadline, raw)
		if err != nil {
			return describeValidationError(cmd, err)
		}
	}

	if planReview {
		result, err := tui.RunPlanReview(p)
		if err != nil {
			return err
		}
		if !result.Approved {
			cmd.Printf("Plan rejected: %s\n", result.Reason)
			return nil
		}
	}

	if planOutput != "" {
		if err := plan.SavePlan(p, planOutput); err != nil {
			return err
		}
		cmd.Printf("Plan written to %s\n", planOutput)
	}

	if !planNoSave {
		st := store.NewFileStore(cfg.Store.Dir)
		id, err := st.Save(ctx, p)
		if err != nil {
			return err
		}
		cmd.Printf("Plan saved: %s\n", id)
	}

	printPlan(cmd, p)
	return nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, rec, err := resolvePlan(cmd, cfg.Store.Dir, args[0])
	if err != nil {
		return err
	}

	if planJSON {
		var out any = p
		if rec != nil {
			out = rec
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if rec != nil {
		cmd.Printf("Plan %s (created %s)\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"))
	}
	printPlan(cmd, p)
	return nil
}

// resolvePlan loads a plan from a file path when the argument names an
// existing file, otherwise from the store. The record is nil for files.
func resolvePlan(cmd *cobra.Command, dir, arg string) (*plan.Plan, *store.Record, error) {
	if _, err := os.Stat(arg); err == nil {
		p, err := plan.LoadPlan(arg)
		return p, nil, err
	}

	st := store.NewFileStore(dir)
	rec, err := st.Load(cmd.Context(), store.PlanID(arg))
	if err != nil {
		return nil, nil, err
	}
	return rec.Plan, rec, nil
}

func runPlanList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := store.NewFileStore(cfg.Store.Dir)
	summaries, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		cmd.Println("No saved plans.")
		return nil
	}

	for _, s := range summaries {
		goal := s.Goal
		if len(goal) > 50 {
			goal = goal[:47] + "..."
		}
		cmd.Printf("%s  %-50s  %2d tasks  %5.1fd  %s\n",
			s.ID, goal, s.TaskCount, s.TotalDuration, s.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runPlanDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := store.NewFileStore(cfg.Store.Dir)
	if err := st.Delete(cmd.Context(), store.PlanID(args[0])); err != nil {
		return err
	}

	cmd.Printf("Plan deleted: %s\n", args[0])
	return nil
}

func runPlanValidate(cmd *cobra.Command, args []string) error {
	goal, deadline, raw, err := plan.LoadRawTasks(planFrom)
	if err != nil {
		return err
	}

	p, err := plan.Build(goal, deadline, raw)
	if err != nil {
		return describeValidationError(cmd, err)
	}

	cmd.Printf("OK: %d tasks, critical path %s (%.1fd)\n",
		len(p.Tasks), joinPath(p), p.TotalDuration)
	return nil
}

func runPlanReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, rec, err := resolvePlan(cmd, cfg.Store.Dir, args[0])
	if err != nil {
		return err
	}

	result, err := tui.RunPlanReview(p)
	if err != nil {
		return err
	}

	if result.Approved {
		cmd.Println("Plan approved.")
		return nil
	}

	cmd.Printf("Plan rejected: %s\n", result.Reason)
	if rec != nil {
		st := store.NewFileStore(cfg.Store.Dir)
		if err := st.Delete(cmd.Context(), rec.ID); err != nil {
			return err
		}
		cmd.Printf("Plan deleted: %s\n", rec.ID)
	}
	return nil
}

// describeValidationError prints the structured detail of a validation
// failure before returning the error for exit code mapping.
func describeValidationError(cmd *cobra.Command, err error) error {
	perr, ok := errors.AsPlanError(err)
	if !ok || !perr.IsValidation() {
		return err
	}

	cmd.PrintErrf("Validation failed [%s]: %s\n", perr.Code, perr.Message)
	if len(perr.TaskIDs) > 0 {
		cmd.PrintErrf("  Tasks: %s\n", strings.Join(perr.TaskIDs, ", "))
	}
	for _, s := range perr.Suggestions {
		cmd.PrintErrf("  Hint: %s\n", s)
	}
	return err
}

func printPlan(cmd *cobra.Command, p *plan.Plan) {
	cmd.Printf("\nGoal: %s\n", p.Goal)
	if p.Deadline != "" {
		cmd.Printf("Deadline: %s\n", p.Deadline)
	}
	cmd.Printf("Tasks: %d | Critical path: %.1fd\n\n", len(p.Tasks), p.TotalDuration)

	// Phase order, not id order, reads better for humans.
	byPhase := map[string][]plan.Task{}
	for _, t := range p.Tasks {
		byPhase[string(t.Phase)] = append(byPhase[string(t.Phase)], t)
	}

	for _, phase := range []string{"planning", "execution", "review"} {
		tasks := byPhase[phase]
		if len(tasks) == 0 {
			continue
		}
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID.Less(tasks[j].ID) })

		cmd.Printf("%s:\n", strings.ToUpper(phase[:1])+phase[1:])
		for _, t := range tasks {
			marker := " "
			if t.OnCriticalPath {
				marker = "*"
			}
			line := fmt.Sprintf("  %s %-20s %-8s %5.1fd", marker, t.ID, t.Priority, t.Duration)
			if len(t.DependencyIDs) > 0 {
				deps := make([]string, len(t.DependencyIDs))
				for i, d := range t.DependencyIDs {
					deps[i] = string(d)
				}
				line += "  after: " + strings.Join(deps, ", ")
			}
			cmd.Println(line)
		}
	}

	cmd.Printf("\nCritical path: %s\n", joinPath(p))
}

func joinPath(p *plan.Plan) string {
	parts := make([]string, len(p.CriticalPath))
	for i, id := range p.CriticalPath {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}
