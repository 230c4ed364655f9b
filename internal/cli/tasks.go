package cli

import (
	"strconv"

	"taskflow-cli/internal/filter"
	"taskflow-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksGetCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	return cmd
}

func parseTaskID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errInvalidID("task", raw)
	}
	return id, nil
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		status     string
		priorities []string
		tagIDs     []int
		search     string
		sortBy     string
		sortOrder  string
		page       int
		perPage    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (server-side filtering and sorting)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}

			// The filter state produces the same canonical parameter
			// set the TUI dashboard uses.
			st := filter.NewState()
			parsed, err := filter.ParseStatus(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			st.SetStatus(parsed)
			for _, raw := range priorities {
				p, err := model.ParsePriority(raw)
				if err != nil {
					return writeErr(cmd, err)
				}
				if !hasPriority(st, p) {
					st.TogglePriority(p)
				}
			}
			for _, id := range tagIDs {
				if !st.HasTag(id) {
					st.ToggleTag(id)
				}
			}
			st.SetSearch(search)
			field, err := model.ParseSortField(sortBy)
			if err != nil {
				return writeErr(cmd, err)
			}
			order, err := model.ParseSortOrder(sortOrder)
			if err != nil {
				return writeErr(cmd, err)
			}
			st.SetSort(field, order)

			params := st.Params()
			if page > 0 {
				params.Set("page", strconv.Itoa(page))
			}
			if perPage > 0 {
				params.Set("per_page", strconv.Itoa(perPage))
			}

			result, err := client.ListTasks(cmd.Context(), params)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": result})
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "Status filter (all|active|completed)")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "Priority filter, repeatable (high|medium|low)")
	cmd.Flags().IntSliceVar(&tagIDs, "tag", nil, "Tag id filter, repeatable")
	cmd.Flags().StringVar(&search, "search", "", "Free-text search over title and description")
	cmd.Flags().StringVar(&sortBy, "sort", string(model.SortCreatedAt), "Sort field (created_at|updated_at|title|priority)")
	cmd.Flags().StringVar(&sortOrder, "order", string(model.SortDesc), "Sort order (asc|desc)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (server default: 1)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Page size (server default: 20, max 100)")
	return cmd
}

func hasPriority(st *filter.State, p model.Priority) bool {
	for _, sel := range st.Priorities() {
		if sel == p {
			return true
		}
	}
	return false
}

func newTasksGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := client.GetTask(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}
}

func newTasksAddCmd(app *App) *cobra.Command {
	var (
		title       string
		description string
		priority    string
		tagIDs      []int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := model.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			in := model.TaskCreate{
				Title:       title,
				Description: description,
				Priority:    p,
				TagIDs:      tagIDs,
			}
			if err := in.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			task, err := client.CreateTask(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title (required, max 200 chars)")
	cmd.Flags().StringVar(&description, "description", "", "Task description (max 1000 chars)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "Priority (high|medium|low)")
	cmd.Flags().IntSliceVar(&tagIDs, "tag", nil, "Tag id to attach, repeatable")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var (
		title       string
		description string
		priority    string
		completed   bool
		tagIDs      []int
	)

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update fields of a task (only the flags you set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			var in model.TaskUpdate
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				in.Priority = &p
			}
			if cmd.Flags().Changed("completed") {
				in.Completed = &completed
			}
			if cmd.Flags().Changed("tag") {
				in.TagIDs = tagIDs
			}
			if err := in.Validate(); err != nil {
				return writeErr(cmd, err)
			}

			task, err := client.UpdateTask(cmd.Context(), id, in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority (high|medium|low)")
	cmd.Flags().BoolVar(&completed, "completed", false, "Set completion state")
	cmd.Flags().IntSliceVar(&tagIDs, "tag", nil, "Replace tag set with these ids, repeatable")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := client.ToggleComplete(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}
}

func newTasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := app.connect()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteTask(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}
