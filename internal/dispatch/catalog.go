package dispatch

const (
	ToolCreateSpace        = "create_space"
	ToolGetUserSpaces      = "get_user_spaces"
	ToolGetSpaceInfo       = "get_space_info"
	ToolGetBoard           = "get_board"
	ToolCreateBacklogItem  = "create_backlog_item"
	ToolGetBacklog         = "get_backlog"
	ToolUpdateBacklogItem  = "update_backlog_item"
	ToolCreateTask         = "create_task"
	ToolMoveTask           = "move_task"
	ToolAssignTask         = "assign_task"
	ToolCreateColumn       = "create_column"
	ToolGetColumnTasks     = "get_column_tasks"
	ToolCreateSprint       = "create_sprint"
	ToolAddToSprintBacklog = "add_to_sprint_backlog"
	ToolGetSprintBacklog   = "get_sprint_backlog"
	ToolStartSprint        = "start_sprint"
	ToolCompleteSprint     = "complete_sprint"
)

type ParamKind string

const (
	KindString ParamKind = "string"
	KindNumber ParamKind = "number"
)

// Param describes one tool argument.
type Param struct {
	Name        string    `json:"name"`
	Kind        ParamKind `json:"kind"`
	Required    bool      `json:"required"`
	Description string    `json:"description"`

	// ExplicitOnly params are never filled from a context header or session.
	ExplicitOnly bool `json:"explicit_only,omitempty"`
}

// ToolSpec describes a tool for the transports that expose it.
type ToolSpec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}

// Accepts reports whether the tool declares an argument called name.
func (t ToolSpec) Accepts(name string) bool {
	for _, p := range t.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// FillsFromContext reports whether a missing name argument may be taken from
// the caller's context values.
func (t ToolSpec) FillsFromContext(name string) bool {
	for _, p := range t.Params {
		if p.Name == name {
			return !p.ExplicitOnly
		}
	}
	return false
}

func str(name, desc string) Param {
	return Param{Name: name, Kind: KindString, Description: desc}
}

func num(name, desc string) Param {
	return Param{Name: name, Kind: KindNumber, Description: desc}
}

func req(p Param) Param {
	p.Required = true
	return p
}

func explicitOnly(p Param) Param {
	p.ExplicitOnly = true
	return p
}

func spaceParam() Param {
	return req(str("space_id", "Workspace ID"))
}

func sprintParam() Param {
	return req(str("sprint_id", "Sprint ID"))
}

func dateParam(name string) Param {
	return req(str(name, "Date as YYYY-MM-DD"))
}

func assigneeParam(desc string) Param {
	return str("assignee_id", desc)
}

var catalog = []ToolSpec{
	{
		Name:        ToolCreateSpace,
		Description: "Create a workspace with a KANBAN or SCRUM methodology.",
		Params: []Param{
			req(str("name", "Workspace name")),
			req(str("owner_id", "User ID of the owner")),
			str("methodology", "KANBAN (default) or SCRUM"),
		},
	},
	{
		Name:        ToolGetUserSpaces,
		Description: "List the workspaces a user owns or belongs to.",
		Params:      []Param{req(str("user_id", "User ID"))},
	},
	{
		Name:        ToolGetSpaceInfo,
		Description: "Show a workspace's methodology, owner, member count and active sprint.",
		Params:      []Param{spaceParam()},
	},
	{
		Name:        ToolGetBoard,
		Description: "Show the board: Kanban columns, the active sprint board, or the product backlog when no sprint is active.",
		Params:      []Param{spaceParam()},
	},
	{
		Name:        ToolCreateBacklogItem,
		Description: "Add a user story to the product backlog.",
		Params: []Param{
			spaceParam(),
			req(str("title", "Item title")),
			str("created_by_id", "Creator user ID (defaults to the workspace owner)"),
			str("description", "Item description"),
			assigneeParam("Assignee user ID"),
		},
	},
	{
		Name:        ToolGetBacklog,
		Description: "List the product backlog.",
		Params:      []Param{spaceParam()},
	},
	{
		Name:        ToolUpdateBacklogItem,
		Description: "Update a backlog item. An empty description or assignee clears it.",
		Params: []Param{
			req(str("item_id", "Backlog item ID")),
			str("title", "New title"),
			str("description", "New description"),
			assigneeParam("New assignee user ID"),
			num("position", "New backlog position"),
		},
	},
	{
		Name:        ToolCreateTask,
		Description: "Create a task for a backlog item (by #N or ID) and place it in the first column.",
		Params: []Param{
			spaceParam(),
			num("sequence_number", "Backlog item number, as in #N"),
			str("backlog_item_id", "Backlog item ID"),
			str("sprint_backlog_item_id", "Sprint backlog item ID"),
			assigneeParam("Assignee user ID"),
		},
	},
	{
		Name:        ToolMoveTask,
		Description: "Move a task to a column.",
		Params: []Param{
			req(str("task_id", "Task ID")),
			req(str("column_id", "Target column ID")),
			num("position", "Position inside the column (default 0)"),
		},
	},
	{
		Name:        ToolAssignTask,
		Description: "Assign a task to a user.",
		Params: []Param{
			req(str("task_id", "Task ID")),
			req(assigneeParam("Assignee user ID")),
		},
	},
	{
		Name:        ToolCreateColumn,
		Description: "Create a board column, on the workspace board or on a sprint board.",
		Params: []Param{
			spaceParam(),
			req(str("name", "Column name")),
			num("position", "Column position (default 0)"),
			num("wip_limit", "Work-in-progress limit"),
			explicitOnly(str("sprint_id", "Sprint ID for a sprint board column; never taken from context")),
		},
	},
	{
		Name:        ToolGetColumnTasks,
		Description: "List the tasks in a column.",
		Params:      []Param{req(str("column_id", "Column ID"))},
	},
	{
		Name:        ToolCreateSprint,
		Description: "Plan a sprint.",
		Params: []Param{
			spaceParam(),
			req(str("name", "Sprint name")),
			dateParam("start_date"),
			dateParam("end_date"),
			str("goal", "Sprint goal"),
		},
	},
	{
		Name:        ToolAddToSprintBacklog,
		Description: "Pull a backlog item into a sprint.",
		Params: []Param{
			sprintParam(),
			req(str("backlog_item_id", "Backlog item ID")),
			num("story_points", "Story point estimate"),
			num("position", "Position in the sprint backlog"),
		},
	},
	{
		Name:        ToolGetSprintBacklog,
		Description: "List a sprint's backlog with story points.",
		Params:      []Param{sprintParam()},
	},
	{
		Name:        ToolStartSprint,
		Description: "Start a sprint.",
		Params:      []Param{sprintParam()},
	},
	{
		Name:        ToolCompleteSprint,
		Description: "Complete a sprint.",
		Params:      []Param{sprintParam()},
	},
}

var catalogIndex = func() map[string]ToolSpec {
	m := make(map[string]ToolSpec, len(catalog))
	for _, t := range catalog {
		m[t.Name] = t
	}
	return m
}()

// Catalog returns every tool in a stable order.
func Catalog() []ToolSpec {
	out := make([]ToolSpec, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the tool called name.
func Lookup(name string) (ToolSpec, bool) {
	t, ok := catalogIndex[name]
	return t, ok
}
