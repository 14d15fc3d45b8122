package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// ErrUnknownTool is returned by Parse for a name outside the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// ValidationError reports an argument that is missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// args reads typed values out of a raw argument map, keeping the first
// problem it meets so each parser can read every field and check once.
type args struct {
	raw map[string]any
	err *ValidationError
}

func (a *args) fail(e *ValidationError) {
	if a.err == nil {
		a.err = e
	}
}

// has reports whether the caller sent the key at all, null included.
func (a *args) has(name string) bool {
	_, ok := a.raw[name]
	return ok
}

// text returns the argument as a trimmed string. Numbers are accepted and
// formatted, since some clients send numeric ids.
func (a *args) text(name string) string {
	v, ok := a.raw[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	default:
		a.fail(invalidf(name, "%s must be a string", name))
		return ""
	}
}

func (a *args) required(name string) string {
	s := a.text(name)
	if s == "" {
		a.fail(invalidf(name, "%s is required", name))
	}
	return s
}

// optional returns nil for an absent or blank argument.
func (a *args) optional(name string) *string {
	s := a.text(name)
	if s == "" {
		return nil
	}
	return &s
}

// intValue accepts JSON numbers, Go ints and numeric strings.
func (a *args) intValue(name string) (int, bool) {
	v, ok := a.raw[name]
	if !ok || v == nil {
		return 0, false
	}
	var n int
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) {
			a.fail(invalidf(name, "%s must be a whole number", name))
			return 0, false
		}
		n = int(t)
	case int:
		n = t
	case int64:
		n = int(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			a.fail(invalidf(name, "%s must be a whole number", name))
			return 0, false
		}
		n = int(i)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			a.fail(invalidf(name, "%s must be a number, got %q", name, t))
			return 0, false
		}
		n = i
	default:
		a.fail(invalidf(name, "%s must be a number", name))
		return 0, false
	}
	return n, true
}

func (a *args) nonNegative(name string) (int, bool) {
	n, ok := a.intValue(name)
	if ok && n < 0 {
		a.fail(invalidf(name, "%s must not be negative", name))
		return 0, false
	}
	return n, ok
}

func (a *args) optionalInt(name string) *int {
	n, ok := a.nonNegative(name)
	if !ok {
		return nil
	}
	return &n
}

func (a *args) date(name string) time.Time {
	s := a.required(name)
	if s == "" {
		return time.Time{}
	}
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		a.fail(invalidf(name, "%s must be a date formatted YYYY-MM-DD, got %q", name, s))
	}
	return d
}

// Parse turns a tool name and its raw arguments into an Operation. Unknown
// argument keys are ignored.
func Parse(name string, raw map[string]any) (Operation, error) {
	parse, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	a := &args{raw: raw}
	op := parse(a)
	if a.err != nil {
		return nil, a.err
	}
	return op, nil
}

var parsers = map[string]func(*args) Operation{
	ToolCreateSpace:        parseCreateSpace,
	ToolGetUserSpaces:      func(a *args) Operation { return GetUserSpaces{UserID: a.required("user_id")} },
	ToolGetSpaceInfo:       func(a *args) Operation { return GetSpaceInfo{SpaceID: a.required("space_id")} },
	ToolGetBoard:           func(a *args) Operation { return GetBoard{SpaceID: a.required("space_id")} },
	ToolCreateBacklogItem:  parseCreateBacklogItem,
	ToolGetBacklog:         func(a *args) Operation { return GetBacklog{SpaceID: a.required("space_id")} },
	ToolUpdateBacklogItem:  parseUpdateBacklogItem,
	ToolCreateTask:         parseCreateTask,
	ToolMoveTask:           parseMoveTask,
	ToolAssignTask:         parseAssignTask,
	ToolCreateColumn:       parseCreateColumn,
	ToolGetColumnTasks:     func(a *args) Operation { return GetColumnTasks{ColumnID: a.required("column_id")} },
	ToolCreateSprint:       parseCreateSprint,
	ToolAddToSprintBacklog: parseAddToSprintBacklog,
	ToolGetSprintBacklog:   func(a *args) Operation { return GetSprintBacklog{SprintID: a.required("sprint_id")} },
	ToolStartSprint:        func(a *args) Operation { return StartSprint{SprintID: a.required("sprint_id")} },
	ToolCompleteSprint:     func(a *args) Operation { return CompleteSprint{SprintID: a.required("sprint_id")} },
}

func parseCreateSpace(a *args) Operation {
	op := CreateSpace{Name: a.required("name"), OwnerID: a.required("owner_id")}
	m, ok := domain.ParseMethodology(a.text("methodology"))
	if !ok {
		a.fail(invalidf("methodology", "methodology must be KANBAN or SCRUM, got %q", a.text("methodology")))
	}
	op.Methodology = m
	return op
}

func parseCreateBacklogItem(a *args) Operation {
	return CreateBacklogItem{
		SpaceID:     a.required("space_id"),
		Title:       a.required("title"),
		CreatedByID: a.text("created_by_id"),
		Description: a.optional("description"),
		AssigneeID:  a.optional("assignee_id"),
	}
}

// parseUpdateBacklogItem sets a patch field for every argument present. A
// blank description or assignee clears the column.
func parseUpdateBacklogItem(a *args) Operation {
	op := UpdateBacklogItem{ItemID: a.required("item_id")}
	if a.has("title") {
		title := a.text("title")
		if title == "" {
			a.fail(invalidf("title", "title cannot be empty"))
		}
		op.Patch.Title = domain.SetTo(title)
	}
	if a.has("description") {
		op.Patch.Description = domain.SetTo(a.optional("description"))
	}
	if a.has("assignee_id") {
		op.Patch.AssigneeID = domain.SetTo(a.optional("assignee_id"))
	}
	if n, ok := a.nonNegative("position"); ok {
		op.Patch.Position = domain.SetTo(n)
	}
	return op
}

func parseCreateTask(a *args) Operation {
	op := CreateTask{
		SpaceID:             a.required("space_id"),
		BacklogItemID:       a.text("backlog_item_id"),
		SprintBacklogItemID: a.text("sprint_backlog_item_id"),
		AssigneeID:          a.optional("assignee_id"),
	}
	if n, ok := a.intValue("sequence_number"); ok {
		if n <= 0 {
			a.fail(invalidf("sequence_number", "sequence_number must be positive"))
		}
		op.Sequence = n
	}
	if op.Sequence == 0 && op.BacklogItemID == "" && op.SprintBacklogItemID == "" {
		a.fail(invalidf("sequence_number", "sequence_number or backlog_item_id is required"))
	}
	return op
}

func parseMoveTask(a *args) Operation {
	op := MoveTask{TaskID: a.required("task_id"), ColumnID: a.required("column_id")}
	op.Position, _ = a.nonNegative("position")
	return op
}

func parseAssignTask(a *args) Operation {
	return AssignTask{TaskID: a.required("task_id"), AssigneeID: a.required("assignee_id")}
}

func parseCreateColumn(a *args) Operation {
	op := CreateColumn{
		SpaceID:  a.required("space_id"),
		Name:     a.required("name"),
		SprintID: a.text("sprint_id"),
		WIPLimit: a.optionalInt("wip_limit"),
	}
	op.Position, _ = a.nonNegative("position")
	return op
}

func parseCreateSprint(a *args) Operation {
	op := CreateSprint{
		SpaceID:   a.required("space_id"),
		Name:      a.required("name"),
		StartDate: a.date("start_date"),
		EndDate:   a.date("end_date"),
		Goal:      a.optional("goal"),
	}
	if a.err == nil && op.EndDate.Before(op.StartDate) {
		a.fail(invalidf("end_date", "end_date must not be before start_date"))
	}
	return op
}

func parseAddToSprintBacklog(a *args) Operation {
	op := AddToSprintBacklog{
		SprintID:      a.required("sprint_id"),
		BacklogItemID: a.required("backlog_item_id"),
		StoryPoints:   a.optionalInt("story_points"),
	}
	op.Position, _ = a.nonNegative("position")
	return op
}
