// Package chatctx reads and writes the [CONTEXT: ...] header that chat
// clients prepend to a message so tools can pick up the caller's workspace,
// user and sprint without asking for them.
package chatctx

import (
	"regexp"
	"strings"
)

const (
	KeySpaceID  = "space_id"
	KeyUserID   = "user_id"
	KeySprintID = "sprint_id"
)

var (
	headerRe = regexp.MustCompile(`^\s*\[CONTEXT:\s*([^\]]*)\]\s*`)
	pairRe   = regexp.MustCompile(`(\w+)\s*=\s*(?:'([^']*)'|"([^"]*)")`)
)

// Values holds the identifiers carried by a context header. Empty strings
// mean "not provided".
type Values struct {
	SpaceID  string `json:"space_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	SprintID string `json:"sprint_id,omitempty"`
}

func (v Values) IsEmpty() bool {
	return v.SpaceID == "" && v.UserID == "" && v.SprintID == ""
}

// Map returns the non-empty values keyed by argument name.
func (v Values) Map() map[string]string {
	out := make(map[string]string, 3)
	if v.SpaceID != "" {
		out[KeySpaceID] = v.SpaceID
	}
	if v.UserID != "" {
		out[KeyUserID] = v.UserID
	}
	if v.SprintID != "" {
		out[KeySprintID] = v.SprintID
	}
	return out
}

// Parse strips a leading context header from message. Without a header it
// returns empty Values and the message untouched.
func Parse(message string) (Values, string) {
	m := headerRe.FindStringSubmatchIndex(message)
	if m == nil {
		return Values{}, message
	}
	var v Values
	for _, pair := range pairRe.FindAllStringSubmatch(message[m[2]:m[3]], -1) {
		val := pair[2]
		if val == "" {
			val = pair[3]
		}
		switch pair[1] {
		case KeySpaceID:
			v.SpaceID = val
		case KeyUserID:
			v.UserID = val
		case KeySprintID:
			v.SprintID = val
		}
	}
	return v, message[m[1]:]
}

// Format prepends a context header to message. Keys are written in a fixed
// order and empty values are left out; with no values the message is
// returned as is.
func Format(v Values, message string) string {
	var parts []string
	if v.SpaceID != "" {
		parts = append(parts, KeySpaceID+"='"+v.SpaceID+"'")
	}
	if v.UserID != "" {
		parts = append(parts, KeyUserID+"='"+v.UserID+"'")
	}
	if v.SprintID != "" {
		parts = append(parts, KeySprintID+"='"+v.SprintID+"'")
	}
	if len(parts) == 0 {
		return message
	}
	return "[CONTEXT: " + strings.Join(parts, ", ") + "]\n\n" + message
}

// userAliases are the argument names a context user id may stand in for.
var userAliases = []string{KeyUserID, "created_by_id", "owner_id"}

// Merge fills arguments the tool accepts but the caller left out. accepted
// reports whether the tool takes that parameter from context. Explicit
// arguments always win. The returned map is a copy; args is not modified.
func (v Values) Merge(args map[string]any, accepted func(name string) bool) map[string]any {
	out := make(map[string]any, len(args)+3)
	for k, val := range args {
		out[k] = val
	}
	fill := func(name, val string) {
		if val == "" || !accepted(name) {
			return
		}
		if cur, ok := out[name]; ok && !blank(cur) {
			return
		}
		out[name] = val
	}
	fill(KeySpaceID, v.SpaceID)
	fill(KeySprintID, v.SprintID)
	for _, name := range userAliases {
		fill(name, v.UserID)
	}
	return out
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
