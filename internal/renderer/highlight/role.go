package highlight

// Role names what a piece of text is, so its color can be looked up in the
// user's palette.
type Role uint8

const (
	RoleNormal Role = iota
	RoleError
	RoleCommand
	RoleKeyword
	RoleStatementTerminator
	RoleParam
	RoleOption
	RoleComment
	RoleSearchMatch
	RoleOperator
	RoleEscape
	RoleQuote
	RoleRedirection
	RoleAutosuggestion
	RoleSelection

	RolePagerProgress
	RolePagerBackground
	RolePagerPrefix
	RolePagerCompletion
	RolePagerDescription
	RolePagerSecondaryBackground
	RolePagerSecondaryPrefix
	RolePagerSecondaryCompletion
	RolePagerSecondaryDescription
	RolePagerSelectedBackground
	RolePagerSelectedPrefix
	RolePagerSelectedCompletion
	RolePagerSelectedDescription

	roleCount
)

var roleVarNames = [roleCount]string{
	RoleNormal:                    "fish_color_normal",
	RoleError:                     "fish_color_error",
	RoleCommand:                   "fish_color_command",
	RoleKeyword:                   "fish_color_keyword",
	RoleStatementTerminator:       "fish_color_end",
	RoleParam:                     "fish_color_param",
	RoleOption:                    "fish_color_option",
	RoleComment:                   "fish_color_comment",
	RoleSearchMatch:               "fish_color_search_match",
	RoleOperator:                  "fish_color_operator",
	RoleEscape:                    "fish_color_escape",
	RoleQuote:                     "fish_color_quote",
	RoleRedirection:               "fish_color_redirection",
	RoleAutosuggestion:            "fish_color_autosuggestion",
	RoleSelection:                 "fish_color_selection",
	RolePagerProgress:             "fish_pager_color_progress",
	RolePagerBackground:           "fish_pager_color_background",
	RolePagerPrefix:               "fish_pager_color_prefix",
	RolePagerCompletion:           "fish_pager_color_completion",
	RolePagerDescription:          "fish_pager_color_description",
	RolePagerSecondaryBackground:  "fish_pager_color_secondary_background",
	RolePagerSecondaryPrefix:      "fish_pager_color_secondary_prefix",
	RolePagerSecondaryCompletion:  "fish_pager_color_secondary_completion",
	RolePagerSecondaryDescription: "fish_pager_color_secondary_description",
	RolePagerSelectedBackground:   "fish_pager_color_selected_background",
	RolePagerSelectedPrefix:       "fish_pager_color_selected_prefix",
	RolePagerSelectedCompletion:   "fish_pager_color_selected_completion",
	RolePagerSelectedDescription:  "fish_pager_color_selected_description",
}

// ValidPathVar holds the modifier applied to text that names an existing path.
const ValidPathVar = "fish_color_valid_path"

// VarName returns the palette variable that colors r.
func (r Role) VarName() string {
	if r >= roleCount {
		return roleVarNames[RoleNormal]
	}
	return roleVarNames[r]
}

// String returns the short role name.
func (r Role) String() string {
	switch r {
	case RoleNormal:
		return "normal"
	case RoleError:
		return "error"
	case RoleCommand:
		return "command"
	case RoleKeyword:
		return "keyword"
	case RoleStatementTerminator:
		return "statement_terminator"
	case RoleParam:
		return "param"
	case RoleOption:
		return "option"
	case RoleComment:
		return "comment"
	case RoleSearchMatch:
		return "search_match"
	case RoleOperator:
		return "operator"
	case RoleEscape:
		return "escape"
	case RoleQuote:
		return "quote"
	case RoleRedirection:
		return "redirection"
	case RoleAutosuggestion:
		return "autosuggestion"
	case RoleSelection:
		return "selection"
	case RolePagerProgress:
		return "pager_progress"
	case RolePagerBackground:
		return "pager_background"
	case RolePagerPrefix:
		return "pager_prefix"
	case RolePagerCompletion:
		return "pager_completion"
	case RolePagerDescription:
		return "pager_description"
	case RolePagerSecondaryBackground:
		return "pager_secondary_background"
	case RolePagerSecondaryPrefix:
		return "pager_secondary_prefix"
	case RolePagerSecondaryCompletion:
		return "pager_secondary_completion"
	case RolePagerSecondaryDescription:
		return "pager_secondary_description"
	case RolePagerSelectedBackground:
		return "pager_selected_background"
	case RolePagerSelectedPrefix:
		return "pager_selected_prefix"
	case RolePagerSelectedCompletion:
		return "pager_selected_completion"
	case RolePagerSelectedDescription:
		return "pager_selected_description"
	default:
		return "unknown"
	}
}

// Fallback returns the role consulted when r has no palette entry.
func (r Role) Fallback() Role {
	switch r {
	case RoleKeyword:
		return RoleCommand
	case RoleOption:
		return RoleParam
	case RolePagerSecondaryBackground:
		return RolePagerBackground
	case RolePagerSecondaryPrefix, RolePagerSelectedPrefix:
		return RolePagerPrefix
	case RolePagerSecondaryCompletion, RolePagerSelectedCompletion:
		return RolePagerCompletion
	case RolePagerSecondaryDescription, RolePagerSelectedDescription:
		return RolePagerDescription
	case RolePagerSelectedBackground:
		return RoleSearchMatch
	default:
		return RoleNormal
	}
}

// pagerVariants maps a base pager role to its {secondary, selected} forms.
var pagerVariants = map[Role][2]Role{
	RolePagerBackground:  {RolePagerSecondaryBackground, RolePagerSelectedBackground},
	RolePagerPrefix:      {RolePagerSecondaryPrefix, RolePagerSelectedPrefix},
	RolePagerCompletion:  {RolePagerSecondaryCompletion, RolePagerSelectedCompletion},
	RolePagerDescription: {RolePagerSecondaryDescription, RolePagerSelectedDescription},
}

// PagerVariant returns the role used for base on a selected or secondary
// (odd) pager row. Selection wins over secondary. Roles without variants are
// returned unchanged.
func PagerVariant(base Role, selected, secondary bool) Role {
	v, ok := pagerVariants[base]
	if !ok {
		return base
	}
	switch {
	case selected:
		return v[1]
	case secondary:
		return v[0]
	default:
		return base
	}
}
