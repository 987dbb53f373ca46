package styles

// Nerd Font icons used across the CLI views.
const (
	IconX         = "" // x
	IconCursor    = "" // chevron-right
	IconWorkspace = "" // window
	IconTab       = "" // table
	IconPane      = "" // columns
	IconDrawer    = "" // clone/stack
	IconClock     = "" // clock
	IconExpand    = "" // expand
	IconCollapse  = "" // compress
)
