package graph

// Command is a node representing work: it optionally carries an Action,
// invoked by the executor once all of the command's predecessors have
// completed successfully.
type Command struct {
	edges

	Action Action

	// Name is optional, purely for diagnostics (error messages, logging).
	Name string
}

// NewCommand returns a Command with no action. Set Action directly, or use
// NewCommandWithAction.
func NewCommand(name string) *Command {
	return &Command{edges: newEdges(), Name: name}
}

// NewCommandWithAction returns a Command carrying action.
func NewCommandWithAction(name string, action Action) *Command {
	return &Command{edges: newEdges(), Name: name, Action: action}
}

func (c *Command) String() string {
	if c.Name != "" {
		return "Command(" + c.Name + ")"
	}
	return "Command(anonymous)"
}
