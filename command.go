package dispatch

import "fmt"

// Command is a request to modify the system. Each concrete command type
// declares a process-wide unique name, which is the sole dispatch key: the
// CommandHandler registered under the same name handles it, and the bus
// never compares structural types.
//
// CommandName must be callable on the zero value of the implementing type,
// so implement it on the value receiver and return a constant.
type Command interface {
	// CommandName is the unique name of the command.
	CommandName() string
}

// BoxedCommand carries a command of unknown concrete type together with its
// declared name. The payload is kept as-is, not serialized, so command
// dispatch is zero-copy in-process. It is never exposed except through
// DowncastCommand.
type BoxedCommand struct {
	name    string
	command any
}

// Box wraps a concrete command for dispatch.
func Box(command Command) BoxedCommand {
	return BoxedCommand{name: command.CommandName(), command: command}
}

// Name returns the declared name of the boxed command.
func (c BoxedCommand) Name() string {
	return c.name
}

// DowncastCommand recovers the concrete command from a boxed one. It fails
// with a TypeMismatchError when the stored name differs from T's name.
func DowncastCommand[T Command](boxed BoxedCommand) (T, error) {
	var zero T
	if want := zero.CommandName(); want != boxed.name {
		return zero, &TypeMismatchError{Expected: want, Actual: boxed.name}
	}
	command, ok := boxed.command.(T)
	if !ok {
		// Two command types sharing one name is a registration bug.
		return zero, &TypeMismatchError{
			Expected: fmt.Sprintf("%T", zero),
			Actual:   fmt.Sprintf("%T", boxed.command),
		}
	}
	return command, nil
}

// Commands is an ordered collection of boxed commands, as returned by an
// event handler invocation. The zero value is ready to use.
type Commands []BoxedCommand

// Add boxes a command and appends it.
func (c *Commands) Add(command Command) {
	*c = append(*c, Box(command))
}

// NewCommands boxes the given commands, preserving their order.
func NewCommands(commands ...Command) Commands {
	out := make(Commands, 0, len(commands))
	for _, command := range commands {
		out = append(out, Box(command))
	}
	return out
}
