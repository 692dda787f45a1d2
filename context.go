package dispatch

import "context"

type ctxKey string

const (
	commandNameKey ctxKey = "commandName"
	eventNameKey   ctxKey = "eventName"
)

// WithCommandName records the name of the command being dispatched. The bus
// installs it before invoking a command handler so middleware further down
// the chain can attribute its work.
func WithCommandName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandNameKey, name)
}

// CommandNameFromContext returns the dispatched command name or "" if not
// present.
func CommandNameFromContext(ctx context.Context) string {
	if v := ctx.Value(commandNameKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithEventName records the name of the event being handled. The bus
// installs it after persisting the event, before its handlers run.
func WithEventName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, eventNameKey, name)
}

// EventNameFromContext returns the handled event name or "" if not present.
func EventNameFromContext(ctx context.Context) string {
	if v := ctx.Value(eventNameKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
