// Package dispatch is a lightweight engine for designing event-based systems.
//
// Anything that can happen in the system is modeled as an Event. Business
// entities are designed as aggregates that are atomically modified through
// aggregate events. The package is freely inspired by concepts like
// domain-driven design and command-query responsibility segregation, but
// tries to stay agnostic by making as few assumptions as possible; in
// particular it does not tie you to any persistence approach.
//
// # Command bus
//
// The CommandBus is the main entry point. Execute takes a caller-supplied
// state and a Command. The matching CommandHandler produces events, each of
// which is persisted through the configured EventWriter and then delivered
// to every EventHandler subscribed to its name. Event handlers can issue new
// commands, which re-enter the same loop. The process continues until no
// command remains pending.
//
// # State
//
// Command and event handlers execute against a mutable, application-specific
// state threaded through the whole Execute call. It holds whatever the
// handlers need, for instance a database connection or an in-memory read
// model. The bus never shares one state value between concurrent Execute
// calls; that ownership is the caller's to arrange.
package dispatch
