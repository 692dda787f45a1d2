package dispatch

// InstrumentationVersion is reported by the otel instrumentation package.
const InstrumentationVersion = "0.3.0"
