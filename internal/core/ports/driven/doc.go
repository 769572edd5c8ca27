// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The pipeline core depends only on these
// interfaces, never on concrete service clients.
package driven
