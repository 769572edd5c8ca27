// Package services implements the capture pipeline's use cases: contact
// extraction, research gathering, dossier synthesis and the orchestrator
// that drives one poll-process-acknowledge cycle.
package services
