// Package mission drives the exploration state machine that turns a
// chosen opportunity zone into a validated discovery or a safely
// resolved abort.
//
// A mission moves proposed → planned → authorized → executing and ends
// in exactly one of validated, rejected or aborted. Risk estimation,
// healing-plan approval, probes and hazard detection are pluggable
// collaborators; the transition table is closed and every transition is
// logged append-only for audit. The Launcher enforces at-most-one
// concurrently running mission per zone.
package mission
