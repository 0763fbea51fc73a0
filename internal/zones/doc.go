// Package zones aggregates scored resource clusters into opportunity
// zones keyed by dominant classification tag, maintaining exact running
// means of the member opportunity and risk scores.
package zones
