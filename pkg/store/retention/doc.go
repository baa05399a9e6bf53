// Package retention prunes old decisions from the store, either on
// demand or on a cron schedule. Pruning is two-phase: age-based removal
// of records older than the retention period, then count-based trimming
// to the configured maximum.
package retention
