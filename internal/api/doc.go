// Package api implements the operational HTTP endpoints of the planner:
// liveness, readiness against the database and a JSON report of the
// notification scheduler's activity.
package api
