// Package notify publishes service-ticket events to webhook targets and keeps
// a short history of recent events. Emergency tickets and completions are
// delivered to Slack, Teams or generic HTTP endpoints.
package notify
