package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/honeyraes/honeyraes/server/internal/config"
)

// payloads builds the request body for each webhook type.
var payloads = map[string]func(Event) interface{}{
	"slack": slackPayload,
	"teams": teamsPayload,
	"http":  func(ev Event) interface{} { return map[string]Event{"event": ev} },
}

// deliver posts ev to every target with a URL set. Failures are logged.
func (n *Notifier) deliver(targets []config.WebhookConfig, ev Event) {
	for _, wh := range targets {
		url := wh.URL()
		build, known := payloads[wh.Type]
		switch {
		case url == "":
			continue
		case !known:
			slog.Warn("notify: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		log := slog.With("type", wh.Type, "kind", ev.Kind, "ticket_id", ev.TicketID)
		if err := n.post(url, build(ev)); err != nil {
			log.Error("notify: webhook delivery failed", "err", err)
			continue
		}
		log.Debug("notify: webhook delivered")
	}
}

func (n *Notifier) post(url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// slackPayload renders ev as a Slack message: a short text fallback plus a
// section listing the ticket fields.
func slackPayload(ev Event) interface{} {
	headline := fmt.Sprintf("%s Ticket %d: %s", prefix(ev.Kind), ev.TicketID, ev.Description)
	fields := []map[string]string{}
	for _, f := range facts(ev) {
		fields = append(fields, map[string]string{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*%s*\n%s", f.name, f.value),
		})
	}
	return map[string]interface{}{
		"text": headline,
		"blocks": []interface{}{
			map[string]interface{}{
				"type": "section",
				"text": map[string]string{"type": "mrkdwn", "text": "*" + headline + "*"},
			},
			map[string]interface{}{"type": "section", "fields": fields},
		},
	}
}

// teamsPayload renders ev as an Office 365 MessageCard with one fact per
// ticket field.
func teamsPayload(ev Event) interface{} {
	cardFacts := []map[string]string{}
	for _, f := range facts(ev) {
		cardFacts = append(cardFacts, map[string]string{"name": f.name, "value": f.value})
	}
	return map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": color(ev.Kind),
		"summary":    ev.Message,
		"title":      fmt.Sprintf("Honey Rae's Repairs: %s ticket %d", prefix(ev.Kind), ev.TicketID),
		"sections": []interface{}{
			map[string]interface{}{
				"activityTitle": ev.Description,
				"text":          ev.Message,
				"facts":         cardFacts,
			},
		},
	}
}

type fact struct{ name, value string }

func facts(ev Event) []fact {
	employee := "unassigned"
	if ev.EmployeeID != nil {
		employee = strconv.Itoa(*ev.EmployeeID)
	}
	return []fact{
		{"Ticket", strconv.Itoa(ev.TicketID)},
		{"Customer", strconv.Itoa(ev.CustomerID)},
		{"Employee", employee},
		{"Severity", ev.Severity},
		{"At", ev.At.Format("01/02/2006 15:04 MST")},
	}
}

func prefix(kind string) string {
	if kind == KindEmergency {
		return "[EMERGENCY]"
	}
	return "[COMPLETED]"
}

func color(kind string) string {
	if kind == KindEmergency {
		return "D7263D"
	}
	return "2EB67D"
}
