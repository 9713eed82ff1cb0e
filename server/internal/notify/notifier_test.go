package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyraes/honeyraes/pkg/types"
	"github.com/honeyraes/honeyraes/server/internal/config"
)

// recorder is a webhook endpoint that keeps every request body.
type recorder struct {
	mu     sync.Mutex
	bodies []map[string]interface{}
	status int
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	data, _ := io.ReadAll(req.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(data, &body)
	r.mu.Lock()
	r.bodies = append(r.bodies, body)
	r.mu.Unlock()
	if r.status != 0 {
		w.WriteHeader(r.status)
	}
}

func (r *recorder) received() []map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]interface{}(nil), r.bodies...)
}

func hook(t *testing.T, typ string, rec *recorder) config.WebhookConfig {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	env := "TEST_NOTIFY_" + typ
	t.Setenv(env, srv.URL)
	return config.WebhookConfig{Type: typ, URLEnv: env}
}

func TestTicketCreated_NonEmergencyIgnored(t *testing.T) {
	n := New(config.NotifyConfig{})
	n.TicketCreated(types.ServiceTicket{ID: 1, Description: "Oil change"})
	assert.Empty(t, n.Recent())
}

func TestTicketCreated_EmergencyRecorded(t *testing.T) {
	n := New(config.NotifyConfig{})
	n.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	n.TicketCreated(types.ServiceTicket{ID: 7, CustomerID: 2, Emergency: true, Description: "Brakes failed"})

	got := n.Recent()
	require.Len(t, got, 1)
	assert.Equal(t, KindEmergency, got[0].Kind)
	assert.Equal(t, 7, got[0].TicketID)
	assert.Equal(t, "critical", got[0].Severity)
	assert.NotEmpty(t, got[0].ID)
	assert.Contains(t, got[0].Message, "Brakes failed")
	assert.Equal(t, 2024, got[0].At.Year())
}

func TestRecent_NewestFirstAndCapped(t *testing.T) {
	n := New(config.NotifyConfig{})
	for i := 0; i < maxHistoryLen+5; i++ {
		n.TicketCompleted(types.ServiceTicket{ID: i, DateCompleted: "01/01/2024"})
	}
	got := n.Recent()
	require.Len(t, got, maxHistoryLen)
	assert.Equal(t, maxHistoryLen+4, got[0].TicketID)
	assert.Equal(t, 5, got[len(got)-1].TicketID)
}

func TestDeliver_AllTargets(t *testing.T) {
	slack, teams, raw := &recorder{}, &recorder{}, &recorder{}
	n := New(config.NotifyConfig{Webhooks: []config.WebhookConfig{
		hook(t, "slack", slack),
		hook(t, "teams", teams),
		hook(t, "http", raw),
	}})

	n.TicketCreated(types.ServiceTicket{ID: 3, CustomerID: 1, Emergency: true, Description: "Smoke from hood"})
	n.Wait()

	require.Len(t, slack.received(), 1)
	assert.Contains(t, slack.received()[0]["text"], "[EMERGENCY]")

	assert.Contains(t, slack.received()[0]["text"], "Smoke from hood")
	assert.Len(t, slack.received()[0]["blocks"], 2)

	require.Len(t, teams.received(), 1)
	card := teams.received()[0]
	assert.Equal(t, "MessageCard", card["@type"])
	assert.Equal(t, "D7263D", card["themeColor"])
	sections, ok := card["sections"].([]interface{})
	require.True(t, ok)
	require.Len(t, sections, 1)
	got := map[string]string{}
	for _, f := range sections[0].(map[string]interface{})["facts"].([]interface{}) {
		kv := f.(map[string]interface{})
		got[kv["name"].(string)] = kv["value"].(string)
	}
	assert.Equal(t, "3", got["Ticket"])
	assert.Equal(t, "1", got["Customer"])
	assert.Equal(t, "unassigned", got["Employee"])
	assert.Equal(t, "critical", got["Severity"])

	require.Len(t, raw.received(), 1)
	ev, ok := raw.received()[0]["event"].(map[string]interface{})
	require.True(t, ok, "http payload must wrap the event")
	assert.Equal(t, KindEmergency, ev["kind"])
	assert.Equal(t, float64(3), ev["ticket_id"])
	assert.Equal(t, "Smoke from hood", ev["description"])
	assert.Nil(t, ev["employee_id"])
}

func TestTeamsPayload_CompletedTicket(t *testing.T) {
	card := teamsPayload(Event{
		Kind:       KindCompleted,
		TicketID:   4,
		CustomerID: 1,
		EmployeeID: types.IntPtr(0),
		Severity:   "info",
	}).(map[string]interface{})
	assert.Equal(t, "2EB67D", card["themeColor"])
	assert.Contains(t, card["title"], "[COMPLETED] ticket 4")

	facts := card["sections"].([]interface{})[0].(map[string]interface{})["facts"].([]map[string]string)
	assert.Contains(t, facts, map[string]string{"name": "Employee", "value": "0"})
}

func TestDeliver_FailureDoesNotPanic(t *testing.T) {
	bad := &recorder{status: http.StatusInternalServerError}
	n := New(config.NotifyConfig{Webhooks: []config.WebhookConfig{hook(t, "http", bad)}})

	n.TicketCompleted(types.ServiceTicket{ID: 1, DateCompleted: "01/01/2024"})
	n.Wait()

	assert.Len(t, bad.received(), 1)
	assert.Len(t, n.Recent(), 1)
}

func TestDeliver_SkipsUnsetURL(t *testing.T) {
	n := New(config.NotifyConfig{Webhooks: []config.WebhookConfig{{Type: "slack", URLEnv: "TEST_NOTIFY_UNSET"}}})
	n.TicketCompleted(types.ServiceTicket{ID: 1})
	n.Wait()
	assert.Len(t, n.Recent(), 1)
}

func TestSetWebhooks(t *testing.T) {
	rec := &recorder{}
	n := New(config.NotifyConfig{})
	n.TicketCompleted(types.ServiceTicket{ID: 1})
	n.Wait()
	assert.Empty(t, rec.received())

	n.SetWebhooks([]config.WebhookConfig{hook(t, "http", rec)})
	n.TicketCompleted(types.ServiceTicket{ID: 2})
	n.Wait()
	assert.Len(t, rec.received(), 1)
}
