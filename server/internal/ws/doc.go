// Package ws implements the WebSocket summary stream for honeyraes-server.
//
// A Hub pushes a summary of the shop's records to every connected client on
// a fixed interval (server.stream.interval, default 5s). Wiring
// Store.OnChange to Hub.Changed adds an immediate push after each ticket
// write, so clients see creates and completions without waiting for a tick.
// Each client gets the current summary as soon as it connects.
//
// Message format:
//
//	{
//	  "event": "summary",
//	  "data":  { "customers": 3, "open": 1, ..., "generated_at": "RFC3339" }
//	}
//
// Clients whose queue fills up are disconnected. Cancelling the context given
// to Run disconnects everyone and refuses new connections. The endpoint is
// mounted at /ws/stream; origin checks are left to the reverse proxy.
package ws
