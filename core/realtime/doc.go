// Package realtime maintains the persistent event channel to the server,
// alive exactly while a credential is held.
//
// The Supervisor owns a single connection bound to the current credential and
// routes server-originated events to registered handlers by kind. Payloads are
// opaque: the supervisor delivers them unmodified and never interprets them.
//
// # Connection Lifecycle
//
// Connect is idempotent: connecting again with the credential already in use
// is a no-op, while a different credential tears the old connection down
// first. Disconnect is unconditional and safe to repeat. On transport-level
// disconnection the supervisor reconnects with exponential backoff for as
// long as the session store still holds a credential; the moment the
// credential is cleared it drops straight to Disconnected and abandons
// retries.
//
// # Transports
//
// The wire is abstracted behind Transport. The websocket transport is
// preferred; the long-poll transport is the fallback for networks that block
// websockets. NewFallbackTransport chains them so callers never know which
// one carried the connection.
//
// # Subscriptions
//
//	sub := supervisor.Subscribe(realtime.EventPaymentUpdate, func(e realtime.Event) {
//	    var p PaymentUpdate
//	    _ = json.Unmarshal(e.Data, &p)
//	})
//	defer supervisor.Unsubscribe(sub)
//
// Handlers registered while disconnected are retained and become active once
// connected. Removal is by the returned handle, never by handler identity.
package realtime
