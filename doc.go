// Package splitkit is a client SDK for the SplitKit expense-sharing service.
// It manages the full client-side session lifecycle: credential persistence,
// authorized HTTP calls with transparent token refresh, a self-healing
// realtime event channel, and an orchestrator that keeps all three coherent
// across login, logout and process restarts.
//
// # Package Organization
//
//   - github.com/splitkit/splitkit: root facade wiring one isolated session
//     world from a single Config.
//   - github.com/splitkit/splitkit/core/session: session snapshot, credential
//     keyring and the observable store that owns all credential mutations.
//   - github.com/splitkit/splitkit/core/apiclient: authorized HTTP client
//     with deduplicated refresh-and-retry on expired credentials, plus typed
//     calls for every service endpoint (auth, friends, groups, expenses,
//     settlements, payments, notifications).
//   - github.com/splitkit/splitkit/core/realtime: persistent event channel
//     supervisor with websocket and long-poll transports and exponential
//     reconnect.
//   - github.com/splitkit/splitkit/core/auth: session orchestrator
//     (bootstrap, login, logout) with last-write-wins conflict resolution.
//   - github.com/splitkit/splitkit/core/config: environment-based
//     configuration loading with .env support.
//   - github.com/splitkit/splitkit/pkg/backoff: jittered exponential delays.
//   - github.com/splitkit/splitkit/pkg/logger: slog attribute helpers.
//   - github.com/splitkit/splitkit/pkg/qrcode: UPI payment QR rendering.
//
// # Usage
//
//	client, err := splitkit.New(splitkit.Config{
//		APIBaseURL: "https://api.example.com/api",
//		SocketURL:  "https://api.example.com",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Auth().Bootstrap(ctx); err != nil {
//		// no valid persisted session; prompt for login
//	}
package splitkit
