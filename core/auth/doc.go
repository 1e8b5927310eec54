// Package auth orchestrates the session lifecycle: bootstrap on startup,
// login, logout, and the single authenticated-state signal the rest of the
// application consumes.
//
// The Manager serializes session-mutating operations so bootstrap, login, and
// logout never interleave their store mutations. Logout additionally wins
// races against in-flight logins: a login that lands after a logout was
// issued discards its result instead of resurrecting the session.
//
// # Startup
//
//	manager := auth.NewManager(store, api, supervisor)
//	if err := manager.Bootstrap(ctx); err != nil {
//	    // persisted credential was stale; user stays signed out
//	}
//
// # Observing authentication
//
//	unsubscribe := manager.OnAuthChange(func(profile *session.UserProfile) {
//	    if profile == nil {
//	        showLogin()
//	        return
//	    }
//	    showDashboard(profile)
//	})
//	defer unsubscribe()
//
// The signal is always consistent with the session store: it fires only after
// both credential and profile reflect the transition, including clears
// performed by the request executor on terminal authentication failure.
package auth
