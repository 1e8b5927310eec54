// Package session holds the client's authentication state: the current bearer
// credential and the authenticated user's profile.
//
// The Store is the single source of truth for "am I authenticated". Every other
// component reads it before acting and mutates it only through the contracted
// operations (SetCredential, SetProfile, Clear). Mutations are observable
// through OnChange, which is how the auth manager republishes authentication
// state and how the realtime supervisor notices a cleared credential.
//
// # Basic Usage
//
//	store := session.NewStore(session.NewMemoryKeyring())
//
//	unsubscribe := store.OnChange(func(s session.Session) {
//	    if !s.IsAuthenticated() {
//	        log.Println("signed out")
//	    }
//	})
//	defer unsubscribe()
//
//	store.SetCredential(token)
//	store.SetProfile(&session.UserProfile{ID: "u1", Name: "Ada"})
//
// # Durable Persistence
//
// A Keyring persists the credential across process restarts. The file-backed
// implementation keeps a single 0600 file; absence of the file means
// unauthenticated. Keyring write failures never propagate to callers: the
// store logs them and continues memory-only for the rest of the process.
//
//	keyring, err := session.NewFileKeyring(path)
//	if err != nil {
//	    keyring = session.NewMemoryKeyring()
//	}
//	store := session.NewStore(keyring)
package session
