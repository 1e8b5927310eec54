// Package apiclient is the authorized request executor for the remote API.
//
// Every call reads the current credential from the session store and attaches
// it as a bearer authorization header. Authorization failures are absorbed:
// the client refreshes the credential through POST /auth/refresh and replays
// the original request exactly once, returning the replay's response as the
// final outcome. Concurrent requests that fail while a refresh is already in
// flight join the existing refresh instead of issuing duplicates, since a
// successful refresh invalidates the credential the others hold.
//
// When the refresh itself is rejected, recovery ends: the session is cleared,
// the auth-required callback fires once, and every waiting request fails with
// ErrAuthRequired. There is no retry loop; each original request is replayed
// at most once.
//
// # Error Taxonomy
//
//   - transport failures: wrapped network/timeout errors, never auth-related
//   - *APIError: well-formed non-2xx response, server message verbatim
//   - ErrAuthRequired: terminal authentication failure after refresh failure
//   - ErrMalformedResponse: unparseable body, generic fallback
//
// # Basic Usage
//
//	store := session.NewStore(keyring)
//	api := apiclient.New(baseURL, store,
//	    apiclient.WithTimeout(10*time.Second),
//	    apiclient.WithAuthRequiredFunc(redirectToLogin),
//	)
//
//	me, err := api.CurrentUser(ctx)
//	var apiErr *apiclient.APIError
//	switch {
//	case errors.Is(err, apiclient.ErrAuthRequired):
//	    // session is gone, re-authenticate
//	case errors.As(err, &apiErr):
//	    // show apiErr.Message
//	}
package apiclient
