// Package subscription implements audience membership for front-end forms:
// subscribe, unsubscribe, delete and the read-only member and audience
// lookups.
//
// Every mutating operation follows the same path: validate the address,
// resolve the audience id, check credentials, call the remote API, and map
// the outcome into a domain.Response. Local failures short-circuit before
// any network call. Remote failures are translated, never returned as Go
// errors. Lookups return nil when anything goes wrong.
//
// The service depends on the RemoteAPI, EmailValidator and EventSink
// interfaces defined in remote.go. It never imports net/http directly.
package subscription
