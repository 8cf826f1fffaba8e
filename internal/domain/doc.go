// Package domain defines the core types shared by the subscription service,
// the remote mailing-list client and the HTTP front end.
//
// Types in this package are pure value objects with no behavior, no network
// dependencies, and no HTTP concerns. They are the shared language between
// handlers, services, and clients.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No http.Request, no context.Context in struct fields
//   - JSON tags are allowed (they're metadata, not behavior)
//   - Small pure methods on the types are allowed
//   - Constants and enums belong here
package domain
