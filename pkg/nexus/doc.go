// Package nexus provides the types, interfaces, and helpers for working with
// a resource catalog deployment.
//
// # Overview
//
// The package defines the open Resource record used for organizations and
// other versioned catalog entries, the cursor-paginated collection types, the
// error taxonomy of the wire protocol, and the interfaces for resource clients
// (OrganizationsClient, ContextsClient). The concrete implementation lives in
// the internal client package; most consumers interact with the interfaces
// exposed here.
//
// # Pagination
//
// Collection endpoints return batches of result references linked by a 'next'
// cursor. PageIterator walks such a collection lazily, one request per page:
//
//	it := nexus.NewPageIterator(ctx, getter, startURL)
//	for it.HasNext() {
//	  ref, err := it.Next()
//	  if err != nil { break }
//	  _ = ref
//	}
//
// # Optimistic concurrency
//
// Every resource carries a service-assigned revision. Mutations are submitted
// together with the revision they were read at; the service rejects a write if
// the resource has since advanced. Fingerprint supports the client-side no-op
// check that skips writes whose content matches the current state.
//
// # Errors
//
// Failures are represented by TransportError (non-2xx responses, raw body
// attached), ProtocolError (malformed payloads), RevisionMismatchError, and a
// set of sentinel errors. Helpers such as IsNotFound and IsRevisionMismatch
// make it easy to branch on common cases.
package nexus
