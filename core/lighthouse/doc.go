// Package lighthouse retrieves and parses tickets from the Lighthouse (lighthouseapp.com) API.
//
// Client.Fetch issues GET {endpoint}/projects/{project}/tickets.xml?q=...&_token=... and
// returns the raw body. ParseTickets turns the body into Items, one per <ticket>, each holding
// the ticket's direct child elements as (name, value) pairs ready for reconcile.FromParsedFields.
//
// # Errors
//
//   - ErrTransport: the request failed or returned a non-2xx status. Fatal for a run.
//   - ErrParse: the body is not a well-formed ticket list. Fatal for a run.
//   - A single unreadable field (an element with nested elements) is not an error; it is
//     returned on the Field with Err set.
package lighthouse
