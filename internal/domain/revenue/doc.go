// Package revenue holds the revenue-center reporting domain: the RevenueCenter
// aggregate with its persisted financial snapshot, the read models produced by
// the aggregation queries, the repository ports those queries sit behind, and
// the pure derivations (invoice reconciliation, contracted markup, work-tracking
// wages, spend totals) applied on top of them.
package revenue
