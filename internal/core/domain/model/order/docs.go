// Package order contains the order aggregate and its lifecycle state machine.
//
// The aggregate owns two parallel states: the main Status (pending through
// delivered, or cancelled) and the AcceptanceStatus sub-state that tracks
// whether an order was accepted manually or automatically. All transitions go
// through validated aggregate methods; direct struct construction is rejected.
//
// The package also defines the immutable order Item line and the append-only
// HistoryRecord ledger row used for auditing transitions.
package order
