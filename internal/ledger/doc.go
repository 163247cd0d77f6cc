// Package ledger is the account-store runtime the engine runs on: accounts
// with lamport balances and opaque data, atomic request execution with
// optimistic versioning, rent and clock queries, the signer set of the
// current request, and the system program that creates accounts and moves
// native value.
package ledger
