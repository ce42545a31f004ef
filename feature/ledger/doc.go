// Package ledger keeps an audit trail of gateway calls in the optional database.
package ledger
