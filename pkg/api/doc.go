// Package api defines the JSON messages of the ledgerbook.v1 services.
//
// Amounts travel as decimal strings ("12.50") and dates as "YYYY-MM-DD".
// Timestamps are Unix microseconds.
package api
