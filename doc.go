// Package rentbook builds the profit and loss ledger of a real-estate
// portfolio from the financial documents of its properties.
//
// Documents (rental statements, bank exports, utility bills, invoices) are
// turned into classified records by the extract, classify and address
// packages, orchestrated by the pipeline package. This package holds the
// ledger side:
//   - Records: RawRecord and ClassifiedRecord, the unit of data flowing from
//     documents to the ledger, categorized with the closed set of Category.
//   - Manual entries: ManualEntrySpec expands into dated entries (single,
//     equal split, fixed repeat) through Generate, deterministically.
//   - Ledger: the month by category matrix of one property, with user
//     inclusion overrides and the derived indicators (NOI, net profit, DSCR)
//     over fiscal and calendar years.
//   - Summary: the portfolio consolidation with yields, LVR and equity.
//   - Session: the JSON snapshot of a portfolio, reloaded to merge new
//     documents month after month.
//
// Derived figures are never stored: they are recomputed from the records
// each time the ledger changes, so that totals cannot drift from the data
// they summarize.
//
// This package serves as the foundational logic for the `rb` command-line
// tool.
package rentbook
