// Package analysis implements the filtering and descriptive statistics behind
// the dashboard: year/month selection, forward-fill of gaps, grouped means,
// describe-style summaries, correlation matrices and distribution summaries.
//
// Every function takes a read-only view of the loaded table and returns newly
// allocated results; nothing here modifies the table.
package analysis
