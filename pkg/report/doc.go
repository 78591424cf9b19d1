// Package report formats lint issues for humans and machines.
//
// Reporters are selected by name with New. Every reporter marks parse errors
// and execution errors distinctly from rule findings, so a broken rule or an
// unreadable file is never mistaken for a problem in the SQL.
package report
