// Package plugin loads lint rules written in Starlark.
//
// A plugin source is a .star file, or a directory whose *.star files are
// loaded in name order. Each file declares rules with the predeclared rule
// builtin:
//
//	def check(ctx):
//	    issues = []
//	    for stmt in ctx.statements:
//	        if stmt.keyword == "TRUNCATE":
//	            issues.append(issue("TRUNCATE is not allowed", stmt.line, stmt.column))
//	    return issues
//
//	rule(
//	    name = "no-truncate",
//	    description = "Disallow TRUNCATE.",
//	    check = check,
//	    severity = "error",
//	    schema = {"type": "object", "additionalProperties": False},
//	)
//
// The check function receives a ctx struct with fields path, options,
// statements and comments, and returns a list of issue values (or None).
// An optional JSON schema validates the rule's options when it is
// instantiated.
package plugin
