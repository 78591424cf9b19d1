package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/squall/pkg/lint"
	"github.com/leapstack-labs/squall/pkg/parser"
	"github.com/leapstack-labs/squall/pkg/token"
)

// starlarkRule is a configured instance of a plugin rule.
type starlarkRule struct {
	name     string
	check    starlark.Callable
	options  *starlark.Dict // frozen
	maxSteps uint64
	logger   *slog.Logger
}

var _ lint.ContextRule = (*starlarkRule)(nil)

func (r *starlarkRule) Check(script *parser.Script) ([]lint.Issue, error) {
	return r.CheckContext(context.Background(), script)
}

// CheckContext runs the check function on a fresh thread. The thread is
// cancelled when ctx is done.
func (r *starlarkRule) CheckContext(ctx context.Context, script *parser.Script) ([]lint.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	thread := &starlark.Thread{
		Name: fmt.Sprintf("check:%s:%s", r.name, script.Path),
		Print: func(_ *starlark.Thread, msg string) {
			r.logger.Debug("plugin print", "rule", r.name, "file", script.Path, "msg", msg)
		},
	}
	if r.maxSteps > 0 {
		thread.SetMaxExecutionSteps(r.maxSteps)
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	result, err := starlark.Call(thread, r.check, starlark.Tuple{scriptValue(script, r.options)}, nil)
	if err != nil {
		return nil, err
	}
	return toIssues(result)
}

func toIssues(v starlark.Value) ([]lint.Issue, error) {
	if v == starlark.None {
		return nil, nil
	}
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("check must return a list of issues, got %s", v.Type())
	}

	var issues []lint.Issue
	iter := iterable.Iterate()
	defer iter.Done()
	var item starlark.Value
	for iter.Next(&item) {
		iss, err := toIssue(item)
		if err != nil {
			return nil, err
		}
		issues = append(issues, iss)
	}
	return issues, nil
}

// scriptValue builds the ctx argument of a check function.
func scriptValue(script *parser.Script, options *starlark.Dict) starlark.Value {
	stmts := make([]starlark.Value, len(script.Statements))
	for i, stmt := range script.Statements {
		stmts[i] = statementValue(stmt)
	}

	comments := make([]starlark.Value, len(script.Comments))
	for i, c := range script.Comments {
		comments[i] = starlarkstruct.FromStringDict(starlark.String("comment"), starlark.StringDict{
			"text":   starlark.String(c.Body()),
			"line":   starlark.MakeInt(c.Span.Start.Line),
			"column": starlark.MakeInt(c.Span.Start.Column),
		})
	}

	return starlarkstruct.FromStringDict(starlark.String("ctx"), starlark.StringDict{
		"path":       starlark.String(script.Path),
		"options":    options,
		"statements": starlark.NewList(stmts),
		"comments":   starlark.NewList(comments),
	})
}

func statementValue(stmt *parser.Statement) starlark.Value {
	toks := make([]starlark.Value, len(stmt.Tokens))
	for i, t := range stmt.Tokens {
		toks[i] = tokenValue(t)
	}
	pos := stmt.Pos()
	return starlarkstruct.FromStringDict(starlark.String("statement"), starlark.StringDict{
		"index":   starlark.MakeInt(stmt.Index),
		"keyword": starlark.String(stmt.Keyword()),
		"text":    starlark.String(stmt.Words(0, stmt.Len())),
		"line":    starlark.MakeInt(pos.Line),
		"column":  starlark.MakeInt(pos.Column),
		"tokens":  starlark.NewList(toks),
	})
}

func tokenValue(t token.Token) starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("token"), starlark.StringDict{
		"kind":   starlark.String(t.Kind.String()),
		"text":   starlark.String(t.Literal),
		"upper":  starlark.String(t.Upper()),
		"line":   starlark.MakeInt(t.Pos.Line),
		"column": starlark.MakeInt(t.Pos.Column),
	})
}
