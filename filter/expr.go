package filter

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/ombibot/ombi"
)

// Compiler compiles where:-expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (*ExprFilter, error)
}

// ExprFilter is a compiled where:-expression evaluated per record
type ExprFilter struct {
	expression string
	program    *vm.Program
}

// Expression returns the original expression text
func (f *ExprFilter) Expression() string {
	return f.expression
}

// Evaluate runs the expression against one record. Evaluation errors skip the
// record rather than failing the whole chain.
func (f *ExprFilter) Evaluate(r *ombi.MediaRequest) bool {
	result, err := expr.Run(f.program, recordEnvironment(r))
	if err != nil {
		return false
	}
	// AsBool() at compile time guarantees the type.
	return result.(bool)
}

// CompilerOption configures a compiler
type CompilerOption func(*exprCompiler)

// WithCacheSize bounds the compiled-expression cache
func WithCacheSize(size int) CompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cacheSize = size
		}
	}
}

// NewCompiler creates an expression compiler. Compiled programs are cached
// with LRU eviction so button-driven repeat invocations of the same filter
// don't recompile.
func NewCompiler(opts ...CompilerOption) Compiler {
	c := &exprCompiler{
		cacheSize: 64,
		entries:   make(map[string]*list.Element),
		order:     list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type exprCompiler struct {
	mu        sync.Mutex
	cacheSize int
	entries   map[string]*list.Element
	order     *list.List // front = most recently used; values are *cacheEntry
}

type cacheEntry struct {
	key    string
	filter *ExprFilter
}

// Compile compiles an expression, serving repeats from the cache
func (c *exprCompiler) Compile(expression string) (*ExprFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	c.mu.Lock()
	if node, ok := c.entries[expression]; ok {
		c.order.MoveToFront(node)
		filter := node.Value.(*cacheEntry).filter
		c.mu.Unlock()
		return filter, nil
	}
	c.mu.Unlock()

	program, err := expr.Compile(expression,
		expr.Env(staticEnvironment()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &ExprFilter{expression: expression, program: program}

	c.mu.Lock()
	c.entries[expression] = c.order.PushFront(&cacheEntry{key: expression, filter: filter})
	if c.order.Len() > c.cacheSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	c.mu.Unlock()

	return filter, nil
}

// staticEnvironment declares the variables and helpers expressions may use,
// typed so mistakes fail at compile time rather than per record
func staticEnvironment() map[string]any {
	env := map[string]any{
		"Id":            0,
		"Title":         "",
		"Status":        "",
		"Overview":      "",
		"TotalSeasons":  0,
		"Approved":      false,
		"Available":     false,
		"Denied":        false,
		"RequestedDate": time.Time{},
		"ReleaseDate":   time.Time{},
		"RequestedBy":   "",
		"requestedBy":   func(name string) bool { return false },
	}
	addHelpers(env)
	return env
}

func addHelpers(env map[string]any) {
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["parseDate"] = func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["lower"] = strings.ToLower
	env["now"] = time.Now
}

// recordEnvironment builds the per-record evaluation environment. Status
// booleans are exposed already resolved, so expressions never deal with the
// direct-vs-derived distinction.
func recordEnvironment(r *ombi.MediaRequest) map[string]any {
	env := make(map[string]any, 32)
	addHelpers(env)

	state := Resolve(r)
	env["Id"] = r.ID
	env["Title"] = r.Title
	env["Status"] = r.Status
	env["Overview"] = r.Overview
	env["TotalSeasons"] = r.TotalSeasons
	env["Approved"] = state.Approved.True()
	env["Available"] = state.Available.True()
	env["Denied"] = state.Denied.True()

	if at := requestedAt(r); at != nil {
		env["RequestedDate"] = at.Time
	} else {
		env["RequestedDate"] = time.Time{}
	}
	if r.ReleaseDate != nil {
		env["ReleaseDate"] = r.ReleaseDate.Time
	} else {
		env["ReleaseDate"] = time.Time{}
	}

	alias := ""
	if r.RequestedUser != nil {
		alias = r.RequestedUser.UserAlias
	} else if child := r.Child(); child != nil && child.RequestedUser != nil {
		alias = child.RequestedUser.UserAlias
	}
	env["RequestedBy"] = alias
	env["requestedBy"] = func(name string) bool {
		return strings.EqualFold(alias, name)
	}

	return env
}
