// Package diagnostic defines recoverable compilation problems and the
// aggregate error used to report all of them at once.
//
// A Diagnostic is data: it names the offending unit, carries a machine code,
// a short message and a human description. Components collect diagnostics
// into a List; the orchestrator decides whether their presence is fatal and,
// if so, wraps the list into an *Error whose message enumerates every entry.
//
//	var list diagnostic.List
//	list.Add(diagnostic.New(u, diagnostic.CodeMissingKey, "missing key", "key \"hero.title\" is not defined"))
//	if err := list.Err(diagnostic.ErrCompilationFailed); err != nil {
//		return err // errors.Is(err, diagnostic.ErrCompilationFailed) == true
//	}
package diagnostic
