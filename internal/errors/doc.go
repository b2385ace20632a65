// Package errors provides coded, actionable errors for the history module.
//
// Every error carries a short code (e.g. "H001") registered with a category,
// a one-line message and a longer explanation:
//   - registry: provider registration and lookup errors
//   - protocol: malformed or undeliverable location frames
//   - config: history.json loading and validation
//   - cli: historyd command and flag errors
//
// # Usage
//
//	err := errors.New("H001").
//	    WithDetail(`key "history" is already bound`).
//	    WithSuggestion("Use a distinct key for each navigation context")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR H001: History has already been defined
//	//
//	//   key "history" is already bound
//	//
//	//   Hint: Use a distinct key for each navigation context
package errors
