package gbt

// Both are nil by default so the package stays silent unless a program hooks
// them, e.g. to log.Printf.
var (
	InfoLogFunc  func(string, ...any)
	DebugLogFunc func(string, ...any)
)

func log(f string, a ...any) {
	if InfoLogFunc != nil {
		InfoLogFunc(f, a...)
	}
}

func debugLog(f string, a ...any) {
	if DebugLogFunc != nil {
		DebugLogFunc(f, a...)
	}
}
