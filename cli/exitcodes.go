package cli

// Exit code conventions, grounded on the teacher's POSIX-style block in
// core/sdk/executor/transport.go — additive here rather than reused
// verbatim, since this tool's contract (spec §6) only defines four codes.
const (
	ExitSuccess       = 0 // visualized successfully (even with recovered parse errors)
	ExitUsage         = 1 // missing/unreadable input, or bad flags
	ExitLexError      = 2 // LexingError halted tokenization
	ExitHashMismatch  = 5 // --verify-hash given and CanonicalHash did not match
)
