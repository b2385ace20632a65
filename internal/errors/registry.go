package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Registry Errors (H001-H009)
	// ============================================

	"H001": {
		Category: CategoryRegistry,
		Message:  "History has already been defined",
		Detail:   "A history provider is already registered under this key. Each key backs exactly one navigation context.",
	},
	"H002": {
		Category: CategoryRegistry,
		Message:  "History not defined",
		Detail:   "No history provider is registered under this key.",
	},
	"H003": {
		Category: CategoryRegistry,
		Message:  "Nil history provider",
		Detail:   "A nil history provider cannot be registered.",
	},

	// ============================================
	// Protocol Errors (H010-H019)
	// ============================================

	"H010": {
		Category: CategoryProtocol,
		Message:  "Malformed location frame",
		Detail:   "The client sent a frame that is not valid JSON or has an unknown type.",
	},
	"H011": {
		Category: CategoryProtocol,
		Message:  "Location frame write failed",
		Detail:   "A push or replace frame could not be written to the client connection.",
	},
	"H012": {
		Category: CategoryProtocol,
		Message:  "Location connection closed",
		Detail:   "The client connection closed while frames were still being read.",
	},

	// ============================================
	// Config Errors (H020-H029)
	// ============================================

	"H020": {
		Category: CategoryConfig,
		Message:  "Config read failed",
		Detail:   "history.json could not be read or parsed.",
	},
	"H021": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "history.json contains values that cannot be used.",
	},
	"H022": {
		Category: CategoryConfig,
		Message:  "Config not found",
		Detail:   "No history.json was found in the given directory.",
	},

	// ============================================
	// CLI Errors (H030-H039)
	// ============================================

	"H030": {
		Category: CategoryCLI,
		Message:  "Command failed",
		Detail:   "historyd could not complete the command.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
