// Package flagx filters command-line arguments so a component can parse
// only the flags it owns without tripping over flags defined elsewhere
// (including the test binary's own flags).
package flagx

import "strings"

// FilterArgs returns the subset of args containing only the allowed
// flags and their values.
//
// Supported forms:
//  1. Flag and value as separate arguments:  -s secret
//  2. Flag and value combined with '=':      -s=secret
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}
