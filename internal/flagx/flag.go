// Package flagx lets several components parse their own subset of the
// process arguments without tripping over each other's flags.
package flagx

import (
	"flag"
	"strings"
)

// Allowed lists the flags a component owns.
//
// Valued flags consume the following token as their value unless it starts
// with '-'. Bools are switches and never consume the next token.
type Allowed struct {
	Valued []string
	Bools  []string
}

func (a Allowed) kind(name string) (valued, ok bool) {
	for _, f := range a.Valued {
		if f == name {
			return true, true
		}
	}
	for _, f := range a.Bools {
		if f == name {
			return false, true
		}
	}
	return false, false
}

// FilterArgs returns the subset of args that belongs to the allowed flags,
// keeping their order. Both "-f value" and "-f=value" forms are understood.
// The result is never nil.
func FilterArgs(args []string, allowed Allowed) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed.kind(name); ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		valued, ok := allowed.kind(arg)
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if valued && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFilePath extracts the value of -c / -config from args.
// It returns "" when neither is present.
func ConfigFilePath(args []string) string {
	var path string

	filtered := FilterArgs(args, Allowed{Valued: []string{"-c", "-config", "--config"}})

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(filtered)

	return path
}
