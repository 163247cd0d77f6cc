// Package flagx splits command lines between independently parsed flag sets.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// partition splits args into the listed flags with their values and
// everything else. Both "-f value" and "-f=value" forms are recognised; a
// following argument is taken as the value unless it looks like a flag.
func partition(args []string, flags []string) (matched, rest []string) {
	known := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		known[f] = struct{}{}
	}

	matched = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := known[name]; ok {
				matched = append(matched, arg)
			} else {
				rest = append(rest, arg)
			}
			continue
		}

		if _, ok := known[arg]; !ok {
			rest = append(rest, arg)
			continue
		}
		matched = append(matched, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			matched = append(matched, args[i+1])
			i++
		}
	}
	return matched, rest
}

// FilterArgs returns only the allowed flags of args together with their
// values, e.g. FilterArgs(os.Args[1:], []string{"-c", "-config"}).
func FilterArgs(args []string, allowedFlags []string) []string {
	matched, _ := partition(args, allowedFlags)
	return matched
}

// StripArgs is the complement of FilterArgs: it returns args without the
// listed flags and their values, preserving the order of everything else.
func StripArgs(args []string, flags []string) []string {
	_, rest := partition(args, flags)
	return rest
}

// JsonConfigFlags extracts the config file path given via -c or -config.
// Other arguments are ignored so the caller can parse its own flags
// separately. An empty string means no config file was named.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
