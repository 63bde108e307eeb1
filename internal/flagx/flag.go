// Package flagx lets several components share os.Args: each one parses only
// the flags it owns, and commands pick up what remains.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-d dsn" and "-d=dsn" forms are recognised; a token starting
// with "-" is never taken as a value.
//
//	FilterArgs([]string{"-c", "conf.json", "-x", "1"}, []string{"-c"}) // ["-c" "conf.json"]
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

// Positionals is the complement of FilterArgs: it skips the leading flags,
// and the value that follows any flag listed in valueFlags, and returns the
// rest of args verbatim starting at the first positional. A bare "--" also
// ends flag processing. Arguments after the command are never treated as
// flags, so a negative amount such as "-0.50" survives.
//
//	Positionals([]string{"-d", "dsn", "show", "7"}, []string{"-d"}) // ["show" "7"]
func Positionals(args []string, valueFlags []string) []string {
	takesValue := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		takesValue[f] = struct{}{}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			return append([]string{}, args[i+1:]...)
		}

		if !strings.HasPrefix(arg, "-") || arg == "-" {
			return append([]string{}, args[i:]...)
		}

		if strings.Contains(arg, "=") {
			continue
		}

		if _, ok := takesValue[arg]; ok && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}

	return []string{}
}

// JsonConfigFlags returns the config file path given with -c or -config in
// os.Args, or "" when neither is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
