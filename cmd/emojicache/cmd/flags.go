package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// flagValue returns the value of flag name at args[*i], accepting both
// "--name value" and "--name=value". ok is false when args[*i] is another
// argument. On success *i points at the last consumed argument.
func flagValue(args []string, i *int, name string) (value string, ok bool, err error) {
	arg := args[*i]
	if v, found := strings.CutPrefix(arg, name+"="); found {
		return v, true, nil
	}
	if arg != name {
		return "", false, nil
	}
	if *i+1 >= len(args) {
		return "", true, fmt.Errorf("%s requires a value", name)
	}
	*i++
	return args[*i], true, nil
}

func parsePositive(name, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, value)
	}
	return n, nil
}
