package command

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadNumber is returned when an argument is not a positive integer.
var ErrBadNumber = errors.New("not a positive number")

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command (preserving spacing for names).
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
		}
	}

	cmd := strings.ToLower(line[:idx])
	rest := strings.TrimSpace(line[idx+1:])

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: cmd,
		Args:    args,
		RawArgs: rest,
	}
}

var secondsSuffixes = []string{"seconds", "sec", "s", "초"}

// ParseSeconds parses a cast duration such as "15", "15s" or "15초".
//
// Postcondition: returns ErrBadNumber unless the text is a positive integer
// with an optional seconds suffix.
func ParseSeconds(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, suf := range secondsSuffixes {
		if strings.HasSuffix(s, suf) {
			s = strings.TrimSuffix(s, suf)
			break
		}
	}
	return positive(s)
}

// ParseQuantity parses a count such as "3" or "3개".
func ParseQuantity(s string) (int, error) {
	return positive(strings.TrimSuffix(strings.TrimSpace(s), "개"))
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, ErrBadNumber
	}
	return n, nil
}

var gluedQuantity = regexp.MustCompile(`^(\D.*?)(\d+)개$`)

// SplitNameQuantity separates an item name, which may contain spaces, from
// an optional trailing quantity. "지렁이 10개", "지렁이 10" and "지렁이10개"
// all yield ("지렁이", 10). A missing quantity defaults to 1.
//
// Postcondition: qty >= 1 when err is nil.
func SplitNameQuantity(args []string) (name string, qty int, err error) {
	if len(args) == 0 {
		return "", 0, errors.New("item name required")
	}
	last := args[len(args)-1]
	if len(args) > 1 {
		if n, perr := ParseQuantity(last); perr == nil {
			return strings.Join(args[:len(args)-1], " "), n, nil
		}
		if strings.HasSuffix(last, "개") {
			return "", 0, ErrBadNumber
		}
	}
	if m := gluedQuantity.FindStringSubmatch(last); m != nil {
		n, perr := positive(m[2])
		if perr != nil {
			return "", 0, perr
		}
		parts := append(append([]string{}, args[:len(args)-1]...), m[1])
		return strings.Join(parts, " "), n, nil
	}
	return strings.Join(args, " "), 1, nil
}

// FirstNumber returns the first positive integer found in args, ignoring
// words such as "사용".
func FirstNumber(args []string) (int, bool) {
	for _, a := range args {
		if n, err := ParseQuantity(a); err == nil {
			return n, true
		}
		if n, err := positive(strings.TrimSuffix(a, "등급")); err == nil {
			return n, true
		}
	}
	return 0, false
}
