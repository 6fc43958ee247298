package args

import "strings"

type splitState int

const (
	outside splitState = iota
	oneOpen
	inside
	oneClose
)

// splitToken cuts a command token into literal text and `{{...}}`
// placeholder parts, keeping their order. Joining the parts yields the
// token again.
func splitToken(token string) []string {
	var (
		parts   []string
		current strings.Builder
		state   = outside
	)

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, c := range token {
		switch c {
		case '{':
			switch state {
			case outside:
				state = oneOpen
			case oneOpen:
				flush()
				current.WriteString("{{")
				state = inside
			default:
				current.WriteRune('{')
				state = inside
			}
		case '}':
			switch state {
			case oneOpen:
				current.WriteString("{}")
				state = outside
			case inside:
				current.WriteRune('}')
				state = oneClose
			case oneClose:
				current.WriteRune('}')
				flush()
				state = outside
			default:
				current.WriteRune('}')
			}
		default:
			switch state {
			case oneOpen:
				current.WriteRune('{')
				current.WriteRune(c)
				state = outside
			case oneClose:
				current.WriteRune(c)
				state = inside
			default:
				current.WriteRune(c)
			}
		}
	}

	if state == oneOpen {
		current.WriteRune('{')
	}
	flush()

	return parts
}

// placeholder reports the input name a `{{name}}` or `{{name...}}` part
// refers to.
func placeholder(part string) (name string, array bool, ok bool) {
	if len(part) < 4 || !strings.HasPrefix(part, "{{") || !strings.HasSuffix(part, "}}") {
		return "", false, false
	}
	name = part[2 : len(part)-2]
	if n, found := strings.CutSuffix(name, "..."); found {
		return n, true, true
	}
	return name, false, true
}
