package formatting

import (
	"encoding/json"
	"fmt"
	"strings"

	"bundletest/internal/spec"
	"bundletest/internal/suite"
)

// PrettyJSON formats any value as indented JSON for human-readable display.
// It falls back to fmt.Sprintf when the value cannot be marshaled.
//
// Example:
//
//	data := map[string]interface{}{"name": "test", "value": 42}
//	fmt.Println(formatting.PrettyJSON(data))
//	// Output:
//	// {
//	//   "name": "test",
//	//   "value": 42
//	// }
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// entry is one test in run order together with the suites enclosing it.
type entry struct {
	path []string
	spec *spec.Spec
}

func (e entry) suitePath() string {
	return strings.Join(e.path, "/")
}

// flatten walks s in run order.
func flatten(s *suite.Suite) []entry {
	var out []entry
	var walk func(s *suite.Suite, path []string)
	walk = func(s *suite.Suite, path []string) {
		path = append(append([]string(nil), path...), s.Name)
		for _, e := range s.Elements() {
			switch {
			case e.Spec != nil:
				out = append(out, entry{path: path, spec: e.Spec})
			case e.Suite != nil:
				walk(e.Suite, path)
			}
		}
	}
	walk(s, nil)
	return out
}

// shellJoin quotes arguments that contain whitespace.
func shellJoin(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\n'\"") {
			parts[i] = fmt.Sprintf("%q", arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}
