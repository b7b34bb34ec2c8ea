package provider

import "fmt"

// paramNames names the parameters of one method. Blank and "_" entries
// become argN for their position, suffixed until no other parameter of the
// method uses the name.
func paramNames(declared []string) []string {
	taken := make(map[string]bool, len(declared))
	for _, name := range declared {
		if !unnamed(name) {
			taken[name] = true
		}
	}

	names := make([]string, len(declared))
	for i, name := range declared {
		if !unnamed(name) {
			names[i] = name
			continue
		}
		name = fmt.Sprintf("arg%d", i)
		for k := 1; taken[name]; k++ {
			name = fmt.Sprintf("arg%d_%d", i, k)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func unnamed(name string) bool {
	return name == "" || name == "_"
}
