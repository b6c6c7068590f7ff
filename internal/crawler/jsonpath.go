package crawler

// node is a lightweight path walker over decoded JSON (map[string]any),
// tolerant of missing fields the way the site payloads require.
type node struct {
	value any
}

func newNode(value any) node {
	return node{value: value}
}

func (n node) path(fields ...string) node {
	current := n.value
	for _, field := range fields {
		m, ok := current.(map[string]any)
		if !ok {
			return node{}
		}
		current = m[field]
	}
	return node{value: current}
}

func (n node) missing() bool {
	return n.value == nil
}

func (n node) text() string {
	if s, ok := n.value.(string); ok {
		return s
	}
	return ""
}

func (n node) boolean(fallback bool) bool {
	if b, ok := n.value.(bool); ok {
		return b
	}
	return fallback
}

func (n node) integer(fallback int) int {
	switch v := n.value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func (n node) array() []node {
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}
	nodes := make([]node, 0, len(arr))
	for _, item := range arr {
		nodes = append(nodes, node{value: item})
	}
	return nodes
}

func (n node) has(field string) bool {
	m, ok := n.value.(map[string]any)
	if !ok {
		return false
	}
	_, found := m[field]
	return found
}

func firstText(candidates ...node) string {
	for _, c := range candidates {
		if t := c.text(); t != "" {
			return t
		}
	}
	return ""
}

func firstInt(fallback int, candidates ...node) int {
	for _, c := range candidates {
		if !c.missing() {
			if v := c.integer(0); v != 0 {
				return v
			}
		}
	}
	return fallback
}
