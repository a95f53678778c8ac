package sexy

import "fmt"

// Match reports whether got has the shape of pattern. In a pattern the
// symbol _ matches any single datum and ... inside a list matches any
// number of items. The error names the first mismatching position.
func Match(pattern, got *Node) error {
	return match(pattern, got, "root")
}

func isWildcard(n *Node) bool {
	return n.Type == NodeSymbol && n.Text == "_"
}

func match(pattern, got *Node, path string) error {
	if isWildcard(pattern) {
		return nil
	}
	if pattern.Type != got.Type {
		return fmt.Errorf("at %s: expected %s %s, got %s %s", path, pattern.Type, pattern, got.Type, got)
	}
	if pattern.Type != NodeList {
		if pattern.Text != got.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, got)
		}
		return nil
	}
	if !matchItems(pattern.Items, got.Items) {
		// Find a useful position to blame.
		for i, p := range pattern.Items {
			if p.Type == NodeEllipsis {
				break
			}
			if i >= len(got.Items) {
				return fmt.Errorf("at %s: expected %s, got %s (too few items)", path, pattern, got)
			}
			if err := match(p, got.Items[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return fmt.Errorf("at %s: expected %s, got %s", path, pattern, got)
	}
	return nil
}

func matchItems(patterns, items []*Node) bool {
	if len(patterns) == 0 {
		return len(items) == 0
	}
	if patterns[0].Type == NodeEllipsis {
		for skip := 0; skip <= len(items); skip++ {
			if matchItems(patterns[1:], items[skip:]) {
				return true
			}
		}
		return false
	}
	if len(items) == 0 || match(patterns[0], items[0], "") != nil {
		return false
	}
	return matchItems(patterns[1:], items[1:])
}
