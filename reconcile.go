package identity

// Delta is the minimal add/remove set computed by Diff. Applying ToRemove
// then ToAdd to the current set yields a set key-equal to the desired one.
type Delta[T any] struct {
	ToAdd    []T
	ToRemove []T
}

// IsZero reports whether the delta carries no work.
func (d Delta[T]) IsZero() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Diff computes the symmetric-difference delta between current and desired,
// keyed by keyOf. Neither input is mutated.
//
// Comparison is by key presence alone: a desired item whose key already
// exists in current is treated as satisfied even when its payload differs
// (two claims sharing a Type but not a Value are the same item here).
// Updating a payload under an existing key therefore requires removing the
// key first. Duplicate keys within one input count once; the first occurrence
// wins.
func Diff[T any, K comparable](current, desired []T, keyOf func(T) K) Delta[T] {
	currentKeys := make(map[K]struct{}, len(current))
	for _, item := range current {
		currentKeys[keyOf(item)] = struct{}{}
	}

	desiredKeys := make(map[K]struct{}, len(desired))
	var delta Delta[T]

	for _, item := range desired {
		key := keyOf(item)
		if _, dup := desiredKeys[key]; dup {
			continue
		}
		desiredKeys[key] = struct{}{}
		if _, exists := currentKeys[key]; !exists {
			delta.ToAdd = append(delta.ToAdd, item)
		}
	}

	seen := make(map[K]struct{}, len(current))
	for _, item := range current {
		key := keyOf(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, wanted := desiredKeys[key]; !wanted {
			delta.ToRemove = append(delta.ToRemove, item)
		}
	}

	return delta
}

// DiffRoles diffs role-name assignments.
func DiffRoles(current, desired []string) Delta[string] {
	return Diff(current, desired, func(name string) string { return name })
}

// DiffClaims diffs claim assignments, keyed on claim Type.
func DiffClaims(current, desired []Claim) Delta[Claim] {
	return Diff(current, desired, Claim.Key)
}
