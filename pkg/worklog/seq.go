package worklog

// Grouping is one key of GroupBy with the values mapped to it, in input order.
type Grouping[K comparable, V any] struct {
	Key    K
	Values []V
}

// GroupBy groups seq by key. Groups are ordered by the first occurrence of their key.
func GroupBy[V any, K comparable](seq []V, key func(V) K) []Grouping[K, V] {
	index := make(map[K]int)
	var groups []Grouping[K, V]
	for _, value := range seq {
		k := key(value)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Grouping[K, V]{Key: k})
		}
		groups[i].Values = append(groups[i].Values, value)
	}
	return groups
}

// Union maps every element to a sequence and concatenates the results in order.
func Union[T any, U any](seq []T, fn func(T) []U) []U {
	var result []U
	for _, value := range seq {
		result = append(result, fn(value)...)
	}
	return result
}

// UnionErr is Union for mapping functions that can fail. The first error stops the mapping.
func UnionErr[T any, U any](seq []T, fn func(T) ([]U, error)) ([]U, error) {
	var result []U
	for _, value := range seq {
		mapped, err := fn(value)
		if err != nil {
			return nil, err
		}
		result = append(result, mapped...)
	}
	return result, nil
}
