package sqlite

import "strconv"

// placeholder returns the positional parameter for index n (1-based).
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
