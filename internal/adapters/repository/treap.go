package repository

import "github.com/cespare/xxhash/v2"

// Treap ordered by rating DESC, then id ASC, so an in-order walk yields
// the leaderboard from best to worst. Priorities are a hash of the id,
// which keeps the shape independent of insertion order.

type node struct {
	id     string
	rating float64
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aRating, aID) ranks before (bRating, bID).
func less(aRating float64, aID string, bRating float64, bID string) bool {
	if aRating != bRating {
		return aRating > bRating
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, rating float64) *node {
	if n == nil {
		return &node{id: id, rating: rating, prio: xxhash.Sum64String(id), size: 1}
	}
	if less(rating, id, n.rating, n.id) {
		n.left = insert(n.left, id, rating)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, rating)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, id string, rating float64) *node {
	if n == nil {
		return nil
	}
	switch {
	case rating == n.rating && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, rating)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, rating)
		}
	case less(rating, id, n.rating, n.id):
		n.left = remove(n.left, id, rating)
	default:
		n.right = remove(n.right, id, rating)
	}
	fix(n)
	return n
}

// countAbove returns the number of nodes rated strictly higher than rating.
func countAbove(n *node, rating float64) int {
	c := 0
	for n != nil {
		if n.rating > rating {
			c += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return c
}

// collect appends up to limit rows in rank order; limit < 0 means all.
func collect(n *node, limit int, out *[]Entry) {
	if n == nil || (limit >= 0 && len(*out) >= limit) {
		return
	}
	collect(n.left, limit, out)
	if limit < 0 || len(*out) < limit {
		*out = append(*out, Entry{ID: n.id, Rating: n.rating})
	}
	collect(n.right, limit, out)
}

// assignRanks gives equal ratings the same rank and skips the positions
// they share (1, 2, 2, 4).
func assignRanks(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Rating == entries[i-1].Rating {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
