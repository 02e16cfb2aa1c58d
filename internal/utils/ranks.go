package utils

// CreateRankList returns 1-based ranks for count already-sorted items.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
