package service

import "strconv"

// rowLabelToIndex converts a row label like A or AA into its zero-based index.
func rowLabelToIndex(label string) (int, bool) {
	if label == "" {
		return -1, false
	}
	n := 0
	for i := 0; i < len(label); i++ {
		ch := label[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 32
		}
		if ch < 'A' || ch > 'Z' {
			return -1, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}

// indexToRowLabel converts a zero-based index to an alphabetical row
// label like A, B, AA.
func indexToRowLabel(i int) string {
	if i < 0 {
		return ""
	}
	res := []byte{}
	for {
		rem := i % 26
		res = append(res, byte('A'+rem))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// gridCoordinates enumerates every (horizontal, vertical) pair of a
// rectangular grid bounded by the given labels, row-major.  Returns
// false when either bound is malformed.
func gridCoordinates(maxHorizontal, maxVertical string) ([][2]string, bool) {
	rows, ok := rowLabelToIndex(maxHorizontal)
	if !ok {
		return nil, false
	}
	cols, err := strconv.Atoi(maxVertical)
	if err != nil || cols < 1 {
		return nil, false
	}
	coords := make([][2]string, 0, (rows+1)*cols)
	for r := 0; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			coords = append(coords, [2]string{indexToRowLabel(r), strconv.Itoa(c)})
		}
	}
	return coords, true
}
