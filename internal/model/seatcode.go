package model

import (
	"strconv"
	"strings"
)

// SeatCode joins a row letter and a 1-based column, e.g. "B3".
func SeatCode(row string, column int) string {
	return row + strconv.Itoa(column)
}

// RowLetter returns the letter of the zero-based row index: 0→A, 25→Z, 26→AA.
func RowLetter(index int) string {
	var b []byte
	for index >= 0 {
		b = append([]byte{byte('A' + index%26)}, b...)
		index = index/26 - 1
	}
	return string(b)
}

// SplitSeatCode splits "B3" into ("B", 3). Malformed codes return column 0.
func SplitSeatCode(code string) (string, int) {
	code = strings.TrimSpace(code)
	i := 0
	for i < len(code) && code[i] >= 'A' && code[i] <= 'Z' {
		i++
	}
	col, err := strconv.Atoi(code[i:])
	if err != nil {
		return code[:i], 0
	}
	return code[:i], col
}
