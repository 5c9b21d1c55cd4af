package util

import (
	"errors"
	"strconv"
	"strings"
)

// ParsePrice converts a decimal zł string ("10.00") to grosz. At most
// two decimal places are accepted.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty price")
	}
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > 2 {
		return 0, errors.New("too many decimal places")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return int64(f*100 - 0.5), nil
	}
	return int64(f*100 + 0.5), nil
}

// FormatPrice renders grosz as a zł string with two decimals.
func FormatPrice(grosz int64) string {
	return strconv.FormatFloat(float64(grosz)/100.0, 'f', 2, 64)
}
