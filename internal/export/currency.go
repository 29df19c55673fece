package export

import (
	"fmt"
	"math"
	"strings"
)

// FormatEUR renders an amount as Euro currency using el-GR conventions
// (dot thousands grouping, comma decimals, trailing euro sign), the format
// used in exported documents regardless of the display language.
// Rounding to two decimals happens here, at render time only.
func FormatEUR(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	euros := cents / 100
	rem := cents % 100

	digits := fmt.Sprintf("%d", euros)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	sign := ""
	if amount < 0 && cents > 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s,%02d €", sign, strings.Join(groups, "."), rem)
}
