package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ      = regexp.MustCompile(`^[\p{L}\p{N} _'\-]{1,50}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSlug   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	reGender = regexp.MustCompile(`^(men|women|children)$`)
	reSort   = regexp.MustCompile(`^(price-asc|price-desc|name-asc|name-desc|newest)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length.
// Georgian letters are allowed.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 50 {
		s = string([]rune(s)[:50])
	}
	return s, reQ.MatchString(s)
}

// Qty parses an add-to-cart quantity, clamped to 1..50.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// SetQty parses an absolute cart quantity. Zero and negatives are passed
// through (they remove the line); garbage is rejected.
func SetQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if n > 50 {
		n = 50
	}
	return n, true
}

// ID validates a simple resource identifier (product/order/user ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 80 && reSlug.MatchString(s)
}

const (
	maxOptionLen = 100
	maxLineLen   = 64 + 2*maxOptionLen + 2
)

// printable reports whether s is non-empty, at most limit runes and free of
// control characters.
func printable(s string, limit int) bool {
	if s == "" || utf8.RuneCountInString(s) > limit || !utf8.ValidString(s) {
		return false
	}
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

// LineID validates a cart line key such as chokha-1-L-black. Sizes and
// colors are free-form catalog labels, so only length and control
// characters are checked.
func LineID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, printable(s, maxLineLen)
}

// Option validates a size or color value. Empty is allowed and means "none".
// Membership in the product's own lists is checked by the cart service.
func Option(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, printable(s, maxOptionLen)
}

func Gender(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reGender.MatchString(s)
}

func Sort(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSort.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 50 {
		return "", false
	}
	return s, true
}

// Password enforces the account password policy: 8-20 characters with a
// lower, an upper, a digit and a symbol.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// PhoneDigits counts digits, ignoring spaces, +, dashes and parentheses.
// Any other character makes the number invalid (-1).
func PhoneDigits(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case '0' <= r && r <= '9':
			n++
		case r == ' ' || r == '+' || r == '-' || r == '(' || r == ')':
		default:
			return -1
		}
	}
	return n
}
