package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Paise represents a rupee amount in integer paise (1/100 rupee) to
// eliminate floating-point errors in balance arithmetic. The upstream CRM
// speaks rupee numbers on the wire; conversion happens at the JSON boundary.
type Paise int64

// Rupees returns a Paise value for a whole-rupee amount.
func Rupees(r int64) Paise { return Paise(r * 100) }

// ParsePaise parses a decimal rupee string ("2000", "1234.50") into paise.
// At most two fraction digits are accepted.
func ParsePaise(s string) (Paise, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two fraction digits", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	// w*100+f must stay inside int64.
	if w > (math.MaxInt64-f)/100 {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	p := Paise(w*100 + f)
	if neg {
		p = -p
	}
	return p, nil
}

// String formats the amount as a decimal rupee string without a currency sign.
func (p Paise) String() string {
	neg := p < 0
	if neg {
		p = -p
	}
	s := fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
	if neg {
		s = "-" + s
	}
	return s
}

// MarshalJSON emits the amount as a rupee number, the shape the upstream
// CRM expects. Whole-rupee amounts are written without a fraction.
func (p Paise) MarshalJSON() ([]byte, error) {
	if p%100 == 0 {
		return []byte(strconv.FormatInt(int64(p)/100, 10)), nil
	}
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts rupee amounts as JSON numbers or numeric strings.
// The raw token is parsed as decimal text, never through a float64, so
// "2000.01" always lands on 200001 paise exactly.
func (p *Paise) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" || s == "" {
		*p = 0
		return nil
	}
	v, err := ParsePaise(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
