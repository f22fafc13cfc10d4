// Package filter turns the raw filter form into numeric criteria and the
// paginated price range query.
package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/rangewatch/internal/pagination"
)

// Query parameter names understood by the price range endpoint.
const (
	KeyAccountID    = "account_id"
	KeyStrategyType = "strategy_type"
	KeyMinAmplitude = "min_amplitude"
	KeyMaxAmplitude = "max_amplitude"
	KeyMinPosition  = "min_position"
	KeyMaxPosition  = "max_position"
	KeyMinVolume    = "min_volume"
	KeyMaxVolume    = "max_volume"
	KeySymbol       = "symbol"
	KeyPage         = "page"
	KeyPerPage      = "per_page"
)

const (
	percentScale = 100.0
	volumeScale  = 1_000_000.0
)

// Input is the raw text of the filter form. Amplitude and position are
// entered in percent, volume in millions.
type Input struct {
	MinAmplitude string
	MaxAmplitude string
	MinPosition  string
	MaxPosition  string
	MinVolume    string
	MaxVolume    string
	Symbol       string
}

// Criteria is the parsed filter. A nil bound is absent, which is not the same as zero.
type Criteria struct {
	MinAmplitude *float64
	MaxAmplitude *float64
	MinPosition  *float64
	MaxPosition  *float64
	MinVolume    *float64
	MaxVolume    *float64
	Symbol       string
}

// IsEmpty reports whether no bound and no symbol is set.
func (c Criteria) IsEmpty() bool {
	return c.MinAmplitude == nil && c.MaxAmplitude == nil &&
		c.MinPosition == nil && c.MaxPosition == nil &&
		c.MinVolume == nil && c.MaxVolume == nil &&
		c.Symbol == ""
}

// Collect parses the form. Empty, unparseable and non-finite values are
// dropped without error.
func Collect(in Input) Criteria {
	return Criteria{
		MinAmplitude: fromPercent(in.MinAmplitude),
		MaxAmplitude: fromPercent(in.MaxAmplitude),
		MinPosition:  fromPercent(in.MinPosition),
		MaxPosition:  fromPercent(in.MaxPosition),
		MinVolume:    fromMillions(in.MinVolume),
		MaxVolume:    fromMillions(in.MaxVolume),
		Symbol:       strings.ToUpper(strings.TrimSpace(in.Symbol)),
	}
}

func fromPercent(raw string) *float64 {
	v, ok := parse(raw)
	if !ok {
		return nil
	}
	v /= percentScale
	return &v
}

func fromMillions(raw string) *float64 {
	v, ok := parse(raw)
	if !ok {
		return nil
	}
	v *= volumeScale
	return &v
}

func parse(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(numericPrefix(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// numericPrefix returns the longest leading decimal literal of s, so "12abc"
// and "5%" read as 12 and 5. An exponent counts only when digits follow it.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for ; k < len(s) && isDigit(s[k]); k++ {
		}
		if k > j {
			end = k
		}
	}
	return s[:end]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Input renders the criteria back into form text, the inverse of Collect
// up to float formatting.
func (c Criteria) Input() Input {
	return Input{
		MinAmplitude: unscaled(c.MinAmplitude, percentScale),
		MaxAmplitude: unscaled(c.MaxAmplitude, percentScale),
		MinPosition:  unscaled(c.MinPosition, percentScale),
		MaxPosition:  unscaled(c.MaxPosition, percentScale),
		MinVolume:    unscaledVolume(c.MinVolume),
		MaxVolume:    unscaledVolume(c.MaxVolume),
		Symbol:       c.Symbol,
	}
}

func unscaled(v *float64, factor float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v * factor)
}

func unscaledVolume(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v / volumeScale)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Param is one query key/value pair.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of parameters.
type Query []Param

// Get returns the value of key and whether it is present.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the query in insertion order.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Scope identifies whose symbols are listed.
type Scope struct {
	AccountID    string
	StrategyType string
}

// BuildQuery produces the price range query for criteria at page.
func BuildQuery(scope Scope, c Criteria, page pagination.Page) Query {
	q := Query{
		{KeyAccountID, scope.AccountID},
		{KeyStrategyType, scope.StrategyType},
	}
	add := func(key string, v *float64) {
		if v != nil {
			q = append(q, Param{key, formatFloat(*v)})
		}
	}
	add(KeyMinAmplitude, c.MinAmplitude)
	add(KeyMaxAmplitude, c.MaxAmplitude)
	add(KeyMinPosition, c.MinPosition)
	add(KeyMaxPosition, c.MaxPosition)
	add(KeyMinVolume, c.MinVolume)
	add(KeyMaxVolume, c.MaxVolume)
	if c.Symbol != "" {
		q = append(q, Param{KeySymbol, c.Symbol})
	}
	q = append(q,
		Param{KeyPage, strconv.Itoa(page.Number)},
		Param{KeyPerPage, strconv.Itoa(page.Size)},
	)
	return q
}
