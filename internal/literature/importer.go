package literature

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var priceSpaces = strings.NewReplacer(" ", "", "\t", "", " ", "")

// ParseCatalog parses the line-oriented catalog format: one item per
// non-empty line, tab-separated type, title and price. The title may
// itself contain tabs, so the first field is the type and the last one
// the price. Prices accept either a comma or a dot as the decimal
// separator and may contain stray whitespace; they are converted to
// minor currency units. sortOrder is the 1-based position among the
// non-empty lines.
func ParseCatalog(raw string) ([]Literature, error) {
	var items []Literature
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lineNo := len(items) + 1

		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid line %d: expected \"<type>\\t<title>\\t<price>\", got %q", lineNo, line)
		}

		typ := strings.TrimSpace(parts[0])
		priceRaw := strings.TrimSpace(parts[len(parts)-1])
		title := strings.TrimSpace(strings.Join(parts[1:len(parts)-1], "\t"))
		if typ == "" || title == "" || priceRaw == "" {
			return nil, fmt.Errorf("invalid line %d: expected \"<type>\\t<title>\\t<price>\", got %q", lineNo, line)
		}

		price, err := parsePrice(priceRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid price at line %d: %q", lineNo, priceRaw)
		}

		items = append(items, Literature{
			Type:      typ,
			Title:     title,
			Price:     price,
			SortOrder: lineNo,
		})
	}
	return items, nil
}

func parsePrice(raw string) (int64, error) {
	s := priceSpaces.Replace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price")
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
