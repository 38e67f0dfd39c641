package cities

import "strings"

// known is the static set of cities the marketplace operates in.
var known = map[string]struct{}{
	"Москва":          {},
	"Санкт-Петербург": {},
	"Новосибирск":     {},
	"Екатеринбург":    {},
	"Казань":          {},
	"Нижний Новгород": {},
	"Челябинск":       {},
	"Самара":          {},
	"Омск":            {},
	"Ростов-на-Дону":  {},
	"Уфа":             {},
	"Красноярск":      {},
	"Воронеж":         {},
	"Пермь":           {},
	"Волгоград":       {},
}

// Valid reports whether city belongs to the known set. Matching is exact
// and case-sensitive after trimming surrounding whitespace.
func Valid(city string) bool {
	_, ok := known[strings.TrimSpace(city)]
	return ok
}

// All returns the known city names in unspecified order.
func All() []string {
	out := make([]string, 0, len(known))
	for city := range known {
		out = append(out, city)
	}
	return out
}
