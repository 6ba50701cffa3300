package service

import "strings"

// countryNames resolves the ISO codes used by the collection layer to full
// names for AI prompts and insights.
var countryNames = map[string]string{
	"AR": "Argentina", "BD": "Bangladesh", "BR": "Brazil", "CA": "Canada",
	"CL": "Chile", "CO": "Colombia", "DE": "Germany", "EG": "Egypt",
	"ES": "Spain", "FR": "France", "GB": "United Kingdom", "GR": "Greece",
	"ID": "Indonesia", "IN": "India", "IT": "Italy", "JP": "Japan",
	"KE": "Kenya", "KR": "South Korea", "MX": "Mexico", "MY": "Malaysia",
	"NG": "Nigeria", "PH": "Philippines", "PK": "Pakistan", "PL": "Poland",
	"SA": "Saudi Arabia", "TH": "Thailand", "TR": "Turkey", "US": "United States",
	"VN": "Vietnam", "ZA": "South Africa",
}

// CountryName returns the full country name for an ISO code, or the code
// itself when unknown.
func CountryName(code string) string {
	if name, ok := countryNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}
