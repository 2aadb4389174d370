package airports

import (
	"sort"
	"strings"
)

// Hub tables backing regional queries ("cheapest to Europe"). The intent
// prompt lists these so the extractor fans broad queries out across real
// airports instead of inventing codes.
var regionHubs = map[string][]string{
	"europe": {
		"CDG", "LHR", "AMS", "FRA", "MAD", "BCN", "FCO", "MXP",
		"VIE", "ZRH", "CPH", "DUB", "BRU", "ATH", "LIS",
	},
	"asia": {
		"HND", "ICN", "SIN", "BKK", "HKG", "TPE", "KUL", "PVG",
		"DEL", "BOM", "DXB", "DOH", "MNL", "CGK", "HAN",
	},
	"latin america": {
		"GRU", "GIG", "MEX", "BOG", "LIM", "SCL", "EZE", "PTY",
		"UIO", "CUN", "MDE", "BSB", "GDL", "MVD", "SJO",
	},
	"southeast asia": {
		"BKK", "SIN", "KUL", "CGK", "MNL", "HAN", "SGN", "PNH", "RGN", "DPS",
	},
	"mediterranean": {
		"FCO", "ATH", "BCN", "MAD", "LIS", "IST", "TLV", "VCE", "NAP", "NCE",
	},
}

var cityAirports = map[string][]string{
	"new york":      {"JFK", "EWR", "LGA"},
	"paris":         {"CDG", "ORY"},
	"london":        {"LHR", "LGW", "STN", "LTN"},
	"san francisco": {"SFO", "OAK", "SJC"},
	"washington":    {"DCA", "IAD", "BWI"},
	"miami":         {"MIA", "FLL"},
	"los angeles":   {"LAX", "BUR", "ONT"},
	"chicago":       {"ORD", "MDW"},
	"tokyo":         {"NRT", "HND"},
	"boston":        {"BOS"},
	"seattle":       {"SEA"},
	"denver":        {"DEN"},
	"atlanta":       {"ATL"},
	"dallas":        {"DFW"},
}

// HubsForRegion returns the hub airports for a region name, or nil when
// the region is unknown.
func HubsForRegion(region string) []string {
	hubs, ok := regionHubs[strings.ToLower(strings.TrimSpace(region))]
	if !ok {
		return nil
	}
	out := make([]string, len(hubs))
	copy(out, hubs)
	return out
}

// AirportsForCity returns the airports serving a city, or nil when the
// city is unknown.
func AirportsForCity(city string) []string {
	codes, ok := cityAirports[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return nil
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

func Regions() []string {
	names := make([]string, 0, len(regionHubs))
	for name := range regionHubs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Cities() []string {
	names := make([]string, 0, len(cityAirports))
	for name := range cityAirports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidCode reports whether code looks like an IATA airport code.
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
