package pubg

// mapNames translates internal map ids to the names players know.
var mapNames = map[string]string{
	"Baltic_Main":     "Erangel",
	"Erangel_Main":    "Erangel",
	"Chimera_Main":    "Paramo",
	"Desert_Main":     "Miramar",
	"DihorOtok_Main":  "Vikendi",
	"Heaven_Main":     "Haven",
	"Kiki_Main":       "Deston",
	"Neon_Main":       "Rondo",
	"Range_Main":      "Camp Jackal",
	"Savage_Main":     "Sanhok",
	"Summerland_Main": "Karakin",
	"Tiger_Main":      "Taego",
}

// MapDisplayName returns the public name of a map id, or the id itself when
// unknown.
func MapDisplayName(id string) string {
	if name, ok := mapNames[id]; ok {
		return name
	}
	return id
}
