package loader

import "github.com/okian/handball-elo/internal/domain/model"

// defaultClubCodes maps the club names used in match headers onto the
// codes used in event rows.
var defaultClubCodes = map[string]model.ClubCode{
	"Aarhus Håndbold Kvinder":    "AHB",
	"Bjerringbro FH":             "BFH",
	"EH Aalborg":                 "EHA",
	"Horsens Håndbold Elite":     "HHE",
	"Ikast Håndbold":             "IKA",
	"København Håndbold":         "KBH",
	"Nykøbing F. Håndbold":       "NFH",
	"Odense Håndbold":            "ODE",
	"Ringkøbing Håndbold":        "RIN",
	"Silkeborg-Voel KFUM":        "SVK",
	"Voel KFUM":                  "SVK",
	"Silkeborg Voel":             "SVK",
	"Silkeborg-Voel":             "SVK",
	"Skanderborg Håndbold":       "SKB",
	"SønderjyskE Kvindehåndbold": "SJE",
	"Sønderjyske Herrehåndbold":  "SJE",
	"Team Esbjerg":               "TES",
	"Viborg HK":                  "VHK",
	"TMS Ringsted":               "TMS",
	"Aalborg Håndbold":           "AAH",
	"KIF Kolding":                "KIF",
	"GOG":                        "GOG",
	"Bjerringbro-Silkeborg":      "BSH",
	"Fredericia Håndbold Klub":   "FHK",
	"TTH Holstebro":              "TTH",
	"Mors-Thy Håndbold":          "MTH",
	"Ribe-Esbjerg HH":            "REH",
	"Nordsjælland Håndbold":      "NSH",
	"SAH - Skanderborg AGF":      "SAH",
	"Skjern Håndbold":            "SKH",
	"Grindsted GIF Håndbold":     "GIF",
}
