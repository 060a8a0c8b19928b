package i18n

// Supported languages
const (
	French  = "fr"
	English = "en"
)

// DefaultLanguage is used until a preference is stored
const DefaultLanguage = French

// table is the static string dictionary, keyed by language then dotted key
var table = map[string]map[string]string{
	French: {
		"hero.title":         "NEBULA STUDIO",
		"hero.subtitle":      "Des sites web qui brillent comme les étoiles",
		"status.particles":   "lueurs",
		"status.language":    "langue",
		"status.music.on":    "musique activée",
		"status.music.off":   "musique coupée",
		"status.help":        "[l] langue  [m] musique  [t] haut  [q] quitter",
		"toast.top":          "Retour en haut ✦",
		"toast.music.on":     "Musique activée",
		"toast.music.off":    "Musique coupée",
		"toast.language":     "Langue : français",
		"toast.audio.absent": "Audio indisponible",
	},
	English: {
		"hero.title":         "NEBULA STUDIO",
		"hero.subtitle":      "Websites that shine like the stars",
		"status.particles":   "glimmers",
		"status.language":    "language",
		"status.music.on":    "music on",
		"status.music.off":   "music off",
		"status.help":        "[l] language  [m] music  [t] top  [q] quit",
		"toast.top":          "Back to top ✦",
		"toast.music.on":     "Music on",
		"toast.music.off":    "Music off",
		"toast.language":     "Language: English",
		"toast.audio.absent": "Audio unavailable",
	},
}

// Languages returns the supported language codes
func Languages() []string {
	return []string{French, English}
}
