package catalog

// DefaultTranslation is the translation a fresh install starts with.
const DefaultTranslation = "kjv"

type Translation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var translations = []Translation{
	{ID: "kjv", Name: "King James Version"},
	{ID: "web", Name: "World English Bible"},
	{ID: "asv", Name: "American Standard Version"},
	{ID: "bbe", Name: "Bible in Basic English"},
	{ID: "darby", Name: "Darby Bible"},
	{ID: "ylt", Name: "Young's Literal Translation"},
}

// Translations lists the translations offered in settings.
func Translations() []Translation {
	out := make([]Translation, len(translations))
	copy(out, translations)
	return out
}

func LookupTranslation(id string) (Translation, bool) {
	for _, t := range translations {
		if t.ID == id {
			return t, true
		}
	}
	return Translation{}, false
}
