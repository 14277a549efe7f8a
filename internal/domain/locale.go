package domain

// Locale is a supported UI language code, e.g. "en".
type Locale string

func (l Locale) String() string {
	return string(l)
}
