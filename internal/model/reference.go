package model

// Reference names one of the prayer-time readouts published for the
// current day. Values match the keys used in the remote rule list.
type Reference string

const (
	RefFajrBegin    Reference = "fajr_begin"
	RefFajrJamaah   Reference = "fajr_jamaah"
	RefSunrise      Reference = "sunrise"
	RefZawal        Reference = "zawal"
	RefZohrBegin    Reference = "zohr_begin"
	RefZohrJamaah   Reference = "zohr_jamaah"
	RefAsrBegin     Reference = "asr_begin"
	RefAsrJamaah    Reference = "asr_jamaah"
	RefMagribBegin  Reference = "magrib_begin"
	RefMagribJamaah Reference = "magrib_jamaah"
	RefIshaBegin    Reference = "isha_begin"
	RefIshaJamaah   Reference = "isha_jamaah"
)

// JamaahReferences lists the congregational prayer references in day order.
var JamaahReferences = []Reference{
	RefFajrJamaah,
	RefZohrJamaah,
	RefAsrJamaah,
	RefMagribJamaah,
	RefIshaJamaah,
}

// Valid reports whether r is one of the known reference names.
func (r Reference) Valid() bool {
	switch r {
	case RefFajrBegin, RefFajrJamaah, RefSunrise, RefZawal,
		RefZohrBegin, RefZohrJamaah, RefAsrBegin, RefAsrJamaah,
		RefMagribBegin, RefMagribJamaah, RefIshaBegin, RefIshaJamaah:
		return true
	}
	return false
}
