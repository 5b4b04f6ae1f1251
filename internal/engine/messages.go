package engine

import "github.com/masjidtech/minaret/internal/prayer"

// Standby and built-in recurring messages. Control rules hide the built-ins
// by ID; the default is always available.
const (
	DefaultMessage = "SILENCE, PLEASE. WE ARE IN THE HOUSE OF ALLAH. KINDLY TURN OFF YOUR MOBILE."

	thursdayDaroodMessage = "DUROOD/SALAT-ALA-NABI صلى الله عليه وسلم GATHERING • THURSDAY AFTER MAGRIB"
	fridayTafseerMessage  = "TAFSEER OF THE QUR'AN • SURAH QAAF • FRIDAY AFTER MAGRIB"

	clocksForwardMessage  = "REMEMBER CLOCKS GO FORWARD 1 HOUR THIS SUNDAY"
	clocksBackwardMessage = "REMEMBER CLOCKS GO BACKWARD 1 HOUR THIS SUNDAY"
)

// IDs the Control rule variant can target.
const (
	BuiltinThursdayDarood = "thursday_darood"
	BuiltinFridayTafseer  = "friday_tafseer"
	BuiltinClockChange    = "clock_change_reminder"
)

// Windows for the no-salah warnings, in minutes.
const (
	sunriseWarningMinutes = 15
	zawalWarningMinutes   = 10
	sunsetWarningMinutes  = 10
)

func sunriseWarning(sunrise string) string {
	return "NO SALAH AFTER SUNRISE (" + prayer.FormatAmPm(sunrise) + ") • Please Wait Until " +
		prayer.FormatAmPm(prayer.AddMinutes(sunrise, sunriseWarningMinutes))
}

func zawalWarning(zawal, zohrBegin string) string {
	return "NO SALAH AT ZAWAL TIME (" + prayer.FormatAmPm(zawal) + ") • Please Wait for Zohr to Begin (" +
		prayer.FormatAmPm(zohrBegin) + ")"
}

func sunsetWarning(magribBegin string) string {
	return "NO SALAH DURING SUNSET • Please Wait for Magrib Adhan (" + prayer.FormatAmPm(magribBegin) + ")"
}
