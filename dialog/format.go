package dialog

import (
	"fmt"
	"html"
	"strings"

	"github.com/Fideloin/carrier-bot/trips"
)

// displayDate renders the stored date, showing the skipped leg as "-".
func displayDate(date string) string {
	if date == "" || date == trips.SentinelDate {
		return "-"
	}
	return date
}

// contactLink renders the owner as a tg://user link, which is clickable
// without exposing anything beyond the public profile.
func contactLink(trip trips.Trip) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, trip.OwnerID, html.EscapeString(trip.FirstName))
}

func tripDetails(trip trips.Trip) string {
	return fmt.Sprintf("Дата поездки в Беларусь: %s,\nДата поездки в Испанию: %s,\nПримечание: %s\n\n",
		displayDate(trip.ToBelarusDate),
		displayDate(trip.ToSpainDate),
		html.EscapeString(trip.Note),
	)
}

// formatSearchResults renders month-search matches as a numbered HTML list.
func formatSearchResults(list []trips.Trip) string {
	var b strings.Builder
	for i, trip := range list {
		fmt.Fprintf(&b, "%d. %s,\n", i+1, contactLink(trip))
		b.WriteString(tripDetails(trip))
	}
	return b.String()
}

// formatMyTrips renders the owner's trips, previewing the contact exactly
// as a searcher would see it.
func formatMyTrips(list []trips.Trip) string {
	if len(list) == 0 {
		return noTripsText
	}
	b := strings.Builder{}
	b.WriteString(myTripsHeaderText)
	for i, trip := range list {
		fmt.Fprintf(&b, "%d. Ваш контакт, как он отобразится в поиске: %s,\n", i+1, contactLink(trip))
		b.WriteString(tripDetails(trip))
	}
	return b.String()
}
