package logger

import "strings"

// RedactEmail keeps the first two characters of the local part and the
// domain. The split is on the last "@", which quoted local parts may contain.
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "***@***"
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return "***@" + domain
	}
	return local[:2] + "***@" + domain
}
