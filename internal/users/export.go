package users

import (
	"strconv"
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

var exportHeader = []string{"id", "email", "name", "phone", "country", "referral_code", "suspended", "blacklisted", "created_at"}

// ExportCSV renders users for download.
func ExportCSV(list []User) ([]byte, error) {
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Email,
			u.DisplayName(),
			u.Phone,
			u.Country,
			u.ReferralCode,
			strconv.FormatBool(u.Suspended),
			strconv.FormatBool(u.Blacklisted),
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return shared.WriteCSV(exportHeader, rows)
}
