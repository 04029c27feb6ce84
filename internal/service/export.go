package service

import (
	"context"
	"strings"

	"github.com/UdayIge/User-Management-System/internal/apperr"
)

var csvHeader = []string{
	"ID", "First Name", "Last Name", "Full Name", "Email",
	"Mobile", "Gender", "Status", "Location", "Created At",
}

// ExportCSV renders the full record set, newest first, as CSV text. Every
// field is double-quoted with embedded quotes doubled, so any value
// round-trips through a standard CSV parser.
func (s *UserService) ExportCSV(ctx context.Context) (string, error) {
	users, err := s.repo.All(ctx)
	if err != nil {
		return "", apperr.Internal(err)
	}

	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, u := range users {
		b.WriteByte('\n')
		writeRow(&b, []string{
			u.ID.Hex(),
			u.FirstName,
			u.LastName,
			u.FullName(),
			u.Email,
			u.Mobile,
			string(u.Gender),
			string(u.Status),
			u.Location,
			u.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		})
	}
	return b.String(), nil
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}
