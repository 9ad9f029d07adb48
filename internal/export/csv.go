package export

import (
	"strings"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

// CSV renders apps with a header row. Every field is wrapped in double
// quotes with embedded quotes doubled; rows are joined by "\n" with no
// trailing newline.
func CSV(apps []domain.Application) []byte {
	var b strings.Builder

	writeRow(&b, Columns)
	for _, app := range apps {
		b.WriteByte('\n')
		writeRow(&b, row(app))
	}

	return []byte(b.String())
}

func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
}
