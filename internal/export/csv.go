package export

import (
	"strings"

	"github.com/lotas/onehandle/internal/types"
)

// CSV renders the tab sequence as tabular text: a Title,URL,Domain
// header followed by one always-quoted row per tab. Embedded quotes in
// the title are escaped by doubling. encoding/csv quotes conditionally
// and can't produce this format.
func CSV(tabs []types.TabRecord) []byte {
	var b strings.Builder
	b.WriteString("Title,URL,Domain\n")
	for i, tab := range tabs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(tab.Title, `"`, `""`))
		b.WriteString(`","`)
		b.WriteString(tab.URL)
		b.WriteString(`","`)
		b.WriteString(tab.Domain)
		b.WriteByte('"')
	}
	return []byte(b.String())
}
