// Package page lays role buttons out across messages.
package page

import "RoleBoard/cons"

type Header struct {
	Title       string
	Description string
}

type Button struct {
	CustomID string
	Label    string
}

// Page is one message. Embed is nil on every page but the first role page.
type Page struct {
	Embed    *Header
	Controls []Button
}

// Plan splits roles into pages of at most cons.ButtonsPerPage controls, in input order.
// A non-empty batch list becomes one extra trailing page without an embed.
func Plan(header Header, roles []Button, batch []Button) []Page {
	pages := []Page{}

	for start := 0; start < len(roles); start += cons.ButtonsPerPage {
		end := start + cons.ButtonsPerPage
		if end > len(roles) {
			end = len(roles)
		}

		p := Page{Controls: append([]Button{}, roles[start:end]...)}
		if start == 0 {
			h := header
			p.Embed = &h
		}
		pages = append(pages, p)
	}

	if len(batch) > 0 {
		pages = append(pages, Page{Controls: append([]Button{}, batch...)})
	}
	return pages
}
