// Package domriatest собирает HTML в разметке dom.ria и поднимает фейковый сайт для тестов.
package domriatest

import (
	"fmt"
	"html"
	"strings"
)

// Card - карточка индексной страницы. Пустой City или Address не выводит якорь вовсе.
type Card struct {
	Href    string
	City    string
	Areas   []string
	Subway  string
	Address string
}

// Detail - детальная страница. Пустые поля не выводятся.
type Detail struct {
	Price        string
	PricePerArea string
	TotalArea    string // "50 m2"
	FloorLine    string // "3 поверх з 9"
	RoomsLine    string // "2 кімнати"
	NewBuilding  string // "ЖК Сонячний"
}

// IndexHTML рендерит индексную страницу. totalPages <= 0 - без пагинации.
func IndexHTML(cards []Card, totalPages int) []byte {
	var b strings.Builder
	b.WriteString("<html><body><div id=\"catalog\">\n")
	for _, c := range cards {
		b.WriteString("<section class=\"realty-item\">\n")
		fmt.Fprintf(&b, "  <a class=\"realtyPhoto\" href=\"%s\"><img></a>\n", html.EscapeString(c.Href))
		b.WriteString("  <div class=\"wrap_desc\">\n")
		if c.Address != "" {
			fmt.Fprintf(&b, "    <h2 class=\"tit\"><a class=\"blue\" href=\"%s\"><b>%s</b></a></h2>\n",
				html.EscapeString(c.Href), html.EscapeString(c.Address))
		}
		b.WriteString("    <div class=\"mt-5\">\n")
		if c.City != "" {
			fmt.Fprintf(&b, "      <a data-level=\"city\">%s</a>\n", html.EscapeString(c.City))
		}
		for _, area := range c.Areas {
			fmt.Fprintf(&b, "      <a data-level=\"area\">%s</a>\n", html.EscapeString(area))
		}
		if c.Subway != "" {
			fmt.Fprintf(&b, "      <a data-level=\"metro\">  %s  </a>\n", html.EscapeString(c.Subway))
		}
		b.WriteString("    </div>\n  </div>\n</section>\n")
	}
	b.WriteString("</div>\n")

	if totalPages > 0 {
		b.WriteString("<div id=\"pagination\">\n")
		for _, label := range paginationLabels(totalPages) {
			fmt.Fprintf(&b, "  <a class=\"page-link\">%s</a>\n", label)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</body></html>")
	return []byte(b.String())
}

// сайт показывает первые страницы, многоточие и последнюю
func paginationLabels(total int) []string {
	var labels []string
	for i := 1; i <= total && i <= 3; i++ {
		labels = append(labels, fmt.Sprint(i))
	}
	if total > 4 {
		labels = append(labels, "...")
	}
	if total > 3 {
		labels = append(labels, fmt.Sprint(total))
	}
	return labels
}

// DetailHTML рендерит детальную страницу объявления
func DetailHTML(d Detail) []byte {
	var b strings.Builder
	b.WriteString("<html><body>\n<div id=\"showLeftBarView\"><div class=\"price\">\n")
	if d.Price != "" {
		fmt.Fprintf(&b, "  <b class=\"size30\">%s</b>\n", html.EscapeString(d.Price))
	}
	if d.PricePerArea != "" {
		fmt.Fprintf(&b, "  <span class=\"pricePerM\">%s</span>\n", html.EscapeString(d.PricePerArea))
	}
	b.WriteString("</div></div>\n<ul class=\"main-list\">\n  <li>Тип пропозиції: від власника</li>\n")
	if d.TotalArea != "" {
		fmt.Fprintf(&b, "  <li>Загальна площа: %s</li>\n", html.EscapeString(d.TotalArea))
	}
	b.WriteString("</ul>\n<div id=\"additionalInfo\"><ul>\n")
	if d.FloorLine != "" {
		fmt.Fprintf(&b, "  <li>%s</li>\n", html.EscapeString(d.FloorLine))
	}
	if d.RoomsLine != "" {
		fmt.Fprintf(&b, "  <li><span>%s</span></li>\n", html.EscapeString(d.RoomsLine))
	}
	b.WriteString("</ul></div>\n")
	if d.NewBuilding != "" {
		fmt.Fprintf(&b, "<div id=\"newbuildingInfo\">\n  %s\n</div>\n", html.EscapeString(d.NewBuilding))
	}
	b.WriteString("</body></html>")
	return []byte(b.String())
}
